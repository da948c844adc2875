package loader_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadl/internal/checker"
	"cadl/internal/diag"
	"cadl/internal/host"
	"cadl/internal/loader"
	"cadl/internal/state"
	"cadl/internal/types"
)

func compile(t *testing.T, h *host.MemHost, entry string, opts loader.CompilerOptions) *loader.Program {
	t.Helper()
	prog, err := loader.Compile(context.Background(), h, entry, opts)
	require.NoError(t, err)
	return prog
}

func codes(prog *loader.Program) []diag.Code {
	var out []diag.Code
	for _, d := range prog.Diagnostics().Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCompileSingleFile(t *testing.T) {
	h := host.NewMemHost().AddFile("/proj/main.cadl", `
model Pet { name: string, age?: int32 = 1 }
`)
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	require.Len(t, prog.Scripts(), 1)
	pet, ok := prog.Root().Members.Get("Pet")
	require.True(t, ok)
	assert.IsType(t, &types.Model{}, pet)
}

func TestImportsLoadedOnceDepthFirst(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./a.cadl\";\nimport \"./b.cadl\";\nmodel M { a: A, b: B }\n").
		AddFile("/proj/a.cadl", "import \"./shared.cadl\";\nmodel A { s: S }\n").
		AddFile("/proj/b.cadl", "import \"./shared.cadl\";\nmodel B { s: S }\n").
		AddFile("/proj/shared.cadl", "model S { }\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	require.Len(t, prog.Scripts(), 4, "shared.cadl must load exactly once")
	paths := make([]string, 0, 4)
	for _, s := range prog.Scripts() {
		paths = append(paths, s.Path)
	}
	assert.Equal(t, []string{"/proj/main.cadl", "/proj/a.cadl", "/proj/shared.cadl", "/proj/b.cadl"}, paths)
}

func TestSymlinkedImportLoadsOnce(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./lib.cadl\";\nimport \"./alias.cadl\";\n").
		AddFile("/proj/lib.cadl", "model L { }\n").
		AddFile("/proj/alias.cadl", "unreached\n").
		AddLink("/proj/alias.cadl", "/proj/lib.cadl")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	assert.Len(t, prog.Scripts(), 2)
}

func TestDirectoryImportViaDescriptor(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./widgets\";\nmodel M { w: Widget }\n").
		AddFile("/proj/widgets/cadl.toml", "[package]\nname = \"widgets\"\nmain = \"lib.cadl\"\n").
		AddFile("/proj/widgets/lib.cadl", "model Widget { }\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	assert.Len(t, prog.Scripts(), 2)
}

func TestDirectoryImportFallsBackToMainCadl(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./widgets\";\n").
		AddFile("/proj/widgets/main.cadl", "model Widget { }\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})
	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
}

func TestPackageLookupWalksUp(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/nested/deep/main.cadl", "import \"widgets\";\nmodel M { w: Widget }\n").
		AddFile("/proj/cadl_modules/widgets/cadl.toml", "[package]\nname = \"widgets\"\nmain = \"index.cadl\"\n").
		AddFile("/proj/cadl_modules/widgets/index.cadl", "model Widget { }\n")
	prog := compile(t, h, "/proj/nested/deep/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
}

func TestMissingLibraryDiagnostic(t *testing.T) {
	h := host.NewMemHost().AddFile("/proj/main.cadl", "import \"nothing\";\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})
	assert.Contains(t, codes(prog), diag.LdrLibraryNotFound)
}

func TestMissingFileDiagnostic(t *testing.T) {
	h := host.NewMemHost().AddFile("/proj/main.cadl", "import \"./gone.cadl\";\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})
	assert.Contains(t, codes(prog), diag.LdrFileNotFound)
}

func TestUnknownExtensionDiagnostic(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./data.yaml\";\n").
		AddFile("/proj/data.yaml", "a: 1\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})
	assert.Contains(t, codes(prog), diag.LdrInvalidImport)
}

func TestExternalModuleDecorators(t *testing.T) {
	key := state.NewKey("tagged")
	validated := false
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./lib/tags.js\";\n\n@My.Tags.tag(\"pet\")\nmodel Pet { }\n").
		AddExternalModule("/proj/lib/tags.js", map[string]any{
			"namespace": "My.Tags",
			"$tag": loader.DecoratorFn(func(ctx *checker.DecoratorContext, target types.Type, args ...any) error {
				ctx.Registry.StateMap(key).Set(target, args[0])
				return nil
			}),
			"$onValidate": loader.ValidateFn(func(p *loader.Program) error {
				validated = true
				return nil
			}),
		})
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	assert.True(t, validated, "$onValidate must run after checking")
	pet, _ := prog.Root().Members.Get("Pet")
	got, ok := prog.StateMap(key).Get(pet)
	require.True(t, ok)
	assert.Equal(t, "pet", got)
}

func TestEmitterRunsAndWrites(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "model Pet { }\n").
		AddExternalModule("/proj/cadl_modules/openapi/main.js", map[string]any{
			"$onEmit": loader.EmitFn(func(p *loader.Program) error {
				return p.Host().WriteFile(context.Background(), "/out/openapi.json", []byte("{}"))
			}),
		}).
		AddFile("/proj/cadl_modules/openapi/cadl.toml", "[package]\nname = \"openapi\"\nmain = \"main.js\"\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{Emitters: []string{"openapi"}})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	_, ok := h.Written("/out/openapi.json")
	assert.True(t, ok, "emitter output missing")
}

func TestNoEmitSkipsEmitters(t *testing.T) {
	ran := false
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "model Pet { }\n").
		AddExternalModule("/proj/cadl_modules/e/main.js", map[string]any{
			"$onEmit": loader.EmitFn(func(p *loader.Program) error {
				ran = true
				return nil
			}),
		}).
		AddFile("/proj/cadl_modules/e/cadl.toml", "[package]\nname = \"e\"\nmain = \"main.js\"\n")
	compile(t, h, "/proj/main.cadl", loader.CompilerOptions{Emitters: []string{"e"}, NoEmit: true})
	assert.False(t, ran, "emitter must not run under NoEmit")
}

func TestStdLibLoadsFirst(t *testing.T) {
	h := host.NewMemHost().
		AddLibDir("/lib/std").
		AddFile("/lib/std/main.cadl", "namespace Std { model Base { } }\n").
		AddFile("/proj/main.cadl", "using Std;\nmodel M { b: Base }\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	assert.Equal(t, "/lib/std/main.cadl", prog.Scripts()[0].Path, "libraries load before user code")
}

func TestNoStdLib(t *testing.T) {
	h := host.NewMemHost().
		AddLibDir("/lib/std").
		AddFile("/lib/std/main.cadl", "namespace Std { model Base { } }\n").
		AddFile("/proj/main.cadl", "model M { }\n")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{NoStdLib: true})
	assert.Len(t, prog.Scripts(), 1)
}

func TestDirectoryEntryUsesDescriptor(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/cadl.toml", "[package]\nname = \"proj\"\nmain = \"src/entry.cadl\"\n").
		AddFile("/proj/src/entry.cadl", "model M { }\n")
	prog := compile(t, h, "/proj", loader.CompilerOptions{})

	assert.False(t, prog.HasError(), "diagnostics: %v", prog.Diagnostics().Items())
	require.Len(t, prog.Scripts(), 1)
	assert.Equal(t, "/proj/src/entry.cadl", prog.Scripts()[0].Path)
}

func TestCompilerVersionMismatch(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "model M { }\n").
		AddFile("/proj/cadl_modules/cadl-compiler/bin/cadlc", "local launcher").
		AddLink("/proj/cadl_modules/cadl-compiler/bin/cadlc", "/opt/other/cadlc")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{CompilerPath: "/usr/bin/cadlc"})

	assert.Contains(t, codes(prog), diag.LdrCompilerVersionMismatch)
	assert.Empty(t, prog.Scripts(), "loading must abort on a version mismatch")
}

func TestCompilerVersionMatchViaRealpath(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "model M { }\n").
		AddFile("/proj/cadl_modules/cadl-compiler/bin/cadlc", "local launcher").
		AddLink("/proj/cadl_modules/cadl-compiler/bin/cadlc", "/usr/bin/cadlc")
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{CompilerPath: "/usr/bin/cadlc"})

	assert.NotContains(t, codes(prog), diag.LdrCompilerVersionMismatch)
	assert.Len(t, prog.Scripts(), 1)
}

func TestSuppressWarning(t *testing.T) {
	h := host.NewMemHost().AddFile("/proj/main.cadl", `
#suppress "wrong-delimiter" semicolons are fine here
model M { a: string; b: string }
`)
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	for _, d := range prog.Diagnostics().Items() {
		assert.NotEqual(t, diag.SynWrongDelimiter, d.Code, "suppressed warning leaked")
	}
	assert.False(t, prog.HasError())
}

func TestSuppressedErrorStillFires(t *testing.T) {
	h := host.NewMemHost().AddFile("/proj/main.cadl", `
#suppress "unresolved-reference" wishful thinking
model M { a: Nothing }
`)
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	assert.True(t, prog.HasError(), "errors are never suppressible")
	assert.Contains(t, codes(prog), diag.MetSuppressError)
	assert.Contains(t, codes(prog), diag.SemUnresolvedReference)
}

func TestSuppressScopesToSubtree(t *testing.T) {
	h := host.NewMemHost().AddFile("/proj/main.cadl", `
#suppress "wrong-delimiter" only this model
model A { a: string; b: string }
model B { a: string; b: string }
`)
	prog := compile(t, h, "/proj/main.cadl", loader.CompilerOptions{})

	n := 0
	for _, d := range prog.Diagnostics().Items() {
		if d.Code == diag.SynWrongDelimiter {
			n++
		}
	}
	assert.Equal(t, 1, n, "directive must cover only the annotated statement")
}

func TestCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := host.NewMemHost().AddFile("/proj/main.cadl", "model M { }\n")
	_, err := loader.Compile(ctx, h, "/proj/main.cadl", loader.CompilerOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidatorErrorPropagates(t *testing.T) {
	h := host.NewMemHost().
		AddFile("/proj/main.cadl", "import \"./v.js\";\nmodel M { }\n").
		AddExternalModule("/proj/v.js", map[string]any{
			"$onValidate": loader.ValidateFn(func(p *loader.Program) error {
				return assert.AnError
			}),
		})
	_, err := loader.Compile(context.Background(), h, "/proj/main.cadl", loader.CompilerOptions{})
	assert.ErrorIs(t, err, assert.AnError)
}
