package lexer_test

import (
	"testing"

	"cadl/internal/diag"
	"cadl/internal/lexer"
	"cadl/internal/source"
	"cadl/internal/token"
)

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cadl", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag()
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func expectKinds(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("token count = %d, want %d (tokens: %v, diags: %s)",
			len(tokens), len(expected), tokens, diag.FormatShort(bag.Items(), nil))
	}
	for i, want := range expected {
		if tokens[i].Kind != want {
			t.Fatalf("token[%d] = %v (%q), want %v", i, tokens[i].Kind, tokens[i].Text, want)
		}
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	expectKinds(t, "model Pet extends Animal",
		[]token.Kind{token.KwModel, token.Ident, token.KwExtends, token.Ident, token.EOF})
	expectKinds(t, "mixes modeling importx",
		[]token.Kind{token.Ident, token.Ident, token.Ident, token.EOF})
}

func TestPunctuation(t *testing.T) {
	expectKinds(t, "{}()[]<>,;:.?=|&@#...",
		[]token.Kind{
			token.LBrace, token.RBrace, token.LParen, token.RParen,
			token.LBracket, token.RBracket, token.Lt, token.Gt,
			token.Comma, token.Semicolon, token.Colon, token.Dot,
			token.Question, token.Assign, token.Pipe, token.Amp,
			token.At, token.Hash, token.Ellipsis, token.EOF,
		})
}

func TestNewlineIsAToken(t *testing.T) {
	expectKinds(t, "model\n\nA",
		[]token.Kind{token.KwModel, token.Newline, token.Ident, token.EOF})
}

func TestStringDecoding(t *testing.T) {
	cases := []struct {
		name  string
		input string
		value string
	}{
		{"plain", `"hello"`, "hello"},
		{"escapes", `"a\n\t\"b\\"`, "a\n\t\"b\\"},
		{"dollar escape", `"\${x}"`, "${x}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tc.input)
			tok := lx.Next()
			if tok.Kind != token.StringLit {
				t.Fatalf("kind = %v", tok.Kind)
			}
			if tok.Value != tc.value {
				t.Fatalf("Value = %q, want %q", tok.Value, tc.value)
			}
			if bag.Len() != 0 {
				t.Fatalf("diagnostics: %s", diag.FormatShort(bag.Items(), nil))
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeTestLexer("\"abc\nmodel")
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Fatalf("kind = %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected unterminated-literal error")
	}
	if bag.Items()[0].Code != diag.SynUnterminatedLiteral {
		t.Fatalf("code = %v, want %v", bag.Items()[0].Code, diag.SynUnterminatedLiteral)
	}
	// The lexer keeps going: 'model' is still produced.
	rest := collectAllTokens(lx)
	if rest[1].Kind != token.KwModel {
		t.Fatalf("next tokens = %v", rest)
	}
}

func TestIdentifiersShareInternedText(t *testing.T) {
	in := source.NewInterner()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cadl", []byte("foo bar foo"))
	lx := lexer.New(fs.Get(id), lexer.Options{Interner: in})

	toks := collectAllTokens(lx)
	if len(toks) != 4 {
		t.Fatalf("tokens = %v", toks)
	}
	if toks[0].Text != "foo" || toks[2].Text != "foo" {
		t.Fatalf("texts = %q %q", toks[0].Text, toks[2].Text)
	}
	// Two distinct spellings: the interner holds "" (seeded), foo, bar.
	if in.Len() != 3 {
		t.Errorf("interner len = %d, want 3", in.Len())
	}
	if got := in.MustLookup(in.Intern("foo")); got != toks[0].Text {
		t.Error("token text is not the interned spelling")
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct{ input, text string }{
		{"42", "42"},
		{"-17", "-17"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"2.5e-3", "2.5e-3"},
	}
	for _, tc := range cases {
		lx, bag := makeTestLexer(tc.input)
		tok := lx.Next()
		if tok.Kind != token.NumericLit || tok.Text != tc.text {
			t.Fatalf("%q -> %v %q", tc.input, tok.Kind, tok.Text)
		}
		if bag.Len() != 0 {
			t.Fatalf("%q diagnostics: %s", tc.input, diag.FormatShort(bag.Items(), nil))
		}
	}
}

func TestCommentsAreTrivia(t *testing.T) {
	lx, _ := makeTestLexer("// leading\nmodel /* inline */ A")
	first := lx.Next() // newline after comment
	if first.Kind != token.Newline {
		t.Fatalf("first = %v", first.Kind)
	}
	if len(first.Leading) != 1 || first.Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("leading = %v", first.Leading)
	}
	kw := lx.Next()
	if kw.Kind != token.KwModel {
		t.Fatalf("kw = %v", kw.Kind)
	}
	ident := lx.Next()
	if ident.Kind != token.Ident || ident.Text != "A" {
		t.Fatalf("ident = %v %q", ident.Kind, ident.Text)
	}
	found := false
	for _, tr := range ident.Leading {
		if tr.Kind == token.TriviaBlockComment {
			found = true
		}
	}
	if !found {
		t.Fatal("block comment not attached as leading trivia")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeTestLexer("/* never closed")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Fatalf("kind = %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected unterminated-comment error")
	}
}

func TestShebangFirstLineOnly(t *testing.T) {
	lx, _ := makeTestLexer("#!/usr/bin/env cadl\nmodel A {}")
	tok := lx.Next()
	if tok.Kind != token.Newline {
		t.Fatalf("first token = %v", tok.Kind)
	}
	if len(tok.Leading) == 0 || tok.Leading[0].Kind != token.TriviaShebang {
		t.Fatalf("leading = %v", tok.Leading)
	}

	// '#' later in the file is a Hash token, not a shebang.
	lx2, _ := makeTestLexer("model A {}\n#suppress x")
	var kinds []token.Kind
	for {
		tk := lx2.Next()
		kinds = append(kinds, tk.Kind)
		if tk.Kind == token.EOF {
			break
		}
	}
	sawHash := false
	for _, k := range kinds {
		if k == token.Hash {
			sawHash = true
		}
	}
	if !sawHash {
		t.Fatalf("no Hash token in %v", kinds)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("model A")
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Span != n.Span {
		t.Fatal("Peek and Next disagree")
	}
}

func TestUnicodeIdentNFC(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) normalizes to U+00E9.
	lx, _ := makeTestLexer("caf\u00e9 cafe\u0301")
	a := lx.Next()
	b := lx.Next()
	if a.Kind != token.Ident || b.Kind != token.Ident {
		t.Fatalf("kinds = %v %v", a.Kind, b.Kind)
	}
	if a.Text != b.Text {
		t.Fatalf("NFC normalization failed: %q vs %q", a.Text, b.Text)
	}
}
