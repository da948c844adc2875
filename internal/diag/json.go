package diag

import (
	"encoding/json"

	"cadl/internal/source"
)

// jsonTarget mirrors the wire shape consumed by LSP front-ends.
type jsonTarget struct {
	File string `json:"file"`
	Pos  uint32 `json:"pos"`
	End  uint32 `json:"end"`
}

type jsonDiagnostic struct {
	Code       string            `json:"code"`
	Severity   string            `json:"severity"`
	Message    string            `json:"message"`
	Target     any               `json:"target"`
	FormatArgs map[string]string `json:"format_args,omitempty"`
}

// MarshalJSON renders one diagnostic in the stable LSP-facing shape:
// {code, severity, message, target: {file,pos,end} | "no-target", format_args}.
func MarshalJSON(d Diagnostic, fs *source.FileSet) ([]byte, error) {
	out := jsonDiagnostic{
		Code:       d.Code.Name(),
		Severity:   d.Severity.String(),
		Message:    d.Message,
		Target:     "no-target",
		FormatArgs: d.FormatArgs,
	}
	if d.HasTarget() && fs != nil {
		out.Target = jsonTarget{
			File: fs.Get(d.Primary.File).Path,
			Pos:  d.Primary.Start,
			End:  d.Primary.End,
		}
	}
	return json.Marshal(out)
}
