package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning diagnostics may be suppressed with a #suppress directive.
	SevWarning Severity = iota
	// SevError diagnostics are never suppressible and fail the compilation.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
