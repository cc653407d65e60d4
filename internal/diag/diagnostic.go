package diag

import (
	"volta/internal/source"
)

// Note attaches related context to a diagnostic, such as
// "Previously defined here".
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding from the analysis pass.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New builds a plain diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// Error is a shortcut for SevError diagnostics.
func Error(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// Hint is a shortcut for SevHint diagnostics.
func Hint(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevHint, code, primary, msg)
}

// WithNote returns a copy of the diagnostic with one more related note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
