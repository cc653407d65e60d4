package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevLog is for analysis trace output, never shown as a problem.
	SevLog Severity = iota
	// SevHint is for stylistic advice (e.g. a redundant library clause).
	SevHint
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevLog:
		return "LOG"
	case SevHint:
		return "HINT"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
