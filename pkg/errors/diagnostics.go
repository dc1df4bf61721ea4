package errors

// Level is the severity of a [Diagnostic].
type Level int

const (
	// LevelDebug marks expected, silent drops (e.g. relations to unknown entities).
	LevelDebug Level = iota
	// LevelWarn marks skipped input the user should know about.
	LevelWarn
	// LevelError marks a stage that failed and fell back to a default.
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal finding attached to a computation result.
type Diagnostic struct {
	Level   Level
	Subject string // Entity, edge or stage the finding refers to
	Err     *Error
}

// Diagnostics is an ordered list of findings. The zero value is ready to use.
type Diagnostics []Diagnostic

// Add appends a finding with the given level, code and formatted message.
func (d *Diagnostics) Add(level Level, code Code, subject, format string, args ...any) {
	*d = append(*d, Diagnostic{Level: level, Subject: subject, Err: New(code, format, args...)})
}

// Count returns how many findings carry the given code.
func (d Diagnostics) Count(code Code) int {
	n := 0
	for _, diag := range d {
		if diag.Err.Code == code {
			n++
		}
	}
	return n
}

// Has reports whether any finding carries the given code.
func (d Diagnostics) Has(code Code) bool { return d.Count(code) > 0 }

// AtLeast returns the findings whose level is at least min.
func (d Diagnostics) AtLeast(min Level) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Level >= min {
			out = append(out, diag)
		}
	}
	return out
}
