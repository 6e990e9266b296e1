package ast

import "fmt"

// Location is a position in a rule file. Line and Column are 1-based;
// a zero Column means the position is known only to the line.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	switch {
	case l.File == "":
		return "<unknown>"
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// IsValid reports whether the location names a file and a line.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Before orders locations by file, then line, then column.
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}
