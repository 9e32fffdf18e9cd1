// Package report prints query results as tuple lines under section headers
// and optionally exports the same sections to an XLSX workbook.
package report

import (
	"fmt"
	"io"
)

// Printer writes sections to w. Every section after the first is preceded by
// an empty line.
type Printer struct {
	w        io.Writer
	sections int
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Header starts a new section.
func (p *Printer) Header(title string) {
	if p.sections > 0 {
		fmt.Fprintln(p.w)
	}
	p.sections++
	fmt.Fprintln(p.w, title)
}

// Writer returns the underlying writer for row output.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Line prints a status or error message.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
