package progress

import (
	"fmt"
	"io"
)

// Line writes a single summary line per transfer. Used when output is not
// a terminal.
type Line struct {
	out   io.Writer
	name  string
	total int64
	read  int64
	open  bool
}

// NewLine creates a Line reporter writing to out.
func NewLine(out io.Writer) *Line {
	return &Line{out: out}
}

func (l *Line) Start(name string, total int64) {
	l.name = name
	l.total = total
	l.read = 0
	l.open = true
}

func (l *Line) Update(read int64) {
	l.read = read
}

func (l *Line) Finish() {
	if !l.open {
		return
	}
	l.open = false

	pct := 0
	if l.total > 0 {
		pct = int(l.read * 100 / l.total)
	}
	fmt.Fprintf(l.out, "%s %3d%% %d of %d\n", label(l.name), pct, l.read, l.total)
}
