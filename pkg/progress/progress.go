// Package progress reports byte-level upload progress to the user.
package progress

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Reporter receives progress for one transfer at a time.
type Reporter interface {
	// Start begins reporting a transfer of total bytes.
	Start(name string, total int64)

	// Update reports the cumulative number of bytes transferred.
	Update(read int64)

	// Finish ends the current transfer. It is safe to call without a
	// preceding Start.
	Finish()
}

var labelStyle = lipgloss.NewStyle().Bold(true)

// New returns a terminal progress bar when out is a terminal and a plain
// line reporter otherwise.
func New(out io.Writer) Reporter {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewBar(out)
	}
	return NewLine(out)
}

func label(name string) string {
	return labelStyle.Render("Uploading " + name)
}

// Reader wraps an io.Reader and reports the cumulative bytes read.
type Reader struct {
	r        io.Reader
	reporter Reporter
	read     int64
}

// NewReader returns a Reader that forwards reads from r to reporter.
func NewReader(r io.Reader, reporter Reporter) *Reader {
	if reporter == nil {
		reporter = NewNopReporter()
	}
	return &Reader{r: r, reporter: reporter}
}

func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.reporter.Update(pr.read)
	}
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (pr *Reader) BytesRead() int64 {
	return pr.read
}
