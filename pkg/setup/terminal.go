package setup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal prompts on out and reads answers from in. Secret answers are read
// with echo disabled when in is a terminal; piped input is read line by line.
type Terminal struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminal creates a Terminal prompter.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Prompt writes label and reads one answer.
func (t *Terminal) Prompt(label string, secret bool) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)

	if f, ok := t.in.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(t.out) // newline after hidden input
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input received")
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
