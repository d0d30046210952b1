package prompter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type Prompter interface {
	Confirm(question string) (bool, error)
}

// TextPrompter asks yes/no questions on a terminal. The default answer
// is always "no": degraded-trust confirmations must never pass silently.
type TextPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *TextPrompter {
	return &TextPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *TextPrompter) Confirm(q string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", q); err != nil {
		return false, err
	}

	resp, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	r := strings.ToLower(strings.TrimSpace(resp))
	return r == "y" || r == "yes", nil
}

// Static always answers the same way; used by --yes flags and tests.
type Static struct{ Answer bool }

func (s Static) Confirm(string) (bool, error) { return s.Answer, nil }
