package trackfinder

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions on a terminal-like stream.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks question until the answer is y/yes or n/no. End of input
// counts as no.
func (p *Prompter) Confirm(question string) bool {
	for {
		fmt.Fprintf(p.out, "%s [y/n] ", question)
		line, err := p.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if err != nil {
			fmt.Fprintln(p.out)
			return false
		}
		fmt.Fprintln(p.out, "Please answer 'y' or 'n'")
	}
}
