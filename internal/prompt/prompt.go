// Package prompt implements the interactive ask-until-valid loops used by
// the create-cloud and account workflows. All I/O is injected so the loops
// are testable with canned input sequences.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Prompter reads line-based answers and writes prompts. The zero value is
// not usable; construct with New or NewWithIO.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	password func(question string) (string, error)
}

// New returns a Prompter bound to stdin/stdout with no-echo password entry.
func New() *Prompter {
	p := &Prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
	p.password = p.terminalPassword

	return p
}

// NewWithIO returns a Prompter over arbitrary streams. Password prompts
// read a plain line, which is what tests want.
func NewWithIO(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
	p.password = func(question string) (string, error) {
		return p.Ask(question)
	}

	return p
}

func (p *Prompter) terminalPassword(question string) (string, error) {
	fmt.Fprintf(p.out, "%s ", question)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))

	fmt.Fprintln(p.out)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(raw), nil
}

// Say writes a plain line.
func (p *Prompter) Say(text string) {
	fmt.Fprintln(p.out, text)
}

// SayGreen writes a success/notice line.
func (p *Prompter) SayGreen(text string) {
	color.New(color.FgGreen).Fprintln(p.out, text)
}

// SayWarning writes a warning line.
func (p *Prompter) SayWarning(text string) {
	color.New(color.FgYellow).Fprintln(p.out, text)
}

// SayError writes an error line without exiting.
func (p *Prompter) SayError(text string) {
	color.New(color.FgRed).Fprintln(p.out, text)
}

// NewLine writes an empty line.
func (p *Prompter) NewLine() {
	fmt.Fprintln(p.out)
}

// Ask prints the question and returns the trimmed answer line.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// AskDefault asks with a default substituted for a blank answer.
func (p *Prompter) AskDefault(question, defaultValue string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s (%s - default):", question, defaultValue))
	if err != nil {
		return "", err
	}

	if answer == "" {
		return defaultValue, nil
	}

	return answer, nil
}

// Password asks without echoing when attached to a terminal.
func (p *Prompter) Password(question string) (string, error) {
	return p.password(question)
}

// ConfirmYesNo asks a yes/no question; only the literal answer "yes"
// confirms.
func (p *Prompter) ConfirmYesNo(question string) (bool, error) {
	answer, err := p.Ask(question + " (yes/no):")
	if err != nil {
		return false, err
	}

	return answer == "yes", nil
}
