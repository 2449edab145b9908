package cliutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/term"
)

// An Asker asks yes/no questions on a terminal, with room for the answers to
// be forced from the command line (--yes / --no) for unattended runs.
type Asker struct {
	// In is where answers are read from; nil means os.Stdin.
	In io.Reader
	// Out is where questions are written to; nil means os.Stderr, keeping
	// stdout clean for command output.
	Out io.Writer

	// Assume, if non-nil, answers every question without asking.
	Assume *bool

	// br wraps In; it persists across questions so that buffered input
	// isn't lost between them.
	br *bufio.Reader
}

// interactive reports whether In can actually be prompted.  A file (including
// the default os.Stdin) must be a terminal; a non-file reader was handed in on
// purpose and is always read.
func (a *Asker) interactive() bool {
	in := a.In
	if in == nil {
		in = os.Stdin
	}
	if f, ok := in.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return true
}

// YesNo asks a y/n question and reports the answer.  An empty answer or EOF is
// "no"; anything not starting with "y" or "Y" is "no".  When stdin is not a
// terminal and no answer is assumed, the question isn't asked at all and the
// answer is "no".  That matches the runbook's prompts, where declining is
// always the safe direction.
func (a *Asker) YesNo(ctx context.Context, question string) (bool, error) {
	if a.br == nil {
		in := a.In
		if in == nil {
			in = os.Stdin
		}
		a.br = bufio.NewReader(in)
	}
	out := a.Out
	if out == nil {
		out = os.Stderr
	}

	if a.Assume != nil {
		answer := "n"
		if *a.Assume {
			answer = "y"
		}
		dlog.Infof(ctx, "%s [y/N]: %s (assumed)", question, answer)
		return *a.Assume, nil
	}

	if !a.interactive() {
		dlog.Infof(ctx, "%s [y/N]: n (stdin is not a terminal)", question)
		return false, nil
	}

	if _, err := fmt.Fprintf(out, "%s [y/N]: ", question); err != nil {
		return false, err
	}
	line, err := a.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
