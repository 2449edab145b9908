// Package extrun runs the external tools that do the real work of packaging:
// pip, the PyPA build frontend, twine, and git.  Each tool keeps its own
// stdout/stderr so its diagnostics reach the user verbatim; a failing tool
// fails the caller with that tool's exit status, the way `set -e` would.
package extrun

import (
	"context"
	"os"
	"strings"

	"github.com/datawire/dlib/dexec"
)

// Tools holds the executables to use; zero values mean the defaults.
type Tools struct {
	Python string // "python3"
	Pip    string // "pip"
	Git    string // "git"

	// Dir is the working directory for every command.
	Dir string
}

func (t Tools) python() string {
	if t.Python == "" {
		return "python3"
	}
	return t.Python
}

func (t Tools) pip() string {
	if t.Pip == "" {
		return "pip"
	}
	return t.Pip
}

func (t Tools) git() string {
	if t.Git == "" {
		return "git"
	}
	return t.Git
}

func (t Tools) command(ctx context.Context, name string, args ...string) *dexec.Cmd {
	cmd := dexec.CommandContext(ctx, name, args...)
	cmd.Dir = t.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// InstallPublishTools upgrades the build and upload tools, like the runbook's
// `pip install --upgrade build twine`.
func (t Tools) InstallPublishTools(ctx context.Context) error {
	return t.command(ctx, t.pip(), "install", "--upgrade", "build", "twine").Run()
}

// Build runs the PyPA build frontend (`python3 -m build`), producing the sdist
// and wheel under dist/.
func (t Tools) Build(ctx context.Context) error {
	return t.command(ctx, t.python(), "-m", "build").Run()
}

// TwineCheck runs `twine check` over the given distribution files.
func (t Tools) TwineCheck(ctx context.Context, distFiles []string) error {
	args := append([]string{"-m", "twine", "check"}, distFiles...)
	return t.command(ctx, t.python(), args...).Run()
}

// TwineUpload runs `twine upload` over the given distribution files.
// repository is a twine repository name ("testpypi"); empty means twine's
// default, production PyPI.
func (t Tools) TwineUpload(ctx context.Context, repository string, distFiles []string) error {
	args := []string{"-m", "twine", "upload"}
	if repository != "" {
		args = append(args, "--repository", repository)
	}
	args = append(args, distFiles...)
	return t.command(ctx, t.python(), args...).Run()
}

// GitRun runs git with its output passed through.
func (t Tools) GitRun(ctx context.Context, args ...string) error {
	return t.command(ctx, t.git(), args...).Run()
}

// GitOutput runs git and returns its trimmed stdout.
func (t Tools) GitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := dexec.CommandContext(ctx, t.git(), args...)
	cmd.Dir = t.Dir
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}
