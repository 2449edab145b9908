// Package gitmirror maintains a read-only GitHub mirror of the working
// repository: a named remote that the current branch and tags get pushed to
// after a release.
package gitmirror

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"github.com/memphora/pypub/pkg/extrun"
)

// DefaultRemote is the remote name used when none is configured.
const DefaultRemote = "mirror"

type Mirror struct {
	Tools  extrun.Tools
	Remote string
}

func (m Mirror) remote() string {
	if m.Remote == "" {
		return DefaultRemote
	}
	return m.Remote
}

// Init points the mirror remote at url, creating the remote if it doesn't
// exist yet and moving it if it does.
func (m Mirror) Init(ctx context.Context, url string) error {
	if err := m.checkWorkTree(ctx); err != nil {
		return err
	}
	if _, err := m.Tools.GitOutput(ctx, "remote", "get-url", m.remote()); err == nil {
		dlog.Infof(ctx, "remote %q exists; updating its URL", m.remote())
		return m.Tools.GitRun(ctx, "remote", "set-url", m.remote(), url)
	}
	return m.Tools.GitRun(ctx, "remote", "add", m.remote(), url)
}

// Push pushes the current branch and all tags to the mirror remote.
func (m Mirror) Push(ctx context.Context) error {
	if err := m.checkWorkTree(ctx); err != nil {
		return err
	}
	branch, err := m.Tools.GitOutput(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return err
	}
	if branch == "HEAD" {
		return fmt.Errorf("detached HEAD; check out a branch before pushing to the mirror")
	}
	if err := m.Tools.GitRun(ctx, "push", m.remote(), branch); err != nil {
		return err
	}
	return m.Tools.GitRun(ctx, "push", m.remote(), "--tags")
}

func (m Mirror) checkWorkTree(ctx context.Context) error {
	if out, err := m.Tools.GitOutput(ctx, "rev-parse", "--is-inside-work-tree"); err != nil || out != "true" {
		dir := m.Tools.Dir
		if dir == "" {
			dir = "."
		}
		return fmt.Errorf("%s is not inside a git work tree", dir)
	}
	return nil
}
