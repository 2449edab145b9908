package gitmirror_test

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memphora/pypub/pkg/extrun"
	"github.com/memphora/pypub/pkg/gitmirror"
)

func testContext(t *testing.T) context.Context {
	return dlog.NewTestContext(t, false)
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitInit(ctx context.Context, t *testing.T, dir string) extrun.Tools {
	t.Helper()
	tools := extrun.Tools{Dir: dir}
	require.NoError(t, tools.GitRun(ctx, "init", "-q"))
	require.NoError(t, tools.GitRun(ctx, "config", "user.email", "test@example.com"))
	require.NoError(t, tools.GitRun(ctx, "config", "user.name", "test"))
	return tools
}

func TestInit(t *testing.T) {
	requireGit(t)
	ctx := testContext(t)
	tools := gitInit(ctx, t, t.TempDir())
	mirror := gitmirror.Mirror{Tools: tools}

	require.NoError(t, mirror.Init(ctx, "https://github.com/example/memphora-sdk-mirror.git"))
	url, err := tools.GitOutput(ctx, "remote", "get-url", "mirror")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/example/memphora-sdk-mirror.git", url)

	// Re-running with a new URL moves the remote instead of failing.
	require.NoError(t, mirror.Init(ctx, "https://github.com/example/elsewhere.git"))
	url, err = tools.GitOutput(ctx, "remote", "get-url", "mirror")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/example/elsewhere.git", url)
}

func TestInitOutsideRepo(t *testing.T) {
	requireGit(t)
	ctx := testContext(t)
	mirror := gitmirror.Mirror{Tools: extrun.Tools{Dir: "/"}}
	err := mirror.Init(ctx, "https://github.com/example/mirror.git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/ is not inside a git work tree")
}

func TestInitOutsideRepoCwd(t *testing.T) {
	requireGit(t)
	ctx := testContext(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// An empty Dir means the current directory; the error should say so.
	mirror := gitmirror.Mirror{}
	err = mirror.Init(ctx, "https://github.com/example/mirror.git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ". is not inside a git work tree")
}

func TestPushDetachedHead(t *testing.T) {
	requireGit(t)
	ctx := testContext(t)
	dir := t.TempDir()
	tools := gitInit(ctx, t, dir)
	require.NoError(t, tools.GitRun(ctx, "commit", "-q", "--allow-empty", "-m", "init"))
	head, err := tools.GitOutput(ctx, "rev-parse", "HEAD")
	require.NoError(t, err)
	require.NoError(t, tools.GitRun(ctx, "checkout", "-q", "--detach", head))

	mirror := gitmirror.Mirror{Tools: tools}
	require.NoError(t, mirror.Init(ctx, "https://github.com/example/mirror.git"))
	err = mirror.Push(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detached HEAD")
}

func TestPushToLocalMirror(t *testing.T) {
	requireGit(t)
	ctx := testContext(t)

	bareDir := t.TempDir()
	bare := extrun.Tools{Dir: bareDir}
	require.NoError(t, bare.GitRun(ctx, "init", "-q", "--bare"))

	workDir := t.TempDir()
	tools := gitInit(ctx, t, workDir)
	require.NoError(t, tools.GitRun(ctx, "commit", "-q", "--allow-empty", "-m", "release v0.1.0"))
	require.NoError(t, tools.GitRun(ctx, "tag", "v0.1.0"))

	mirror := gitmirror.Mirror{Tools: tools}
	require.NoError(t, mirror.Init(ctx, bareDir))
	require.NoError(t, mirror.Push(ctx))

	tags, err := bare.GitOutput(ctx, "tag")
	require.NoError(t, err)
	assert.Equal(t, "v0.1.0", tags)
}
