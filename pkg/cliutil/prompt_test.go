package cliutil_test

import (
	"os"
	"strings"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memphora/pypub/pkg/cliutil"
)

func TestAskerYesNo(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)

	var out strings.Builder
	asker := &cliutil.Asker{
		In:  strings.NewReader("y\nno\nYES\n\n"),
		Out: &out,
	}

	for i, want := range []bool{true, false, true, false} {
		got, err := asker.YesNo(ctx, "Upload?")
		require.NoError(t, err)
		assert.Equal(t, want, got, "question #%d", i+1)
	}

	// EOF is "no"
	got, err := asker.YesNo(ctx, "Upload?")
	require.NoError(t, err)
	assert.False(t, got)

	assert.Contains(t, out.String(), "Upload? [y/N]: ")
}

func TestAskerNonTerminal(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)

	// A pipe is a file but not a terminal; the prompt must not consume it.
	rd, wr, err := os.Pipe()
	require.NoError(t, err)
	defer rd.Close()
	_, err = wr.WriteString("y\n")
	require.NoError(t, err)
	require.NoError(t, wr.Close())

	var out strings.Builder
	asker := &cliutil.Asker{In: rd, Out: &out}

	got, err := asker.YesNo(ctx, "Upload?")
	require.NoError(t, err)
	assert.False(t, got)
	assert.Empty(t, out.String())
}

func TestAskerAssume(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)

	yes := true
	var out strings.Builder
	asker := &cliutil.Asker{Out: &out, Assume: &yes}

	got, err := asker.YesNo(ctx, "Upload?")
	require.NoError(t, err)
	assert.True(t, got)
	// nothing written to the terminal and nothing read
	assert.Empty(t, out.String())
}
