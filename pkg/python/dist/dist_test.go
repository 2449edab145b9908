package dist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memphora/pypub/pkg/python/dist"
	"github.com/memphora/pypub/pkg/python/pep440"
	"github.com/memphora/pypub/pkg/testutil"
)

func TestListing(t *testing.T) {
	t.Parallel()
	tmpdir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpdir, "memphora_sdk-0.1.0-py3-none-any.whl"), make([]byte, 2048), 0666))
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpdir, "memphora_sdk-0.1.0.tar.gz"), make([]byte, 512), 0666))

	entries, err := dist.Scan(tmpdir)
	require.NoError(t, err)

	testutil.AssertEqual(t, ""+
		"  2.0K  wheel  memphora_sdk-0.1.0-py3-none-any.whl\n"+
		"   512  sdist  memphora_sdk-0.1.0.tar.gz\n",
		dist.Listing(entries))
}

func TestParseFilename(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Kind    dist.Kind
		Name    string
		Version string
		Tag     string
	}
	testcases := map[string]testcase{
		"memphora_sdk-0.1.0-py3-none-any.whl": {
			Kind: dist.Wheel, Name: "memphora_sdk", Version: "0.1.0", Tag: "py3-none-any",
		},
		"memphora_sdk-0.1.0.tar.gz": {
			Kind: dist.Sdist, Name: "memphora_sdk", Version: "0.1.0",
		},
		"some-dist-1.0rc2.tar.gz": {
			Kind: dist.Sdist, Name: "some-dist", Version: "1.0rc2",
		},
		"numpy-1.21.4-1-cp39-cp39-manylinux_2_17_x86_64.whl": {
			Kind: dist.Wheel, Name: "numpy", Version: "1.21.4", Tag: "cp39-cp39-manylinux_2_17_x86_64",
		},
		"old_style-2.0.zip": {
			Kind: dist.Sdist, Name: "old_style", Version: "2.0",
		},
	}
	for filename, want := range testcases {
		filename, want := filename, want
		t.Run(filename, func(t *testing.T) {
			t.Parallel()
			got, err := dist.ParseFilename(filename)
			require.NoError(t, err)
			assert.Equal(t, want.Kind, got.Kind)
			assert.Equal(t, want.Name, got.Name)
			assert.Equal(t, want.Version, got.Version.String())
			assert.Equal(t, want.Tag, got.CompatibilityTag)
		})
	}

	for _, filename := range []string{
		"README.md",
		"memphora_sdk.whl",
		"-0.1.0.tar.gz",
		"memphora_sdk-not.a.version-py3-none-any.whl",
	} {
		filename := filename
		t.Run("invalid/"+filename, func(t *testing.T) {
			t.Parallel()
			_, err := dist.ParseFilename(filename)
			assert.Error(t, err)
		})
	}
}

func TestScanAndVerify(t *testing.T) {
	t.Parallel()
	tmpdir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpdir, "memphora_sdk-0.1.0-py3-none-any.whl"), make([]byte, 2048), 0666))
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpdir, "memphora_sdk-0.1.0.tar.gz"), make([]byte, 512), 0666))

	entries, err := dist.Scan(tmpdir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "memphora_sdk-0.1.0-py3-none-any.whl", entries[0].Filename)
	assert.Equal(t, int64(2048), entries[0].Size)

	ver, err := pep440.ParseVersion("0.1.0")
	require.NoError(t, err)
	assert.NoError(t, dist.Verify(entries, "memphora-sdk", *ver))

	otherVer, err := pep440.ParseVersion("0.2.0")
	require.NoError(t, err)
	assert.Error(t, dist.Verify(entries, "memphora-sdk", *otherVer))
	assert.Error(t, dist.Verify(entries, "other-project", *ver))

	paths := dist.Paths(tmpdir, entries)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(tmpdir, "memphora_sdk-0.1.0-py3-none-any.whl"), paths[0])
}

func TestScanRejectsStrays(t *testing.T) {
	t.Parallel()
	tmpdir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpdir, "memphora_sdk-0.1.0.tar.gz"), make([]byte, 512), 0666))
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpdir, "notes.txt"), []byte("hi"), 0666))

	_, err := dist.Scan(tmpdir)
	assert.Error(t, err)
}

func TestScanEmpty(t *testing.T) {
	t.Parallel()
	_, err := dist.Scan(t.TempDir())
	assert.Error(t, err)
}

func TestHumanSize(t *testing.T) {
	t.Parallel()
	testcases := map[int64]string{
		0:          "0",
		512:        "512",
		1024:       "1.0K",
		1536:       "1.5K",
		10240:      "10K",
		1048576:    "1.0M",
		5242880:    "5.0M",
		1073741824: "1.0G",
	}
	for in, want := range testcases {
		assert.Equal(t, want, dist.HumanSize(in), "input=%d", in)
	}
}
