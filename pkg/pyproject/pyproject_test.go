package pyproject_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memphora/pypub/pkg/pyproject"
)

const sampleToml = `
[build-system]
requires = ["setuptools>=61.0", "wheel"]
build-backend = "setuptools.build_meta"

[project]
name = "memphora-sdk"
version = "0.1.0"
description = "Official Python SDK for Memphora"
requires-python = ">=3.8"

[project.urls]
Homepage = "https://memphora.ai"
`

func TestLoad(t *testing.T) {
	t.Parallel()
	filename := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(filename, []byte(sampleToml), 0666))

	proj, err := pyproject.Load(filename)
	require.NoError(t, err)
	assert.Equal(t, "memphora-sdk", proj.Name)
	assert.Equal(t, "0.1.0", proj.Version.String())
	assert.Equal(t, "0.1.0", proj.RawVersion)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	testcases := map[string]string{
		"no-name":     "[project]\nversion = \"1.0\"\n",
		"no-version":  "[project]\nname = \"memphora-sdk\"\n",
		"bad-version": "[project]\nname = \"memphora-sdk\"\nversion = \"one point oh\"\n",
		"not-toml":    "}{",
	}
	for tcName, content := range testcases {
		tcName, content := tcName, content
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			_, err := pyproject.Parse("pyproject.toml", []byte(content))
			assert.Error(t, err)
		})
	}
}

func TestNonCanonicalVersion(t *testing.T) {
	t.Parallel()
	proj, err := pyproject.Parse("pyproject.toml",
		[]byte("[project]\nname = \"memphora-sdk\"\nversion = \"v1.0-RC1\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "v1.0-RC1", proj.RawVersion)
	assert.Equal(t, "1.0rc1", proj.Version.String())
}
