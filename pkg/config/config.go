// Package config loads pypub's optional YAML configuration.  All fields have
// defaults matching the Memphora SDK's layout, so a config file is only needed
// when publishing something shaped differently.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/memphora/pypub/pkg/publish/stage"
	"github.com/memphora/pypub/pkg/python/pep503"
)

type Config struct {
	// ProjectDir is the SDK directory to publish from.
	ProjectDir string `json:"projectDir,omitempty"`
	// DistDir is where built distributions land, relative to ProjectDir.
	DistDir string `json:"distDir,omitempty"`

	// Preconditions are files that must exist in ProjectDir.
	Preconditions []string `json:"preconditions,omitempty"`
	// Stage lists the publish-time file swaps.
	Stage []stage.Pair `json:"stage,omitempty"`
	// CleanGlobs are build artifacts removed before building.
	CleanGlobs []string `json:"cleanGlobs,omitempty"`

	// Python and Pip override the executables used.
	Python string `json:"python,omitempty"`
	Pip    string `json:"pip,omitempty"`

	// Repository and TestRepository are twine repository names; an empty
	// Repository means twine's default (production PyPI).
	Repository     string `json:"repository,omitempty"`
	TestRepository string `json:"testRepository,omitempty"`

	// IndexServer and TestIndexServer are simple-API roots used by the
	// preflight check.
	IndexServer     string `json:"indexServer,omitempty"`
	TestIndexServer string `json:"testIndexServer,omitempty"`

	// MirrorRemote is the git remote name used by `pypub mirror`.
	MirrorRemote string `json:"mirrorRemote,omitempty"`
}

// Default returns the configuration for the Memphora SDK's sdk/ directory.
func Default() *Config {
	return &Config{
		ProjectDir:    ".",
		DistDir:       "dist",
		Preconditions: []string{"setup.py", "pyproject.toml.sdk"},
		Stage: []stage.Pair{
			{Source: "memphora_sdk_standalone.py", Target: "memphora_sdk.py"},
			{Source: "pyproject.toml.sdk", Target: "pyproject.toml"},
		},
		CleanGlobs:      []string{"dist", "build", "*.egg-info", "__pycache__"},
		TestRepository:  "testpypi",
		IndexServer:     pep503.PyPIBaseURL,
		TestIndexServer: pep503.TestPyPIBaseURL,
		MirrorRemote:    "mirror",
	}
}

// Load reads a config file and lays it over the defaults.  Unknown fields are
// an error; a typoed key silently doing nothing is worse than a parse failure.
func Load(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(content, cfg, yaml.DisallowUnknownFields); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}
