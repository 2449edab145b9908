// Package pyproject reads the [project] table of a pyproject.toml, which is
// all the publish pipeline needs from it: the distribution's name and version.
package pyproject

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/memphora/pypub/pkg/python/pep440"
)

type Project struct {
	Name    string
	Version pep440.Version

	// RawVersion is the version string as spelled in the file.
	RawVersion string
}

type tomlFile struct {
	Project tomlProject `toml:"project"`
}

type tomlProject struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Load reads filename and returns its project name and PEP 440-validated
// version.  Everything else in the file is ignored; the build backend is the
// one that has to understand it in full.
func Load(filename string) (*Project, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(filename, content)
}

// Parse is Load for in-memory content; filename is used for error messages
// only.
func Parse(filename string, content []byte) (*Project, error) {
	var file tomlFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if file.Project.Name == "" {
		return nil, fmt.Errorf("%s: missing project.name", filename)
	}
	if file.Project.Version == "" {
		return nil, fmt.Errorf("%s: missing project.version (dynamic versions are not supported)", filename)
	}
	ver, err := pep440.ParseVersion(file.Project.Version)
	if err != nil {
		return nil, fmt.Errorf("%s: project.version: %w", filename, err)
	}
	return &Project{
		Name:       file.Project.Name,
		Version:    *ver,
		RawVersion: file.Project.Version,
	}, nil
}
