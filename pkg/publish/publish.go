// Package publish is the pipeline that takes a checked-out SDK directory to
// uploaded distributions: precondition checks, artifact cleanup, file staging,
// build, verification, and upload.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/datawire/dlib/dlog"

	"github.com/memphora/pypub/pkg/publish/stage"
	"github.com/memphora/pypub/pkg/python/dist"
	"github.com/memphora/pypub/pkg/python/pep503"
	"github.com/memphora/pypub/pkg/pyproject"
)

// A Project is the on-disk layout the pipeline operates on.
type Project struct {
	// Dir is the SDK directory (the runbook runs from sdk/).
	Dir string
	// DistDir is where the build frontend leaves distributions, relative
	// to Dir.
	DistDir string
	// Preconditions are files that must exist in Dir before anything runs.
	Preconditions []string
	// Pairs are the publish-time file swaps.
	Pairs []stage.Pair
	// PyprojectFile is the staged packaging metadata, relative to Dir.
	PyprojectFile string
	// CleanGlobs are the build artifacts removed before building.
	CleanGlobs []string
}

func (p Project) DistPath() string {
	return filepath.Join(p.Dir, p.DistDir)
}

// CheckPreconditions verifies the precondition files exist, returning an error
// naming the first one that doesn't.  This is the runbook's "run this from the
// sdk/ directory" check.
func (p Project) CheckPreconditions() error {
	for _, name := range p.Preconditions {
		if _, err := os.Stat(filepath.Join(p.Dir, name)); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s not found in %s; run this from the SDK directory",
					name, p.Dir)
			}
			return err
		}
	}
	return nil
}

// Clean removes previous build artifacts (dist/, build/, *.egg-info/,
// __pycache__/).
func (p Project) Clean(ctx context.Context) error {
	for _, glob := range p.CleanGlobs {
		matches, err := filepath.Glob(filepath.Join(p.Dir, glob))
		if err != nil {
			return fmt.Errorf("clean %s: %w", glob, err)
		}
		for _, match := range matches {
			dlog.Infof(ctx, "removing %s", match)
			if err := os.RemoveAll(match); err != nil {
				return fmt.Errorf("clean %s: %w", glob, err)
			}
		}
	}
	return nil
}

// Metadata loads the staged pyproject.toml.
func (p Project) Metadata() (*pyproject.Project, error) {
	return pyproject.Load(filepath.Join(p.Dir, p.PyprojectFile))
}

// ErrVersionExists is wrapped by Preflight's error when the project version
// has already been uploaded to the index; indexes refuse re-uploads of a
// released version, so twine would fail later anyway.
var ErrVersionExists = errors.New("version already exists on the index")

// Preflight checks the target index for the project's version.  An index that
// doesn't know the project at all (HTTP 404) passes: first upload.  An
// unreachable index is reported as warn-only so an offline TestPyPI never
// blocks a production release; the returned bool says whether the check
// actually ran.
func Preflight(ctx context.Context, client pep503.Client, meta *pyproject.Project) (bool, error) {
	links, err := client.ListFiles(ctx, meta.Name)
	if err != nil {
		var httpErr *pep503.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return true, nil
		}
		dlog.Warnf(ctx, "preflight: cannot query index: %v", err)
		return false, nil
	}
	for _, link := range links {
		parsed, err := dist.ParseFilename(link.Filename)
		if err != nil {
			// Indexes list files we don't model (.egg, .exe); skip them.
			continue
		}
		if parsed.Version.Cmp(meta.Version) == 0 {
			return true, fmt.Errorf("%s %s: %w (index file %s)",
				meta.Name, meta.Version.String(), ErrVersionExists, link.Filename)
		}
	}
	return true, nil
}

// A Step is one named stage of the pipeline.
type Step struct {
	Name string
	Run  func(context.Context) error
}

// Pipeline runs steps strictly in order, stopping at the first failure with
// the step's name wrapped around the error.
type Pipeline struct {
	Steps []Step
}

func (pl Pipeline) Run(ctx context.Context) error {
	for _, step := range pl.Steps {
		dlog.Infof(ctx, "==> %s", step.Name)
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}
