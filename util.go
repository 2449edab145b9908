package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
	"github.com/memphora/pypub/pkg/config"
	"github.com/memphora/pypub/pkg/extrun"
	"github.com/memphora/pypub/pkg/publish"
)

// DefaultConfigFile is looked for in the project directory; it's fine for it
// not to exist.
const DefaultConfigFile = ".pypub.yml"

// commonFlags are the flags shared by every command that touches the project
// directory.
type commonFlags struct {
	ProjectDir string
	ConfigFile string
}

func (flags *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.ProjectDir, "project-dir", "C", "",
		"Publish from `DIR` instead of the current directory")
	cmd.Flags().StringVar(&flags.ConfigFile, "config", "",
		"Read configuration from `FILE` instead of "+DefaultConfigFile)
}

// load resolves the flags to a configuration: an explicitly named config file
// must exist; the default one is optional.
func (flags *commonFlags) load() (*config.Config, error) {
	if flags.ConfigFile != "" {
		cfg, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		flags.applyDir(cfg)
		return cfg, nil
	}
	file := DefaultConfigFile
	if flags.ProjectDir != "" {
		file = filepath.Join(flags.ProjectDir, DefaultConfigFile)
	}
	cfg, err := config.Load(file)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = config.Default()
	}
	flags.applyDir(cfg)
	return cfg, nil
}

func (flags *commonFlags) applyDir(cfg *config.Config) {
	if flags.ProjectDir != "" {
		cfg.ProjectDir = flags.ProjectDir
	}
}

func projectFromConfig(cfg *config.Config) publish.Project {
	return publish.Project{
		Dir:           cfg.ProjectDir,
		DistDir:       cfg.DistDir,
		Preconditions: cfg.Preconditions,
		Pairs:         cfg.Stage,
		PyprojectFile: "pyproject.toml",
		CleanGlobs:    cfg.CleanGlobs,
	}
}

func toolsFromConfig(cfg *config.Config) extrun.Tools {
	return extrun.Tools{
		Python: cfg.Python,
		Pip:    cfg.Pip,
		Dir:    cfg.ProjectDir,
	}
}

// askerFromFlags turns the --yes/--no pair in to an Asker; setting both is a
// usage error.
func askerFromFlags(cmd *cobra.Command, assumeYes, assumeNo bool) (*cliutil.Asker, error) {
	if assumeYes && assumeNo {
		return nil, cliutil.FlagErrorFunc(cmd, fmt.Errorf("--yes and --no are mutually exclusive"))
	}
	asker := &cliutil.Asker{}
	if assumeYes || assumeNo {
		asker.Assume = &assumeYes
	}
	return asker, nil
}
