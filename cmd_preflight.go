package main

import (
	"path/filepath"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
	"github.com/memphora/pypub/pkg/publish"
	"github.com/memphora/pypub/pkg/pyproject"
	"github.com/memphora/pypub/pkg/python/pep503"
)

func init() {
	var flags struct {
		commonFlags
		IndexServer string
		File        string
	}
	cmd := &cobra.Command{
		Use:   "preflight [flags]",
		Short: "Check the index for an already-released version",
		Long: "Read the project name and version from the packaging metadata and " +
			"query the index's simple API for it.  Indexes refuse re-uploads of a " +
			"released version, so catching this before building saves a failed " +
			"twine run at the end of the pipeline.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			file := flags.File
			if file == "" {
				// Before staging, the SDK's packaging metadata lives
				// under its publish-only name.
				file = "pyproject.toml.sdk"
			}
			meta, err := pyproject.Load(filepath.Join(cfg.ProjectDir, file))
			if err != nil {
				return err
			}
			indexServer := flags.IndexServer
			if indexServer == "" {
				indexServer = cfg.IndexServer
			}
			client := pep503.Client{BaseURL: indexServer}
			ran, err := publish.Preflight(cmd.Context(), client, meta)
			if err != nil {
				return err
			}
			if ran {
				dlog.Infof(cmd.Context(), "%s %s is free on %s",
					meta.Name, meta.Version.String(), indexServer)
			}
			return nil
		},
	}
	flags.commonFlags.register(cmd)
	cmd.Flags().StringVar(&flags.IndexServer, "index-server", "",
		"Query the simple API at `URL` instead of production PyPI")
	cmd.Flags().StringVar(&flags.File, "file", "",
		"Read the metadata from `FILE` instead of pyproject.toml.sdk")
	argparser.AddCommand(cmd)
}
