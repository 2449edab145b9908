package main

import (
	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
)

func init() {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "clean [flags]",
		Short: "Remove previous build artifacts",
		Long: "Remove the artifacts a previous build left behind: dist/, build/, " +
			"*.egg-info/, and __pycache__/.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return projectFromConfig(cfg).Clean(cmd.Context())
		},
	}
	flags.register(cmd)
	argparser.AddCommand(cmd)
}
