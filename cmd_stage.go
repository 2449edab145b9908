package main

import (
	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
	"github.com/memphora/pypub/pkg/publish/stage"
)

func init() {
	var stageFlags commonFlags
	stageCmd := &cobra.Command{
		Use:   "stage [flags]",
		Short: "Swap the publish-time files in to place, keeping backups",
		Long: "Copy the publish-time variants over the working files " +
			"(memphora_sdk_standalone.py over memphora_sdk.py, pyproject.toml.sdk " +
			"over pyproject.toml).  Any working file that would be overwritten is " +
			"first copied to a .backup file; 'pypub restore' puts it back.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := stageFlags.load()
			if err != nil {
				return err
			}
			proj := projectFromConfig(cfg)
			if err := proj.CheckPreconditions(); err != nil {
				return err
			}
			return stage.Stage(cmd.Context(), proj.Dir, proj.Pairs)
		},
	}
	stageFlags.register(stageCmd)
	argparser.AddCommand(stageCmd)

	var restoreFlags struct {
		commonFlags
		IgnoreMissing bool
	}
	restoreCmd := &cobra.Command{
		Use:   "restore [flags]",
		Short: "Restore the files backed up by 'pypub stage'",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := restoreFlags.load()
			if err != nil {
				return err
			}
			proj := projectFromConfig(cfg)
			return stage.Restore(cmd.Context(), proj.Dir, proj.Pairs, restoreFlags.IgnoreMissing)
		},
	}
	restoreFlags.commonFlags.register(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreFlags.IgnoreMissing, "ignore-missing", false,
		"Skip pairs that have no backup instead of failing")
	argparser.AddCommand(restoreCmd)
}
