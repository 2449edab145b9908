package main

import (
	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
	"github.com/memphora/pypub/pkg/extrun"
	"github.com/memphora/pypub/pkg/gitmirror"
)

var argparserMirror = &cobra.Command{
	Use:   "mirror {[flags]|SUBCOMMAND...}",
	Short: "Maintain a read-only GitHub mirror of the repository",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserMirror)
}

func init() {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "init [flags] REMOTE_URL",
		Short: "Point the mirror remote at a repository URL",
		Long: "Add (or move) the git remote that 'pypub mirror push' pushes to.  " +
			"Create an empty repository on GitHub first and pass its URL here; " +
			"nothing is pushed until you run 'pypub mirror push'.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			mirror := gitmirror.Mirror{
				Tools:  extrun.Tools{Dir: cfg.ProjectDir},
				Remote: cfg.MirrorRemote,
			}
			return mirror.Init(cmd.Context(), args[0])
		},
	}
	flags.register(cmd)
	argparserMirror.AddCommand(cmd)
}

func init() {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "push [flags]",
		Short: "Push the current branch and tags to the mirror",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			mirror := gitmirror.Mirror{
				Tools:  extrun.Tools{Dir: cfg.ProjectDir},
				Remote: cfg.MirrorRemote,
			}
			return mirror.Push(cmd.Context())
		},
	}
	flags.register(cmd)
	argparserMirror.AddCommand(cmd)
}
