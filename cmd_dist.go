package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
	"github.com/memphora/pypub/pkg/python/dist"
)

var argparserDist = &cobra.Command{
	Use:   "dist {[flags]|SUBCOMMAND...}",
	Short: "Build, check, upload, and list distribution files",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserDist)
}

func init() {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "build [flags]",
		Short: "Build the sdist and wheel with the PyPA build frontend",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if err := projectFromConfig(cfg).CheckPreconditions(); err != nil {
				return err
			}
			return toolsFromConfig(cfg).Build(cmd.Context())
		},
	}
	flags.register(cmd)
	argparserDist.AddCommand(cmd)
}

func init() {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "check [flags]",
		Short: "Verify the built distributions",
		Long: "Verify the files in dist/: every file must parse as a wheel or sdist " +
			"filename whose name and version match the staged pyproject.toml, and " +
			"'twine check' must pass on all of them.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			proj := projectFromConfig(cfg)
			meta, err := proj.Metadata()
			if err != nil {
				return err
			}
			entries, err := dist.Scan(proj.DistPath())
			if err != nil {
				return err
			}
			if err := dist.Verify(entries, meta.Name, meta.Version); err != nil {
				return err
			}
			paths := dist.Paths(proj.DistPath(), entries)
			return toolsFromConfig(cfg).TwineCheck(cmd.Context(), paths)
		},
	}
	flags.register(cmd)
	argparserDist.AddCommand(cmd)
}

func init() {
	var flags struct {
		commonFlags
		Repository string
	}
	cmd := &cobra.Command{
		Use:   "upload [flags]",
		Short: "Upload the built distributions with twine",
		Long: "Upload everything in dist/ with twine.  Credentials come from " +
			"twine's own configuration (~/.pypirc or TWINE_* environment " +
			"variables); pypub does not manage them.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			proj := projectFromConfig(cfg)
			entries, err := dist.Scan(proj.DistPath())
			if err != nil {
				return err
			}
			paths := dist.Paths(proj.DistPath(), entries)
			return toolsFromConfig(cfg).TwineUpload(cmd.Context(), flags.Repository, paths)
		},
	}
	flags.commonFlags.register(cmd)
	cmd.Flags().StringVar(&flags.Repository, "repository", "",
		"Upload to the twine repository `NAME` (e.g. \"testpypi\") instead of production PyPI")
	argparserDist.AddCommand(cmd)
}

func init() {
	var flags commonFlags
	cmd := &cobra.Command{
		Use:   "list [flags]",
		Short: "List the built distributions with human-readable sizes",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			proj := projectFromConfig(cfg)
			entries, err := dist.Scan(proj.DistPath())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(os.Stdout, dist.Listing(entries))
			return err
		},
	}
	flags.register(cmd)
	argparserDist.AddCommand(cmd)
}
