package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/memphora/pypub/pkg/cliutil"
	"github.com/memphora/pypub/pkg/publish"
	"github.com/memphora/pypub/pkg/publish/stage"
	"github.com/memphora/pypub/pkg/python/dist"
	"github.com/memphora/pypub/pkg/python/pep503"
	"github.com/memphora/pypub/pkg/pyproject"
)

func init() {
	var flags struct {
		commonFlags
		AssumeYes     bool
		AssumeNo      bool
		SkipTools     bool
		SkipPreflight bool
	}
	cmd := &cobra.Command{
		Use:   "release [flags]",
		Short: "Run the full publish pipeline",
		Long: "Run the publish pipeline end-to-end: check that the SDK directory is " +
			"laid out as expected, install the build tools, clean old artifacts, " +
			"stage the publish-time files (backing up what they overwrite), build " +
			"the distributions, verify them, and then interactively upload to " +
			"TestPyPI and PyPI." +
			"\n\n" +
			"Each upload is its own y/n prompt, and a final prompt offers to " +
			"restore the backed-up files.  Declining a prompt is always safe: " +
			"nothing is uploaded or restored without a \"y\".",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			asker, err := askerFromFlags(cmd, flags.AssumeYes, flags.AssumeNo)
			if err != nil {
				return err
			}
			proj := projectFromConfig(cfg)
			tools := toolsFromConfig(cfg)

			// Carried between steps.
			var meta *pyproject.Project
			var distPaths []string

			steps := []publish.Step{
				{Name: "check preconditions", Run: func(context.Context) error {
					return proj.CheckPreconditions()
				}},
			}
			if !flags.SkipTools {
				steps = append(steps, publish.Step{
					Name: "install build tools",
					Run:  tools.InstallPublishTools,
				})
			}
			steps = append(steps,
				publish.Step{Name: "clean build artifacts", Run: proj.Clean},
				publish.Step{Name: "stage publish files", Run: func(ctx context.Context) error {
					return stage.Stage(ctx, proj.Dir, proj.Pairs)
				}},
				publish.Step{Name: "read project metadata", Run: func(context.Context) error {
					m, err := proj.Metadata()
					if err != nil {
						return err
					}
					meta = m
					return nil
				}},
			)
			if !flags.SkipPreflight {
				steps = append(steps, publish.Step{
					Name: "preflight version check",
					Run: func(ctx context.Context) error {
						// TestPyPI already having the version only
						// blocks the TestPyPI upload, so it warns.
						testClient := pep503.Client{BaseURL: cfg.TestIndexServer}
						if _, err := publish.Preflight(ctx, testClient, meta); err != nil {
							dlog.Warnf(ctx, "%v; the TestPyPI upload will fail", err)
						}
						prodClient := pep503.Client{BaseURL: cfg.IndexServer}
						_, err := publish.Preflight(ctx, prodClient, meta)
						return err
					},
				})
			}
			steps = append(steps,
				publish.Step{Name: "build distributions", Run: tools.Build},
				publish.Step{Name: "verify distributions", Run: func(ctx context.Context) error {
					entries, err := dist.Scan(proj.DistPath())
					if err != nil {
						return err
					}
					if err := dist.Verify(entries, meta.Name, meta.Version); err != nil {
						return err
					}
					distPaths = dist.Paths(proj.DistPath(), entries)
					return tools.TwineCheck(ctx, distPaths)
				}},
				publish.Step{Name: "upload", Run: func(ctx context.Context) error {
					yes, err := asker.YesNo(ctx, "Upload to TestPyPI?")
					if err != nil {
						return err
					}
					if yes {
						if err := tools.TwineUpload(ctx, cfg.TestRepository, distPaths); err != nil {
							return err
						}
					}
					yes, err = asker.YesNo(ctx, "Upload to PyPI (production)?")
					if err != nil {
						return err
					}
					if yes {
						if err := tools.TwineUpload(ctx, cfg.Repository, distPaths); err != nil {
							return err
						}
					}
					return nil
				}},
				publish.Step{Name: "list distributions", Run: func(context.Context) error {
					entries, err := dist.Scan(proj.DistPath())
					if err != nil {
						return err
					}
					_, err = fmt.Fprint(os.Stdout, dist.Listing(entries))
					return err
				}},
				publish.Step{Name: "restore backups", Run: func(ctx context.Context) error {
					if len(stage.Backups(proj.Dir, proj.Pairs)) == 0 {
						dlog.Infof(ctx, "no backups to restore")
						return nil
					}
					yes, err := asker.YesNo(ctx, "Restore original files from backups?")
					if err != nil {
						return err
					}
					if !yes {
						dlog.Infof(ctx, "keeping staged files; backups left in place")
						return nil
					}
					return stage.Restore(ctx, proj.Dir, proj.Pairs, true)
				}},
			)

			return publish.Pipeline{Steps: steps}.Run(cmd.Context())
		},
	}
	flags.commonFlags.register(cmd)
	cmd.Flags().BoolVarP(&flags.AssumeYes, "yes", "y", false,
		"Assume \"y\" for every prompt (unattended release)")
	cmd.Flags().BoolVarP(&flags.AssumeNo, "no", "n", false,
		"Assume \"n\" for every prompt (build and verify only)")
	cmd.Flags().BoolVar(&flags.SkipTools, "skip-tools", false,
		"Skip the 'pip install --upgrade build twine' step")
	cmd.Flags().BoolVar(&flags.SkipPreflight, "skip-preflight", false,
		"Skip checking the index for an already-released version")

	argparser.AddCommand(cmd)
}
