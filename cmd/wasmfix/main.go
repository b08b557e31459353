// Command wasmfix builds WebAssembly test fixtures from declared C and WAT
// sources, delegating to a WASI SDK clang and wat2wasm.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	fixtures "github.com/wippyai/wasm-fixtures"
)

var (
	flagDir      string
	flagManifest string
	flagSDK      string
	flagWABT     string
	flagJobs     int
	flagVerbose  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wasmfix",
		Short:         "Build WebAssembly test fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !flagVerbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			fixtures.SetLogger(logger)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flagDir, "dir", "C", ".", "fixture directory")
	pf.StringVar(&flagManifest, "manifest", "", "manifest file (default <dir>/fixtures.yaml, else discovery)")
	pf.StringVar(&flagSDK, "sdk", "", "WASI SDK root (overrides manifest and WASI_SDK_PATH)")
	pf.StringVar(&flagWABT, "wabt", "", "wabt root (overrides manifest and WABT_PATH)")
	pf.IntVarP(&flagJobs, "jobs", "j", 0, "parallel jobs (0 = one per CPU)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newBuildCmd(), newCleanCmd(), newListCmd(), newRunCmd())
	return cmd
}

// plan resolves manifest, toolchain, and graph from the global flags.
func plan(verify bool) (*fixtures.BuildPlan, error) {
	return fixtures.Plan(fixtures.Options{
		Dir:          flagDir,
		ManifestPath: flagManifest,
		SDKRoot:      flagSDK,
		WABTRoot:     flagWABT,
		Jobs:         flagJobs,
		Verify:       verify,
	})
}

func newBuildCmd() *cobra.Command {
	var (
		verify      bool
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "build [fixture...]",
		Short: "Build declared fixtures (all by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan(verify)
			if err != nil {
				return err
			}

			if interactive {
				return runInteractive(p)
			}

			var names []string
			if len(args) > 0 {
				names = args
			}

			summary, err := p.Build(cmd.Context(), names)
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "validate built modules with wazero")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive fixture picker")
	return cmd
}

func newCleanCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan(false)
			if err != nil {
				return err
			}

			if dryRun {
				for _, path := range p.CleanList() {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return nil
			}

			removed, err := p.Clean()
			for _, path := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be removed without removing")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List declared fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan(false)
			if err != nil {
				return err
			}
			printFixtures(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <fixture>",
		Short: "Build a fixture if stale, then execute it with WASI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan(false)
			if err != nil {
				return err
			}
			return p.Run(cmd.Context(), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
