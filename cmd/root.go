package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/config"
	"github.com/fenix-io/kayak-calc-sub001/internal/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kayakcalc",
	Short: "Hull hydrostatics and stability calculator",
	Long: `kayakcalc - Hull Hydrostatics and Stability Calculator

A CLI tool that computes hydrostatic and stability characteristics of a
symmetric small-craft hull described by transverse profiles.

This tool helps designers:
  - Reconstruct the hull surface between and beyond the given profiles
  - Compute submerged volume and center of buoyancy at any waterline and heel
  - Compose the center of gravity from mass components
  - Find the equilibrium waterline for a loaded mass
  - Derive the righting arm (GZ) curve, GM, and stability metrics`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(cmd.ErrOrStderr(), level)

		cfg := config.Defaults()
		if cfgFile != "" {
			var err error
			if cfg, err = config.Load(cfgFile); err != nil {
				return err
			}
			logger.Debug("config loaded", "path", cfgFile)
		}

		ctx := withLogger(cmd.Context(), logger)
		cmd.SetContext(withConfig(ctx, cfg))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(w, "  ║                                                           ║")
		fmt.Fprintf(w, "  ║   kayakcalc v%-45s║\n", version.Version)
		fmt.Fprintln(w, "  ║   Hull Hydrostatics and Stability Calculator              ║")
		fmt.Fprintln(w, "  ║                                                           ║")
		fmt.Fprintln(w, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Features:")
		fmt.Fprintln(w, "    • Hull loading from JSON or CSV in any common length unit")
		fmt.Fprintln(w, "    • Submerged volume and center of buoyancy at any heel")
		fmt.Fprintln(w, "    • Center of gravity composition and equilibrium draft")
		fmt.Fprintln(w, "    • Righting arm curve with GM, max GZ and vanishing angle")
		fmt.Fprintln(w, "    • Plot, CSV, JSON and PDF report export")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Use 'kayakcalc --help' to see available commands.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(w, "  Copyright © %s %s.\n", version.Year, version.Author)
		fmt.Fprintln(w)
	},
}

// Execute adds all child commands to the root command and runs it. It
// exits with a non-zero status when the command fails.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		cancel()
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	switch calcerr.KindOf(err) {
	case calcerr.Geometry:
		return 2
	case calcerr.Configuration:
		return 3
	case calcerr.Convergence:
		return 4
	default:
		return 1
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Analysis settings file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
