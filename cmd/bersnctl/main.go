package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bersn-calc/internal/config"
)

const defaultURL = "http://localhost:8080"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:          "bersnctl",
		Short:        "Client for the BERSn calculation engine",
		SilenceUsage: true,
	}

	envURL := os.Getenv("BERSN_CALC_URL")
	if envURL == "" {
		envURL = defaultURL
	}

	cmd.PersistentFlags().StringVar(&opts.url, "url", envURL, "calculation engine base URL (env BERSN_CALC_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (0 keeps the client default)")

	cmd.AddCommand(healthCmd(&opts))
	cmd.AddCommand(runCmd(&opts))

	return cmd
}

func healthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the engine is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func runCmd(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit a calculation request and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculation(cmd.Context(), opts, file, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, or - for stdin")
	return cmd
}
