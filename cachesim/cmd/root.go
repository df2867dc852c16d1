// Package cmd provides the command-line interface of cachesim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvSeed   = "CACHESIM_SEED"
	EnvRecord = "CACHESIM_RECORD"
)

// NewRootCmd creates the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cachesim <nsets> <bsize> <assoc> <subst> <flag_out> <trace_file>",
		Short: "cachesim measures how a cache geometry performs on a trace.",
		Long: `cachesim replays a trace of big-endian 32-bit addresses through a ` +
			`set-associative cache and classifies every miss as compulsory, ` +
			`conflict or capacity.

  nsets       number of sets
  bsize       block size in bytes
  assoc       lines per set
  subst       replacement policy: R (random), F (fifo) or L (lru)
  flag_out    0 for labelled output, 1 for a single comma-separated line
  trace_file  path of the trace`,
		Args: cobra.ExactArgs(6),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			return loadEnvFile(envFile)
		},
		RunE: runSimulation,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env",
		"File with environment defaults, ignored if missing")

	rootCmd.Flags().Uint64("seed", 0,
		"Seed of the random replacement policy (default: $"+EnvSeed+
			" or the wall clock)")
	rootCmd.Flags().String("record", "",
		"Record the run into this SQLite database (default: $"+EnvRecord+")")
	rootCmd.Flags().Bool("record-accesses", false,
		"Also record every access, requires --record")
	rootCmd.Flags().Bool("trace-log", false,
		"Print every access to stderr")
	rootCmd.Flags().Bool("monitor", false,
		"Serve the progress of the run over HTTP")
	rootCmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring server, random if 0")
	rootCmd.Flags().Bool("open-browser", false,
		"Open the monitoring server in a browser")

	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newSummaryCmd())

	return rootCmd
}

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, value)
	}

	return n, nil
}

func resolveSeed(cmd *cobra.Command) (uint64, error) {
	if cmd.Flags().Changed("seed") {
		return cmd.Flags().GetUint64("seed")
	}

	env := os.Getenv(EnvSeed)
	if env == "" {
		return uint64(time.Now().UnixNano()), nil
	}

	seed, err := strconv.ParseUint(env, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an unsigned integer, got %q", EnvSeed, env)
	}

	return seed, nil
}
