package cmd

import (
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/mem/trace"
)

func newGenCmd() *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen <trace_file>",
		Short: "Write a synthetic trace.",
		Long: "`gen out.bin --count 1000 --max-addr 65536` writes 1000 " +
			"uniformly random addresses. With --stride the addresses walk " +
			"sequentially instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			maxAddr, _ := cmd.Flags().GetUint32("max-addr")
			stride, _ := cmd.Flags().GetUint32("stride")

			seed, _ := cmd.Flags().GetUint64("seed")
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			cmd.SilenceUsage = true

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}

			g := trace.Generator{
				Count:   count,
				MaxAddr: maxAddr,
				Stride:  stride,
				Rand:    rand.New(rand.NewPCG(seed, seed)),
			}

			err = g.Generate(trace.NewWriter(f))
			if err != nil {
				f.Close()
				return err
			}

			return f.Close()
		},
	}

	genCmd.Flags().Int("count", 1000, "Number of addresses")
	genCmd.Flags().Uint32("max-addr", 1<<16, "Addresses are below this value")
	genCmd.Flags().Uint32("stride", 0, "Sequential stride in bytes, 0 for random")
	genCmd.Flags().Uint64("seed", 0, "Seed of the generator (default: wall clock)")

	return genCmd
}
