// Package report renders cache statistics for humans and scripts.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/cachesim/mem/cache"
)

// Format selects how statistics are printed.
type Format int

// The supported output formats.
const (
	Verbose Format = iota
	Compact
)

// ErrUnknownFormat is returned for output flags other than 0 and 1.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts the command-line output flag.
func ParseFormat(flag string) (Format, error) {
	switch flag {
	case "0":
		return Verbose, nil
	case "1":
		return Compact, nil
	}

	return 0, fmt.Errorf("%w: %q, want 0 or 1", ErrUnknownFormat, flag)
}

// Write prints stats in the given format.
func Write(w io.Writer, format Format, stats cache.Statistics) error {
	switch format {
	case Verbose:
		return WriteVerbose(w, stats)
	case Compact:
		return WriteCompact(w, stats)
	}

	return fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
}

// WriteVerbose prints one labelled percentage per line.
func WriteVerbose(w io.Writer, stats cache.Statistics) error {
	_, err := fmt.Fprintf(w,
		"Total accesses: %d\n"+
			"Hit rate: %.2f%%\n"+
			"Miss rate: %.2f%%\n"+
			"Compulsory misses: %.2f%%\n"+
			"Capacity misses: %.2f%%\n"+
			"Conflict misses: %.2f%%\n",
		stats.TotalAccesses,
		stats.HitRate()*100,
		stats.MissRate()*100,
		stats.CompulsoryRate()*100,
		stats.CapacityRate()*100,
		stats.ConflictRate()*100,
	)

	return err
}

// WriteCompact prints
// total, hit_rate, miss_rate, compulsory_rate, capacity_rate, conflict_rate
// on a single line. Capacity comes before conflict.
func WriteCompact(w io.Writer, stats cache.Statistics) error {
	_, err := fmt.Fprintf(w, "%d, %.2f, %.2f, %.2f, %.2f, %.2f\n",
		stats.TotalAccesses,
		stats.HitRate(),
		stats.MissRate(),
		stats.CompulsoryRate(),
		stats.CapacityRate(),
		stats.ConflictRate(),
	)

	return err
}

// WriteParameters echoes the parameters of a run.
func WriteParameters(w io.Writer, config cache.Config, traceFile string) error {
	_, err := fmt.Fprintf(w,
		"nsets = %d\n"+
			"bsize = %d\n"+
			"assoc = %d\n"+
			"subst = %s\n"+
			"file = %s\n",
		config.NumSets,
		config.BlockSize,
		config.Associativity,
		config.Policy.Code(),
		traceFile,
	)

	return err
}
