package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is returned when a cache dimension is not positive.
	ErrInvalidGeometry = errors.New("invalid cache geometry")

	// ErrUnknownPolicy is returned for unrecognized replacement policies.
	ErrUnknownPolicy = errors.New("unknown replacement policy")
)

// Config is the static description of a cache.
type Config struct {
	NumSets       int    `json:"num_sets"`
	BlockSize     int    `json:"block_size"`
	Associativity int    `json:"associativity"`
	Policy        Policy `json:"policy"`

	// Seed feeds the random replacement policy.
	Seed uint64 `json:"seed"`
}

// Validate checks that every dimension is positive and the policy is known.
func (c Config) Validate() error {
	if c.NumSets <= 0 {
		return fmt.Errorf("%w: number of sets must be positive, got %d",
			ErrInvalidGeometry, c.NumSets)
	}

	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size must be positive, got %d",
			ErrInvalidGeometry, c.BlockSize)
	}

	if c.Associativity <= 0 {
		return fmt.Errorf("%w: associativity must be positive, got %d",
			ErrInvalidGeometry, c.Associativity)
	}

	switch c.Policy {
	case Random, FIFO, LRU:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, int(c.Policy))
	}

	return nil
}

// NumLines returns the total number of lines in the cache.
func (c Config) NumLines() int {
	return c.NumSets * c.Associativity
}

// ByteSize returns the number of bytes the cache can hold.
func (c Config) ByteSize() uint64 {
	return uint64(c.NumLines()) * uint64(c.BlockSize)
}
