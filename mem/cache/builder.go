package cache

import (
	"math/rand/v2"

	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
)

// Builder can build cache models.
type Builder struct {
	numSets       int
	blockSize     int
	associativity int
	policy        Policy
	seed          uint64

	victimFinder tagging.VictimFinder
}

// MakeBuilder creates a new builder with a 64-set, 4-way, 64-byte-line LRU
// cache as the default.
func MakeBuilder() Builder {
	return Builder{
		numSets:       64,
		blockSize:     64,
		associativity: 4,
		policy:        LRU,
	}
}

// WithNumSets sets the number of sets of the cache.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithBlockSize sets the number of bytes in a cache line.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.blockSize = blockSize
	return b
}

// WithAssociativity sets the number of ways in each set.
func (b Builder) WithAssociativity(associativity int) Builder {
	b.associativity = associativity
	return b
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.policy = policy
	return b
}

// WithSeed sets the seed of the random replacement policy.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithConfig copies every field of the config into the builder.
func (b Builder) WithConfig(c Config) Builder {
	b.numSets = c.NumSets
	b.blockSize = c.BlockSize
	b.associativity = c.Associativity
	b.policy = c.Policy
	b.seed = c.Seed

	return b
}

// WithVictimFinder overrides the victim finder derived from the policy.
func (b Builder) WithVictimFinder(victimFinder tagging.VictimFinder) Builder {
	b.victimFinder = victimFinder
	return b
}

// Config returns the configuration the builder would build with.
func (b Builder) Config() Config {
	return Config{
		NumSets:       b.numSets,
		BlockSize:     b.blockSize,
		Associativity: b.associativity,
		Policy:        b.policy,
		Seed:          b.seed,
	}
}

// Build builds a cache model. It fails if the geometry is not valid.
func (b Builder) Build() (*Model, error) {
	config := b.Config()

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	victimFinder := b.victimFinder
	if victimFinder == nil {
		victimFinder = b.createVictimFinder()
	}

	m := &Model{
		config:       config,
		tags:         tagging.NewTagArray(b.numSets, b.associativity, b.blockSize),
		victimFinder: victimFinder,
	}

	return m, nil
}

func (b Builder) createVictimFinder() tagging.VictimFinder {
	var victimFinder tagging.VictimFinder

	switch b.policy {
	case Random:
		rng := rand.New(rand.NewPCG(b.seed, b.seed))
		victimFinder = tagging.NewRandomVictimFinder(rng)
	case FIFO:
		victimFinder = tagging.NewFIFOVictimFinder()
	case LRU:
		victimFinder = tagging.NewLRUVictimFinder()
	default:
		panic("unknown replace strategy: " + b.policy.String())
	}

	return victimFinder
}
