package tagging

import "math/rand/v2"

// A VictimFinder decides which block of a full set should be evicted.
type VictimFinder interface {
	FindVictim(set *Set) Block
}

// RandomVictimFinder evicts a uniformly chosen block.
type RandomVictimFinder struct {
	rng *rand.Rand
}

// NewRandomVictimFinder returns a random evictor drawing from rng.
func NewRandomVictimFinder(rng *rand.Rand) *RandomVictimFinder {
	return &RandomVictimFinder{rng: rng}
}

// FindVictim returns a random block of the set.
func (e *RandomVictimFinder) FindVictim(set *Set) Block {
	return set.Blocks[e.rng.IntN(len(set.Blocks))]
}

// FIFOVictimFinder evicts the block that was loaded first.
type FIFOVictimFinder struct {
}

// NewFIFOVictimFinder returns a newly constructed fifo evictor
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return new(FIFOVictimFinder)
}

// FindVictim returns the block with the smallest load order. Ties go to the
// lowest way.
func (e *FIFOVictimFinder) FindVictim(set *Set) Block {
	victim := set.Blocks[0]

	for _, block := range set.Blocks[1:] {
		if block.LoadOrder < victim.LoadOrder {
			victim = block
		}
	}

	return victim
}

// LRUVictimFinder evicts the least recently used block to evict
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim returns the least recently used block in a set
func (e *LRUVictimFinder) FindVictim(set *Set) Block {
	victim := set.Blocks[0]

	for _, block := range set.Blocks[1:] {
		if block.LastAccess < victim.LastAccess {
			victim = block
		}
	}

	return victim
}
