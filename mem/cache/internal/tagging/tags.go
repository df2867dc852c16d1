// Package tagging keeps track of which blocks live in which cache lines.
package tagging

// TagArray holds the tag of every line in a set-associative cache.
type TagArray interface {
	Decompose(addr uint64) Location
	Lookup(setID int, tag uint64) (Block, bool)
	EmptyBlock(setID int) (Block, bool)
	GetSet(setID int) *Set
	Fill(block Block, tag uint64, now uint64) Block
	Visit(block Block, now uint64)
	NumValid() int
	Capacity() int
	IsFull() bool
	Reset()
}

// NewTagArray creates a tag array with all the lines invalid.
func NewTagArray(
	numSets int,
	numWays int,
	blockSize int,
) TagArray {
	t := &tagArrayImpl{
		NumSets:   numSets,
		NumWays:   numWays,
		BlockSize: blockSize,
		Sets:      []Set{},
	}

	t.Reset()

	return t
}

// A Location is the position of an address in the cache geometry.
type Location struct {
	Offset      uint64
	BlockNumber uint64
	SetID       int
	Tag         uint64
}

// Decompose splits an address into block offset, set index and tag.
// blockSize and numSets must be positive.
func Decompose(addr uint64, blockSize, numSets int) Location {
	blockNumber := addr / uint64(blockSize)

	return Location{
		Offset:      addr % uint64(blockSize),
		BlockNumber: blockNumber,
		SetID:       int(blockNumber % uint64(numSets)),
		Tag:         blockNumber / uint64(numSets),
	}
}

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag        uint64
	SetID      int
	WayID      int
	IsValid    bool
	LoadOrder  uint64
	LastAccess uint64
}

// A Set is a list of blocks where a certain piece memory can be stored at.
type Set struct {
	Blocks []Block
}

type tagArrayImpl struct {
	NumSets   int
	NumWays   int
	BlockSize int
	Sets      []Set

	numValid int
}

// TotalSize returns the maximum number of bytes can be stored in the cache
func (d *tagArrayImpl) TotalSize() uint64 {
	return uint64(d.NumSets) * uint64(d.NumWays) * uint64(d.BlockSize)
}

func (d *tagArrayImpl) Decompose(addr uint64) Location {
	return Decompose(addr, d.BlockSize, d.NumSets)
}

// GetSet returns the set with the given index.
func (d *tagArrayImpl) GetSet(setID int) *Set {
	return &d.Sets[setID]
}

// Lookup scans the set in way order for a valid block holding tag.
func (d *tagArrayImpl) Lookup(setID int, tag uint64) (Block, bool) {
	for _, block := range d.Sets[setID].Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// EmptyBlock returns the lowest-indexed invalid block of the set.
func (d *tagArrayImpl) EmptyBlock(setID int) (Block, bool) {
	for _, block := range d.Sets[setID].Blocks {
		if !block.IsValid {
			return block, true
		}
	}

	return Block{}, false
}

// Fill installs tag into the line identified by block. Both the insertion
// order and the recency marker are set to now.
func (d *tagArrayImpl) Fill(block Block, tag uint64, now uint64) Block {
	b := &d.Sets[block.SetID].Blocks[block.WayID]
	if !b.IsValid {
		d.numValid++
	}

	b.IsValid = true
	b.Tag = tag
	b.LoadOrder = now
	b.LastAccess = now

	return *b
}

// Visit marks the block as accessed at now.
func (d *tagArrayImpl) Visit(block Block, now uint64) {
	d.Sets[block.SetID].Blocks[block.WayID].LastAccess = now
}

// NumValid returns the number of valid lines across the whole cache.
func (d *tagArrayImpl) NumValid() int {
	return d.numValid
}

// Capacity returns the number of lines in the cache.
func (d *tagArrayImpl) Capacity() int {
	return d.NumSets * d.NumWays
}

// IsFull tells if every line of every set is valid.
func (d *tagArrayImpl) IsFull() bool {
	return d.numValid == d.Capacity()
}

// Reset will mark all the blocks in the directory invalid
func (d *tagArrayImpl) Reset() {
	d.numValid = 0
	d.Sets = make([]Set, d.NumSets)

	for i := 0; i < d.NumSets; i++ {
		d.Sets[i].Blocks = make([]Block, d.NumWays)
		for j := 0; j < d.NumWays; j++ {
			d.Sets[i].Blocks[j] = Block{
				IsValid: false,
				SetID:   i,
				WayID:   j,
			}
		}
	}
}
