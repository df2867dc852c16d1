package cache

import "github.com/sarchlab/cachesim/mem/cache/internal/tagging"

// MissKind classifies a miss in the three-C taxonomy.
type MissKind int

// Miss kinds. KindNone is used for hits.
const (
	KindNone MissKind = iota
	Compulsory
	Conflict
	Capacity
)

func (k MissKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case Compulsory:
		return "compulsory"
	case Conflict:
		return "conflict"
	case Capacity:
		return "capacity"
	}

	return "unknown"
}

// Outcome is the result of a single access.
type Outcome struct {
	Address uint64
	SetID   int
	Tag     uint64
	WayID   int

	Hit  bool
	Kind MissKind

	// Evicted is set when a valid line was replaced.
	Evicted    bool
	EvictedTag uint64
}

// Label returns "hit" for hits and the miss kind otherwise.
func (o Outcome) Label() string {
	if o.Hit {
		return "hit"
	}

	return o.Kind.String()
}

// Model is a set-associative cache that only tracks tag presence.
type Model struct {
	config       Config
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder

	// clock ticks once per access and orders both loads and uses.
	clock uint64
}

// Config returns the configuration of the model.
func (m *Model) Config() Config {
	return m.config
}

// NumValid returns how many lines currently hold a block.
func (m *Model) NumValid() int {
	return m.tags.NumValid()
}

// NumLines returns the total number of lines.
func (m *Model) NumLines() int {
	return m.tags.Capacity()
}

// Reset invalidates every line.
func (m *Model) Reset() {
	m.tags.Reset()
	m.clock = 0
}

// Access looks up addr, installs its block on a miss and reports what
// happened.
func (m *Model) Access(addr uint64) Outcome {
	m.clock++

	loc := m.tags.Decompose(addr)
	outcome := Outcome{
		Address: addr,
		SetID:   loc.SetID,
		Tag:     loc.Tag,
	}

	block, hit := m.tags.Lookup(loc.SetID, loc.Tag)
	if hit {
		m.tags.Visit(block, m.clock)

		outcome.Hit = true
		outcome.WayID = block.WayID

		return outcome
	}

	block, hasEmpty := m.tags.EmptyBlock(loc.SetID)
	if hasEmpty {
		outcome.Kind = Compulsory
	} else {
		block = m.victimFinder.FindVictim(m.tags.GetSet(loc.SetID))
		outcome.Evicted = true
		outcome.EvictedTag = block.Tag

		if m.tags.IsFull() {
			outcome.Kind = Capacity
		} else {
			outcome.Kind = Conflict
		}
	}

	block = m.tags.Fill(block, loc.Tag, m.clock)
	outcome.WayID = block.WayID

	return outcome
}
