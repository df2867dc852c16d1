package tagging

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fullSet(loadOrders, lastAccesses []uint64) *Set {
	set := &Set{}
	for i := range loadOrders {
		set.Blocks = append(set.Blocks, Block{
			Tag:        uint64(100 + i),
			WayID:      i,
			IsValid:    true,
			LoadOrder:  loadOrders[i],
			LastAccess: lastAccesses[i],
		})
	}

	return set
}

var _ = Describe("FIFOVictimFinder", func() {
	var finder *FIFOVictimFinder

	BeforeEach(func() {
		finder = NewFIFOVictimFinder()
	})

	It("should evict the earliest loaded block", func() {
		set := fullSet([]uint64{4, 2, 7, 3}, []uint64{4, 20, 7, 3})

		Expect(finder.FindVictim(set).WayID).To(Equal(1))
	})

	It("should ignore recency", func() {
		set := fullSet([]uint64{1, 2}, []uint64{50, 2})

		Expect(finder.FindVictim(set).WayID).To(Equal(0))
	})
})

var _ = Describe("LRUVictimFinder", func() {
	var finder *LRUVictimFinder

	BeforeEach(func() {
		finder = NewLRUVictimFinder()
	})

	It("should evict the least recently used block", func() {
		set := fullSet([]uint64{1, 2, 3, 4}, []uint64{9, 2, 8, 6})

		Expect(finder.FindVictim(set).WayID).To(Equal(1))
	})

	It("should pick the lowest way on ties", func() {
		set := fullSet([]uint64{1, 2, 3}, []uint64{5, 5, 5})

		Expect(finder.FindVictim(set).WayID).To(Equal(0))
	})
})

var _ = Describe("RandomVictimFinder", func() {
	It("should always return a way within the set", func() {
		finder := NewRandomVictimFinder(rand.New(rand.NewPCG(1, 2)))
		set := fullSet(make([]uint64, 4), make([]uint64, 4))
		seen := map[int]bool{}

		for i := 0; i < 1000; i++ {
			way := finder.FindVictim(set).WayID
			Expect(way).To(BeNumerically(">=", 0))
			Expect(way).To(BeNumerically("<", 4))
			seen[way] = true
		}

		Expect(seen).To(HaveLen(4))
	})

	It("should be reproducible with the same seed", func() {
		set := fullSet(make([]uint64, 8), make([]uint64, 8))
		a := NewRandomVictimFinder(rand.New(rand.NewPCG(7, 7)))
		b := NewRandomVictimFinder(rand.New(rand.NewPCG(7, 7)))

		for i := 0; i < 100; i++ {
			Expect(a.FindVictim(set).WayID).To(Equal(b.FindVictim(set).WayID))
		}
	})
})
