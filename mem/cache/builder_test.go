package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
)

var _ = Describe("Builder", func() {
	It("should build a model with the given geometry", func() {
		m, err := MakeBuilder().
			WithNumSets(8).
			WithBlockSize(32).
			WithAssociativity(2).
			WithPolicy(FIFO).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.NumLines()).To(Equal(16))
		Expect(m.NumValid()).To(Equal(0))
		Expect(m.Config().ByteSize()).To(Equal(uint64(512)))
		Expect(m.victimFinder).To(BeAssignableToTypeOf(&tagging.FIFOVictimFinder{}))
	})

	It("should pick the victim finder from the policy", func() {
		m, err := MakeBuilder().WithPolicy(Random).WithSeed(3).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(m.victimFinder).To(BeAssignableToTypeOf(&tagging.RandomVictimFinder{}))

		m, err = MakeBuilder().WithPolicy(LRU).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(m.victimFinder).To(BeAssignableToTypeOf(&tagging.LRUVictimFinder{}))
	})

	It("should copy a config", func() {
		c := Config{NumSets: 2, BlockSize: 4, Associativity: 8, Policy: LRU, Seed: 9}

		Expect(MakeBuilder().WithConfig(c).Config()).To(Equal(c))
	})

	DescribeTable("should reject non-positive dimensions",
		func(numSets, blockSize, assoc int) {
			m, err := MakeBuilder().
				WithNumSets(numSets).
				WithBlockSize(blockSize).
				WithAssociativity(assoc).
				Build()

			Expect(m).To(BeNil())
			Expect(err).To(MatchError(ErrInvalidGeometry))
		},
		Entry("zero sets", 0, 4, 1),
		Entry("negative sets", -1, 4, 1),
		Entry("zero block size", 1, 0, 1),
		Entry("zero associativity", 1, 4, 0),
	)

	It("should reject an unknown policy", func() {
		_, err := MakeBuilder().WithPolicy(Policy(42)).Build()

		Expect(err).To(MatchError(ErrUnknownPolicy))
	})
})

var _ = Describe("ParsePolicy", func() {
	DescribeTable("should parse codes",
		func(code string, expected Policy) {
			p, err := ParsePolicy(code)

			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(expected))
		},
		Entry("R", "R", Random),
		Entry("F", "F", FIFO),
		Entry("L", "L", LRU),
		Entry("lower case", "l", LRU),
		Entry("only the first letter counts", "Random", Random),
	)

	It("should reject unknown codes", func() {
		_, err := ParsePolicy("X")
		Expect(err).To(MatchError(ErrUnknownPolicy))

		_, err = ParsePolicy("")
		Expect(err).To(MatchError(ErrUnknownPolicy))
	})

	It("should round trip codes", func() {
		for _, p := range []Policy{Random, FIFO, LRU} {
			parsed, err := ParsePolicy(p.Code())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(p))
		}
	})
})
