package report_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/report"
)

var _ = Describe("Report", func() {
	var (
		buf   *bytes.Buffer
		stats cache.Statistics
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		stats = cache.Statistics{
			TotalAccesses: 8,
			Hits:          2,
			Misses:        6,
			Compulsory:    3,
			Conflict:      1,
			Capacity:      2,
		}
	})

	It("should print compact output with capacity before conflict", func() {
		Expect(report.WriteCompact(buf, stats)).To(Succeed())

		Expect(buf.String()).To(Equal("8, 0.25, 0.75, 0.50, 0.33, 0.17\n"))
	})

	It("should print verbose output", func() {
		Expect(report.WriteVerbose(buf, stats)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"Total accesses: 8\n" +
				"Hit rate: 25.00%\n" +
				"Miss rate: 75.00%\n" +
				"Compulsory misses: 50.00%\n" +
				"Capacity misses: 33.33%\n" +
				"Conflict misses: 16.67%\n"))
	})

	It("should print zeros for an empty trace", func() {
		Expect(report.Write(buf, report.Compact, cache.Statistics{})).To(Succeed())

		Expect(buf.String()).To(Equal("0, 0.00, 0.00, 0.00, 0.00, 0.00\n"))
	})

	It("should echo the parameters", func() {
		config := cache.Config{NumSets: 1, BlockSize: 4, Associativity: 2, Policy: cache.FIFO}

		Expect(report.WriteParameters(buf, config, "a.bin")).To(Succeed())

		Expect(buf.String()).To(Equal(
			"nsets = 1\nbsize = 4\nassoc = 2\nsubst = F\nfile = a.bin\n"))
	})

	DescribeTable("should parse the output flag",
		func(flag string, expected report.Format) {
			f, err := report.ParseFormat(flag)

			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(expected))
		},
		Entry("verbose", "0", report.Verbose),
		Entry("compact", "1", report.Compact),
	)

	It("should reject other output flags", func() {
		_, err := report.ParseFormat("2")
		Expect(err).To(MatchError(report.ErrUnknownFormat))

		Expect(report.Write(buf, report.Format(9), stats)).
			To(MatchError(report.ErrUnknownFormat))
	})
})
