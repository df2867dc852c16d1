package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/trace"
)

type addrSlice []uint32

func (s *addrSlice) Next() (uint32, bool, error) {
	if len(*s) == 0 {
		return 0, false, nil
	}

	addr := (*s)[0]
	*s = (*s)[1:]

	return addr, true, nil
}

var _ = Describe("Monitor", func() {
	var (
		m     *Monitor
		model *cache.Model
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Handler().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		var err error
		model, err = cache.MakeBuilder().
			WithNumSets(2).
			WithBlockSize(4).
			WithAssociativity(1).
			Build()
		Expect(err).NotTo(HaveOccurred())

		m = NewMonitor().WithUpdateInterval(2)
		m.RegisterModel(model, 4)
	})

	It("should ignore reserved port numbers", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(Equal(0))
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should create and complete progress bars", func() {
		bar := m.CreateProgressBar("Other", 10)
		Expect(m.progressBars).To(HaveLen(2))

		m.CompleteProgressBar(bar)
		Expect(m.progressBars).To(HaveLen(1))
		Expect(m.progressBars[0].Name).To(Equal("Trace"))
	})

	It("should publish snapshots while a trace runs", func() {
		source := addrSlice{0, 4, 8, 0}
		runner := trace.NewRunner(model, &source)
		runner.AcceptHook(m)

		stats, err := runner.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		snapshot := m.Snapshot()
		Expect(snapshot.Finished).To(BeTrue())
		Expect(snapshot.Stats).To(Equal(stats))
		Expect(snapshot.NumValid).To(Equal(2))
		Expect(snapshot.Config.NumSets).To(Equal(2))
		Expect(m.bar.Fraction()).To(Equal(1.0))
	})

	It("should only refresh every update interval", func() {
		m.Func(trace.HookCtx{
			Pos:   trace.HookPosAccess,
			Seq:   0,
			Stats: cache.Statistics{TotalAccesses: 1},
		})
		Expect(m.Snapshot().Stats.TotalAccesses).To(BeZero())

		m.Func(trace.HookCtx{
			Pos:   trace.HookPosAccess,
			Seq:   1,
			Stats: cache.Statistics{TotalAccesses: 2},
		})
		Expect(m.Snapshot().Stats.TotalAccesses).To(Equal(uint64(2)))
		Expect(m.bar.Fraction()).To(Equal(0.5))
	})

	It("should serve progress bars", func() {
		rec := get("/api/progress")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Trace"))
		Expect(bars[0]["total"]).To(Equal(4.0))
	})

	It("should serve rates", func() {
		m.Func(trace.HookCtx{
			Pos: trace.HookPosRunEnd,
			Stats: cache.Statistics{
				TotalAccesses: 4,
				Hits:          1,
				Misses:        3,
				Compulsory:    2,
				Capacity:      1,
			},
		})

		rec := get("/api/rates")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp ratesRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.TotalAccesses).To(Equal(uint64(4)))
		Expect(rsp.HitRate).To(BeNumerically("~", 0.25))
		Expect(rsp.CapacityRate).To(BeNumerically("~", 1.0/3))
		Expect(rsp.Finished).To(BeTrue())
	})

	It("should serve the statistics snapshot", func() {
		rec := get("/api/stats")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should serve process resources", func() {
		rec := get("/api/resource")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should reject other methods", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/progress", nil)
		m.Handler().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("should start and stop a server", func() {
		url, err := m.StartServer()
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(HavePrefix("http://localhost:"))

		rsp, err := http.Get(url + "/api/progress")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		Expect(m.StopServer(context.Background())).To(Succeed())
	})
})
