package trace

import (
	"log"

	"github.com/rs/xid"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
)

const (
	// RunTable holds one summary row per recorded run.
	RunTable = "cache_runs"

	// AccessTable holds one row per access when access recording is on.
	AccessTable = "cache_accesses"
)

// RunEntry is the summary of one run in the database.
type RunEntry struct {
	RunID         string
	TraceFile     string
	NumSets       int
	BlockSize     int
	Associativity int
	Policy        string
	Seed          int64
	TotalAccesses uint64
	Hits          uint64
	Misses        uint64
	Compulsory    uint64
	Conflict      uint64
	Capacity      uint64
}

// Stats converts the entry back into statistics.
func (e RunEntry) Stats() cache.Statistics {
	return cache.Statistics{
		TotalAccesses: e.TotalAccesses,
		Hits:          e.Hits,
		Misses:        e.Misses,
		Compulsory:    e.Compulsory,
		Conflict:      e.Conflict,
		Capacity:      e.Capacity,
	}
}

// AccessEntry is a single access in the database.
type AccessEntry struct {
	RunID      string
	Seq        uint64
	Address    uint64
	SetID      int
	Tag        uint64
	WayID      int
	Outcome    string
	Evicted    bool
	EvictedTag uint64
}

// A logTracer prints every access.
type logTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a hook that prints one line per access.
func NewLogTracer(logger *log.Logger) Hook {
	return &logTracer{logger: logger}
}

func (t *logTracer) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAccess {
		return
	}

	o := ctx.Outcome
	if o.Evicted {
		t.logger.Printf("%d, 0x%x, %d, 0x%x, %s, %d, evict 0x%x\n",
			ctx.Seq, o.Address, o.SetID, o.Tag, o.Label(), o.WayID, o.EvictedTag)
		return
	}

	t.logger.Printf("%d, 0x%x, %d, 0x%x, %s, %d\n",
		ctx.Seq, o.Address, o.SetID, o.Tag, o.Label(), o.WayID)
}

// DBRecorder is a hook that stores a run into a data recorder.
type DBRecorder struct {
	runID          string
	traceFile      string
	config         cache.Config
	dataRecorder   datarecording.DataRecorder
	recordAccesses bool
}

// NewDBRecorder creates a DBRecorder and the tables it writes to. When
// recordAccesses is set, every access is stored in addition to the summary.
func NewDBRecorder(
	dataRecorder datarecording.DataRecorder,
	config cache.Config,
	traceFile string,
	recordAccesses bool,
) *DBRecorder {
	r := &DBRecorder{
		runID:          xid.New().String(),
		traceFile:      traceFile,
		config:         config,
		dataRecorder:   dataRecorder,
		recordAccesses: recordAccesses,
	}

	r.dataRecorder.CreateTable(RunTable, RunEntry{})

	if recordAccesses {
		r.dataRecorder.CreateTable(AccessTable, AccessEntry{})
	}

	return r
}

// RunID returns the identifier stored with every row of the run.
func (r *DBRecorder) RunID() string {
	return r.runID
}

// Func records accesses and the final summary.
func (r *DBRecorder) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosAccess:
		if r.recordAccesses {
			r.recordAccess(ctx)
		}
	case HookPosRunEnd:
		r.recordRun(ctx.Stats)
	}
}

func (r *DBRecorder) recordAccess(ctx HookCtx) {
	o := ctx.Outcome

	r.dataRecorder.InsertData(AccessTable, AccessEntry{
		RunID:      r.runID,
		Seq:        ctx.Seq,
		Address:    o.Address,
		SetID:      o.SetID,
		Tag:        o.Tag,
		WayID:      o.WayID,
		Outcome:    o.Label(),
		Evicted:    o.Evicted,
		EvictedTag: o.EvictedTag,
	})
}

func (r *DBRecorder) recordRun(stats cache.Statistics) {
	r.dataRecorder.InsertData(RunTable, RunEntry{
		RunID:         r.runID,
		TraceFile:     r.traceFile,
		NumSets:       r.config.NumSets,
		BlockSize:     r.config.BlockSize,
		Associativity: r.config.Associativity,
		Policy:        r.config.Policy.Code(),
		Seed:          int64(r.config.Seed),
		TotalAccesses: stats.TotalAccesses,
		Hits:          stats.Hits,
		Misses:        stats.Misses,
		Compulsory:    stats.Compulsory,
		Conflict:      stats.Conflict,
		Capacity:      stats.Capacity,
	})

	r.dataRecorder.Flush()
}
