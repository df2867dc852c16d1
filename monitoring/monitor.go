// Package monitoring serves the live state of a trace run over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/trace"
)

// Snapshot is the state of the run published to clients.
type Snapshot struct {
	Config   cache.Config
	Stats    cache.Statistics
	NumValid int
	Finished bool
}

// Monitor turns a trace run into a server that can be inspected while it
// progresses.
type Monitor struct {
	portNumber      int
	updateInterval  uint64
	profileDuration time.Duration

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	snapshotLock sync.Mutex
	snapshot     Snapshot
	model        *cache.Model
	bar          *ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		updateInterval:  1024,
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithUpdateInterval sets after how many accesses the snapshot is refreshed.
func (m *Monitor) WithUpdateInterval(n uint64) *Monitor {
	if n == 0 {
		n = 1
	}

	m.updateInterval = n

	return m
}

// RegisterModel registers the cache whose run is monitored. total is the
// number of records in the trace, or 0 when unknown.
func (m *Monitor) RegisterModel(model *cache.Model, total uint64) {
	m.snapshotLock.Lock()
	m.model = model
	m.snapshot = Snapshot{Config: model.Config()}
	m.snapshotLock.Unlock()

	m.bar = m.CreateProgressBar("Trace", total)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Snapshot returns the latest published state.
func (m *Monitor) Snapshot() Snapshot {
	m.snapshotLock.Lock()
	defer m.snapshotLock.Unlock()

	return m.snapshot
}

// Func updates the published state from the trace runner.
func (m *Monitor) Func(ctx trace.HookCtx) {
	switch ctx.Pos {
	case trace.HookPosAccess:
		if (ctx.Seq+1)%m.updateInterval != 0 {
			return
		}

		m.publish(ctx.Stats, false)
	case trace.HookPosRunEnd:
		m.publish(ctx.Stats, true)
	}
}

func (m *Monitor) publish(stats cache.Statistics, finished bool) {
	m.snapshotLock.Lock()
	m.snapshot.Stats = stats
	m.snapshot.Finished = finished
	if m.model != nil {
		m.snapshot.NumValid = m.model.NumValid()
	}
	m.snapshotLock.Unlock()

	if m.bar == nil {
		return
	}

	m.bar.SetFinished(stats.TotalAccesses)
	if finished {
		m.bar.Complete()
	}
}

// Handler returns the HTTP API of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", m.serveStats).Methods(http.MethodGet)
	r.HandleFunc("/api/rates", m.serveRates).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring trace run with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Monitoring server stopped: %v\n", err)
		}
	}()

	return url, nil
}

// StopServer shuts the web server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	for _, b := range m.progressBars {
		b.Lock()
	}

	bytes, err := json.Marshal(m.progressBars)

	for _, b := range m.progressBars {
		b.Unlock()
	}

	writeJSON(w, bytes, err)
}

func (m *Monitor) serveStats(w http.ResponseWriter, _ *http.Request) {
	snapshot := m.Snapshot()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type ratesRsp struct {
	TotalAccesses  uint64  `json:"total_accesses"`
	HitRate        float64 `json:"hit_rate"`
	MissRate       float64 `json:"miss_rate"`
	CompulsoryRate float64 `json:"compulsory_rate"`
	CapacityRate   float64 `json:"capacity_rate"`
	ConflictRate   float64 `json:"conflict_rate"`
	Occupancy      float64 `json:"occupancy"`
	Finished       bool    `json:"finished"`
}

func (m *Monitor) serveRates(w http.ResponseWriter, _ *http.Request) {
	snapshot := m.Snapshot()
	stats := snapshot.Stats

	rsp := ratesRsp{
		TotalAccesses:  stats.TotalAccesses,
		HitRate:        stats.HitRate(),
		MissRate:       stats.MissRate(),
		CompulsoryRate: stats.CompulsoryRate(),
		CapacityRate:   stats.CapacityRate(),
		ConflictRate:   stats.ConflictRate(),
		Finished:       snapshot.Finished,
	}

	if lines := snapshot.Config.NumLines(); lines > 0 {
		rsp.Occupancy = float64(snapshot.NumValid) / float64(lines)
	}

	bytes, err := json.Marshal(rsp)
	writeJSON(w, bytes, err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()

	process, err := process.NewProcess(int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	writeJSON(w, bytes, err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bytes, err := json.Marshal(prof)
	writeJSON(w, bytes, err)
}

func writeJSON(w http.ResponseWriter, body []byte, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
