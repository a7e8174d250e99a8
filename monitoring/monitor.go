// Package monitoring turns a running harness into a small web server, so
// the engine can be paused and the channel margins watched from outside.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/muxbench/capacity"
	"github.com/sarchlab/muxbench/scenario"
	"github.com/sarchlab/muxbench/sim"
)

// Monitor exposes a running scenario over HTTP. It can pause and continue
// the engine and report the per-channel margins, the scenario phase, and
// the resource usage of the process.
type Monitor struct {
	engine     sim.Engine
	scenario   *scenario.Scenario
	portNumber int

	channelNames   []string
	channelOracles []capacity.Oracle

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that drives the harness.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterScenario registers the scenario whose phase is reported.
func (m *Monitor) RegisterScenario(s *scenario.Scenario) {
	m.scenario = s
}

// RegisterChannel registers one consumer channel to be watched.
func (m *Monitor) RegisterChannel(name string, oracle capacity.Oracle) {
	m.channelNames = append(m.channelNames, name)
	m.channelOracles = append(m.channelOracles, oracle)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:    sim.GetIDGenerator().Generate(),
		Name:  name,
		Total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the report.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/scenario", m.reportScenario)
	r.HandleFunc("/api/margins", m.reportMargins)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)

	return r
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	http.Handle("/", m.router())

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(
		os.Stderr,
		"Monitoring harness with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

type scenarioRsp struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	State  string `json:"state"`
	Cycles uint64 `json:"cycles"`
}

func (m *Monitor) reportScenario(w http.ResponseWriter, _ *http.Request) {
	if m.scenario == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No scenario registered"))
		dieOnErr(err)

		return
	}

	rsp := scenarioRsp{
		Name:   m.scenario.Name(),
		Kind:   m.scenario.Config().Kind.String(),
		State:  m.scenario.State().String(),
		Cycles: m.scenario.Cycles(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type marginRsp struct {
	Channel string `json:"channel"`
	Margin  int    `json:"margin"`
	Full    int    `json:"full_threshold"`
	Drained int    `json:"drained_threshold"`
}

func (m *Monitor) reportMargins(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]marginRsp, 0, len(m.channelOracles))
	for i, o := range m.channelOracles {
		rsp = append(rsp, marginRsp{
			Channel: m.channelNames[i],
			Margin:  o.Margin(),
			Full:    o.FullThreshold(),
			Drained: o.DrainedThreshold(),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
