// Package monitoring serves the state of running entities over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/filterkit/sim"
)

// Monitor turns a batch of entities into a server that external tools can
// inspect while the entities run.
type Monitor struct {
	portNumber  int
	openBrowser bool

	entitiesLock sync.Mutex
	entities     []sim.Entity

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
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

// WithBrowser makes StartServer open the monitor in the default browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterEntity registers an entity to be monitored.
func (m *Monitor) RegisterEntity(e sim.Entity) {
	m.entitiesLock.Lock()
	defer m.entitiesLock.Unlock()

	m.entities = append(m.entities, e)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
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

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_entities", m.listEntities)
	r.HandleFunc("/api/entity/{name}", m.listEntityDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/io/{name}/{port}", m.listIO)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	r := m.router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring filters with %s\n", url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	if m.openBrowser {
		err = browser.OpenURL(url + "/api/progress")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url
}

func (m *Monitor) listEntities(w http.ResponseWriter, _ *http.Request) {
	m.entitiesLock.Lock()
	names := make([]string, 0, len(m.entities))
	for _, e := range m.entities {
		names = append(names, e.Name())
	}
	m.entitiesLock.Unlock()

	bytes, err := json.Marshal(names)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listEntityDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	entity := m.findEntityOr404(w, name)
	if entity == nil {
		return
	}

	entity.Lock()
	defer entity.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(entity)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	EntityName string `json:"entity_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	entity := m.findEntityOr404(w, req.EntityName)
	if entity == nil {
		return
	}

	entity.Lock()
	defer entity.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(entity)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type ioRsp struct {
	Entity string         `json:"entity"`
	Port   string         `json:"port"`
	Rows   [][][2]float64 `json:"rows"`
}

// listIO writes the data of one port. Complex values are sent as
// [real, imag] pairs.
func (m *Monitor) listIO(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entity := m.findEntityOr404(w, vars["name"])
	if entity == nil {
		return
	}

	io, found := entity.IOS().Snapshot(vars["port"])
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Port not found"))
		dieOnErr(err)

		return
	}

	rsp := ioRsp{
		Entity: entity.Name(),
		Port:   vars["port"],
		Rows:   make([][][2]float64, len(io.Data)),
	}

	for i, row := range io.Data {
		rsp.Rows[i] = make([][2]float64, len(row))
		for j, v := range row {
			rsp.Rows[i][j] = [2]float64{real(v), imag(v)}
		}
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findEntityOr404(
	w http.ResponseWriter,
	name string,
) sim.Entity {
	m.entitiesLock.Lock()
	defer m.entitiesLock.Unlock()

	for _, e := range m.entities {
		if e.Name() == name {
			return e
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Entity not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(bars)
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
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
