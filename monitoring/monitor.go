// Package monitoring exposes a running cache hierarchy over HTTP for live
// inspection: component listing, field introspection, deadlock dumps, CPU
// profiling, and host resource usage.
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
	"time"

	// Enable pprof's default handlers on the DefaultServeMux.
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cachecore/topology"
)

// Monitor turns a hierarchy driven by a topology.Driver into an HTTP
// server that lets an operator inspect components and pull profiles
// without stopping the simulation.
type Monitor struct {
	driver     *topology.Driver
	components []topology.Component
	portNumber int
}

// NewMonitor creates a Monitor with no registered components.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the TCP port the monitor listens on. Ports below
// 1000 are rejected in favor of an OS-assigned port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"port number %d is not allowed for the monitoring server, "+
				"using a random port instead\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterDriver records the driver whose Tick loop is being monitored.
func (m *Monitor) RegisterDriver(d *topology.Driver) {
	m.driver = d
}

// RegisterComponent registers a component to be inspectable by name.
func (m *Monitor) RegisterComponent(c topology.Component) {
	m.components = append(m.components, c)
}

// StartServer starts the HTTP server in the background and returns once
// it is listening.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/cycle", m.cycle)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.componentDetails)
	r.HandleFunc("/api/deadlock", m.deadlockDump)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr, "monitoring at http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) cycle(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"cycle\":%d}", m.driver.Cycle())
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")

	for i, c := range m.components {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", c.Name())
	}

	fmt.Fprint(w, "]")
}

func (m *Monitor) componentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) deadlockDump(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, "[")

	for i, c := range m.components {
		dumper, ok := c.(topology.DeadlockDumper)
		if !ok {
			continue
		}

		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "{%q:%q,%q:%q}", "component", c.Name(), "state", dumper.DumpDeadlock())
	}

	fmt.Fprint(w, "]")
}

func (m *Monitor) findComponentOr404(w http.ResponseWriter, name string) topology.Component {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("component not found"))
	dieOnErr(err)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	}

	body, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(body)
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

	body, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(body)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
