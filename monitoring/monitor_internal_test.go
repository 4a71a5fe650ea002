package monitoring

import (
	"net/http/httptest"

	"github.com/gorilla/mux"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachecore/topology"
)

type fakeComponent struct {
	name  string
	state string
}

func (c *fakeComponent) Name() string { return c.name }

func (c *fakeComponent) Tick() bool { return false }

func (c *fakeComponent) DumpDeadlock() string { return c.state }

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		driver *topology.Driver
		comp   *fakeComponent
	)

	BeforeEach(func() {
		driver = topology.NewDriver()
		comp = &fakeComponent{name: "L1", state: "RQ=0/16"}

		m = NewMonitor()
		m.RegisterDriver(driver)
		m.RegisterComponent(comp)
	})

	It("should register a driver and components", func() {
		Expect(m.driver).To(Equal(driver))
		Expect(m.components).To(HaveLen(1))
	})

	It("should reject a low port number in favor of a random one", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))
	})

	It("should report the current cycle", func() {
		driver.Register(comp)
		driver.Tick()
		driver.Tick()

		rec := httptest.NewRecorder()
		m.cycle(rec, httptest.NewRequest("GET", "/api/cycle", nil))

		Expect(rec.Body.String()).To(Equal(`{"cycle":2}`))
	})

	It("should list registered component names", func() {
		rec := httptest.NewRecorder()
		m.listComponents(rec, httptest.NewRequest("GET", "/api/list_components", nil))

		Expect(rec.Body.String()).To(Equal(`["L1"]`))
	})

	It("should dump deadlock state for components implementing DeadlockDumper", func() {
		rec := httptest.NewRecorder()
		m.deadlockDump(rec, httptest.NewRequest("GET", "/api/deadlock", nil))

		Expect(rec.Body.String()).To(ContainSubstring(`"component":"L1"`))
		Expect(rec.Body.String()).To(ContainSubstring(`"state":"RQ=0/16"`))
	})

	It("should 404 when a named component does not exist", func() {
		router := mux.NewRouter()
		router.HandleFunc("/api/component/{name}", m.componentDetails)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/component/unknown", nil))

		Expect(rec.Code).To(Equal(404))
	})
})
