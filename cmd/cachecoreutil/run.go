package cachecoreutil

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachecore/cache"
	"github.com/sarchlab/cachecore/config"
	"github.com/sarchlab/cachecore/mem"
)

var (
	envFile    string
	cycleLimit uint64
	accesses   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo hierarchy driven by a synthetic access stream.",
	RunE:  runDemo,
}

func init() {
	runCmd.Flags().StringVar(&envFile, "env", "", "path to a .env file overriding hierarchy parameters")
	runCmd.Flags().Uint64Var(&cycleLimit, "cycles", 100000, "maximum number of cycles to run")
	runCmd.Flags().IntVar(&accesses, "accesses", 1000, "number of synthetic loads to issue")
	rootCmd.AddCommand(runCmd)
}

type cpu struct {
	name string
}

func (c *cpu) Name() string { return c.name }

func (c *cpu) ReturnData(_ *mem.Packet) {}

func runDemo(_ *cobra.Command, _ []string) error {
	hierarchy, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("loading hierarchy config: %w", err)
	}

	driver, levels, _ := buildHierarchy(hierarchy)
	l1 := levels[0]

	requester := &cpu{name: "CPU0"}
	rnd := rand.New(rand.NewSource(1))

	pending := accesses
	deadlockCycles := uint64(0)

	for driver.Cycle() < cycleLimit && (pending > 0 || deadlockCycles < 1000) {
		if pending > 0 {
			addr := uint64(rnd.Intn(1<<16)) * 64
			code := l1.AddRQ(&mem.Packet{
				Type:     mem.TypeLoad,
				Address:  addr,
				ToReturn: []mem.Requester{requester},
			})

			if code != cache.AdmitFull {
				pending--
			}
		}

		progress := driver.Tick()
		if !progress {
			deadlockCycles++
		} else {
			deadlockCycles = 0
		}
	}

	printStats(levels)

	return nil
}
