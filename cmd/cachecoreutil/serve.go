package cachecoreutil

import (
	"fmt"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachecore/config"
	"github.com/sarchlab/cachecore/monitoring"
)

var (
	servePort   int
	openBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a demo hierarchy forever while serving its monitoring endpoint.",
	RunE:  serveDemo,
}

func init() {
	serveCmd.Flags().StringVar(&envFile, "env", "", "path to a .env file overriding hierarchy parameters")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to serve monitoring on; 0 picks a random one")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "open the monitoring cycle endpoint in a browser")
	rootCmd.AddCommand(serveCmd)
}

func serveDemo(cmd *cobra.Command, _ []string) error {
	hierarchy, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("loading hierarchy config: %w", err)
	}

	driver, levels, backing := buildHierarchy(hierarchy)

	mon := monitoring.NewMonitor().WithPortNumber(servePort)
	mon.RegisterDriver(driver)
	mon.RegisterComponent(backing)

	for _, l := range levels {
		mon.RegisterComponent(l)
	}

	mon.StartServer()

	if openBrowser {
		if servePort < 1000 {
			cmd.PrintErrln("no fixed --port given; check stderr above for the assigned port")
		} else if err := browser.OpenURL(fmt.Sprintf("http://localhost:%d/api/cycle", servePort)); err != nil {
			cmd.PrintErrf("could not open browser: %v\n", err)
		}
	}

	for {
		driver.Tick()
		time.Sleep(time.Millisecond)
	}
}
