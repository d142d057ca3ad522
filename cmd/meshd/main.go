// Command meshd runs a single long-lived virtual-Ethernet overlay node:
// it loads configuration, opens the node's log sink, and blocks in the
// service loop until an OS signal or an unrecoverable fault brings it
// down.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/meshnet-io/meshd/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to meshd.conf (JSON overlay on defaults; missing file is not an error)")
	metricsAddr := flag.String("metrics-addr", "", "loopback address to serve /metrics on, e.g. 127.0.0.1:9995 (overrides config, empty disables it)")
	flag.Parse()

	bootstrap, err := app.New(app.Options{
		ConfigPath:  *configPath,
		MetricsAddr: *metricsAddr,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "meshd:", err)
		os.Exit(1)
	}

	if err := bootstrap.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "meshd: exited with error:", err)
		os.Exit(1)
	}
}
