// ABOUTME: Version and product constants
// ABOUTME: Build metadata is shared with the prometheus build_info collector
package version

import (
	"github.com/prometheus/client_golang/prometheus"
	promversion "github.com/prometheus/common/version"
)

const (
	Product      = "netradio"
	Manufacturer = "netradio-go"
)

// Version is set via build flag -ldflags -X
var (
	Version  = "0.1.0"
	Branch   string
	Revision string
)

func init() {
	promversion.Version = Version
	promversion.Branch = Branch
	promversion.Revision = Revision
}

// Collector exports build info as netradio_build_info
func Collector() prometheus.Collector {
	return promversion.NewCollector(Product)
}

// Print returns the multi-line version report
func Print() string {
	return promversion.Print(Product)
}

// UserAgent is the HTTP User-Agent sent to stream servers
func UserAgent() string {
	return Product + "/" + Version
}
