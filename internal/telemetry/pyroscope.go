package telemetry

import (
	"fmt"

	"github.com/grafana/pyroscope-go"
	log "github.com/sirupsen/logrus"
)

// InitPyroscope starts continuous profiling. It is a no-op returning a nil func if the server
// url is empty.
func InitPyroscope(serverURL string) (func() error, error) {
	if serverURL == "" {
		return nil, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: nftbridged,
		ServerAddress:   serverURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start pyroscope profiler: %s", err)
	}

	log.WithField("server", serverURL).Info("pyroscope profiler started")
	return profiler.Stop, nil
}
