package poll

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/nimbus/internal/logging"
	"github.com/five82/nimbus/internal/metrics"
)

// DefaultPeriod is the refresh cadence used when Options.Period is zero.
const DefaultPeriod = 5 * time.Minute

// Options configure a synchronizer. The zero value is usable.
type Options struct {
	// Name labels log lines and metrics.
	Name   string
	Period time.Duration
	Logger *logrus.Entry
	// Metrics may be nil.
	Metrics *metrics.Recorder
	// MaxConcurrency bounds in-flight requests per fan-out round; zero means
	// one request per key.
	MaxConcurrency int
	// Now is the clock for LastUpdated; nil uses time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "sync"
	}
	if o.Period <= 0 {
		o.Period = DefaultPeriod
	}
	if o.Logger == nil {
		o.Logger = logging.WithComponent("poll")
	}
	o.Logger = o.Logger.WithField("synchronizer", o.Name)
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
