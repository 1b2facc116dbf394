package embdrift

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/embdrift/cache"
	"github.com/hupe1980/embdrift/distance"
	"github.com/hupe1980/embdrift/freqfilter"
)

// DefaultNeighborhoodSize is the neighborhood size used when none is
// configured.
const DefaultNeighborhoodSize = 25

// Mode controls how vocabulary drift is reported.
type Mode int

const (
	// ModeCommonOnly scores common keys and reports only the counts of
	// exclusive keys. Default.
	ModeCommonOnly Mode = iota

	// ModeFull additionally attaches the full listings of keys exclusive to
	// either space to the result's vocabulary stats.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeCommonOnly:
		return "common-only"
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCommonOnly || m == ModeFull
}

type options struct {
	k                int
	mode             Mode
	metric           distance.Metric
	workers          int
	filter           *freqfilter.Filter
	indexCache       *cache.IndexCache
	progress         func(done, total int)
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures a Comparator.
type Option func(*options)

// WithNeighborhoodSize sets the number of nearest neighbors examined per key.
// It must be positive; when a space is smaller the effective neighborhood
// clamps per key instead of failing.
func WithNeighborhoodSize(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithMode selects how vocabulary drift is reported.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithMetric selects the similarity metric, resolved once at construction.
func WithMetric(metric distance.Metric) Option {
	return func(o *options) {
		o.metric = metric
	}
}

// WithWorkers sets the number of parallel workers scoring key partitions.
// Non-positive values fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithFrequencyFilter restricts the comparison to keys passing the policy in
// BOTH spaces. Filtered-out keys receive no per-key score and do not
// contribute to aggregates, but still count in vocabulary stats.
func WithFrequencyFilter(f *freqfilter.Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithIndexCache reuses prebuilt neighbor indexes across comparisons.
// The cache is owned by the caller and may be shared between comparators.
func WithIndexCache(c *cache.IndexCache) Option {
	return func(o *options) {
		o.indexCache = c
	}
}

// WithProgress installs a callback reporting scored-key progress. Invocations
// are rate-limited; a final call with done == total is guaranteed. The
// callback must be safe for concurrent use.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultNeighborhoodSize,
		mode:             ModeCommonOnly,
		metric:           distance.MetricCosine,
		workers:          runtime.GOMAXPROCS(0),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
