package segcache

import (
	"log/slog"
	"os"

	"github.com/hupe1980/segcache/internal/format"
	"github.com/hupe1980/segcache/internal/fs"
	"github.com/hupe1980/segcache/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
	fill             format.Fill
	fileMode         os.FileMode
	fsys             fs.FileSystem
}

// Option configures how a Matrix is opened.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &segcache.BasicMetricsCollector{}
//	m, _ := segcache.Create("grid.seg", g, segcache.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("hit ratio: %.2f\n", stats.HitRatio)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := segcache.NewJSONLogger(slog.LevelInfo)
//	m, _ := segcache.Open("grid.seg", g, segcache.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

// WithResourceController accounts slot buffers and page transfers against rc.
// Opening fails with ErrOutOfMemory when the slot buffers do not fit the
// controller's memory limit. Several matrices may share one controller.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithZeroFill makes create write every segment as zeros instead of
// sizing the file sparsely.
func WithZeroFill() Option {
	return func(o *options) {
		o.fill = format.FillZero
	}
}

// WithPreallocate makes create reserve disk blocks for the whole file where
// the platform supports it.
func WithPreallocate() Option {
	return func(o *options) {
		o.fill = format.FillPreallocate
	}
}

// WithFileMode sets the permission bits used when Create makes a new file.
// The default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// withFileSystem swaps the file system used by Create, Open and CreateTemp.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fill:             format.FillSparse,
		fileMode:         0644,
		fsys:             fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
