package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sysmonbar/internal/system"
)

// DefaultPollInterval is the consumer tick.
const DefaultPollInterval = 50 * time.Millisecond

// Presenter receives every snapshot the consumer takes.
type Presenter interface {
	Apply(snapshot system.SystemMetrics)
}

// IconSetter is implemented by presenters that show the icon artifact.
type IconSetter interface {
	SetIcon(path string)
}

// IconCache maps a snapshot to the path of its icon artifact.
type IconCache interface {
	GetIconPath(snapshot system.SystemMetrics) (string, error)
}

// Consumer is the UI-side half of the pipeline. All of its work, including
// calls into the icon cache and presenters, happens on the goroutine that
// runs Run.
type Consumer struct {
	rx         *Receiver
	cache      IconCache
	presenters []Presenter
	interval   time.Duration
	logger     *zap.Logger
	lastIcon   string
}

// ConsumerOption configures a Consumer
type ConsumerOption func(*Consumer)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithConsumerLogger sets the consumer logger.
func WithConsumerLogger(logger *zap.Logger) ConsumerOption {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConsumer returns a Consumer draining rx. cache may be nil when no icon
// is rendered.
func NewConsumer(rx *Receiver, cache IconCache, presenters []Presenter, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		rx:         rx,
		cache:      cache,
		presenters: presenters,
		interval:   DefaultPollInterval,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls the receiver every tick until ctx is done, then closes the
// receiver so the sampling loop stops.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.rx.Close()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Tick()
		case <-ctx.Done():
			return nil
		}
	}
}

// Tick takes at most one snapshot and pushes it to the icon cache and the
// presenters. It reports whether a snapshot was consumed.
func (c *Consumer) Tick() bool {
	snapshot, ok := c.rx.TryTake()
	if !ok {
		return false
	}

	if c.cache != nil {
		path, err := c.cache.GetIconPath(snapshot)
		if err != nil {
			// The previous icon stays in place.
			c.logger.Warn("failed to refresh tray icon", zap.Error(err))
		} else if path != c.lastIcon {
			c.lastIcon = path
			for _, p := range c.presenters {
				if s, ok := p.(IconSetter); ok {
					s.SetIcon(path)
				}
			}
		}
	}

	for _, p := range c.presenters {
		p.Apply(snapshot)
	}
	return true
}
