package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"sysmonbar/internal/system"
)

// Sampler produces one snapshot per call.
type Sampler interface {
	Sample(ctx context.Context) system.SystemMetrics
}

// Loop samples on a fixed period and pushes every snapshot into a Sender.
type Loop struct {
	sampler Sampler
	period  time.Duration
	logger  *zap.Logger
}

// NewLoop returns a Loop. A nil logger discards output.
func NewLoop(sampler Sampler, period time.Duration, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{sampler: sampler, period: period, logger: logger}
}

// Run samples, sends and sleeps the rest of the period until the consumer
// goes away. It returns within one period of the Receiver closing. The
// sampling context is cancelled on close, so an in-flight sample stops
// reading the source.
func (l *Loop) Run(tx *Sender) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-tx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	var cycles uint64
	for {
		select {
		case <-tx.Done():
			l.logger.Info("sampling loop stopped", zap.Uint64("cycles", cycles))
			return
		default:
		}

		start := time.Now()
		snapshot := l.sampler.Sample(ctx)
		if ctx.Err() != nil {
			l.logger.Info("sampling loop stopped", zap.Uint64("cycles", cycles))
			return
		}
		if err := tx.Send(snapshot); err != nil {
			if !errors.Is(err, ErrConsumerGone) {
				l.logger.Error("failed to hand off snapshot", zap.Error(err))
			}
			l.logger.Info("sampling loop stopped", zap.Uint64("cycles", cycles))
			return
		}
		cycles++

		remaining := l.period - time.Since(start)
		if remaining <= 0 {
			l.logger.Debug("sampling cycle overran period", zap.Duration("elapsed", time.Since(start)))
			continue
		}
		timer := time.NewTimer(remaining)
		select {
		case <-timer.C:
		case <-tx.Done():
			timer.Stop()
		}
	}
}

// Start runs the loop on its own goroutine. The returned channel is closed
// when Run returns.
func (l *Loop) Start(tx *Sender) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Run(tx)
	}()
	return done
}
