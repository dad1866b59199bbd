package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"darksky-sensors/datasource"
	"darksky-sensors/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultScanInterval is the fixed delay between two scheduled refreshes
const DefaultScanInterval = 3 * time.Minute

// ErrUpdateFailed is returned by Refresh when the forecast could not be fetched
var ErrUpdateFailed = errors.New("forecast update failed")

// Coordinator owns the most recent forecast snapshot and refreshes it on a timer.
// Readers never block: Snapshot returns whatever was last stored.
type Coordinator struct {
	source   datasource.ForecastSource
	request  datasource.Request
	interval time.Duration
	logger   *logrus.Entry

	snapshot   atomic.Pointer[models.Forecast]
	lastUpdate atomic.Bool
	group      singleflight.Group

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
	failing   bool
}

// New creates a coordinator for a single location
func New(source datasource.ForecastSource, req datasource.Request, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		source:    source,
		request:   req,
		interval:  DefaultScanInterval,
		logger:    logger.WithField("component", "coordinator"),
		listeners: make(map[int]func()),
	}
}

// SetInterval changes the delay between scheduled refreshes
func (c *Coordinator) SetInterval(interval time.Duration) {
	c.interval = interval
}

// Snapshot returns the last successfully fetched forecast, or nil before the first success
func (c *Coordinator) Snapshot() *models.Forecast {
	return c.snapshot.Load()
}

// LastUpdateSuccess reports whether the most recent refresh succeeded
func (c *Coordinator) LastUpdateSuccess() bool {
	return c.lastUpdate.Load()
}

// Units returns the unit system the forecast was requested in
func (c *Coordinator) Units() models.Units {
	return c.request.Units
}

// Name returns the name of the underlying forecast source
func (c *Coordinator) Name() string {
	return c.source.Name()
}

// AddListener registers fn to be called after every refresh attempt.
// The returned function removes the registration.
func (c *Coordinator) AddListener(fn func()) (remove func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Refresh fetches a new forecast. Concurrent callers share a single in-flight
// fetch, which keeps running even if the caller's context is canceled.
func (c *Coordinator) Refresh(ctx context.Context) error {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("refresh", func() (any, error) {
		return nil, c.refresh(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) refresh(ctx context.Context) error {
	start := time.Now()
	forecast, err := c.source.GetForecast(ctx, c.request)
	if err != nil {
		c.lastUpdate.Store(false)
		c.logFailure(err)
		c.notify()
		return fmt.Errorf("%w: %s: %w", ErrUpdateFailed, c.source.Name(), err)
	}

	c.snapshot.Store(forecast)
	c.lastUpdate.Store(true)
	c.logRecovery()
	c.logger.WithFields(logrus.Fields{
		"source":   c.source.Name(),
		"alerts":   len(forecast.Alerts),
		"units":    forecast.Flags.Units,
		"duration": time.Since(start).String(),
	}).Debug("forecast updated")
	c.notify()
	return nil
}

// logFailure logs the first failure of an outage only
func (c *Coordinator) logFailure(err error) {
	c.mu.Lock()
	first := !c.failing
	c.failing = true
	c.mu.Unlock()

	if first {
		c.logger.WithError(err).WithField("source", c.source.Name()).Error("error fetching forecast data")
	}
}

func (c *Coordinator) logRecovery() {
	c.mu.Lock()
	recovered := c.failing
	c.failing = false
	c.mu.Unlock()

	if recovered {
		c.logger.WithField("source", c.source.Name()).Info("fetching forecast data recovered")
	}
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Start refreshes on every tick until ctx is canceled or the returned function
// is called. The first refresh is left to the caller.
func (c *Coordinator) Start(ctx context.Context) func() {
	loopCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// failures are already logged and reflected in LastUpdateSuccess
				_ = c.Refresh(loopCtx)
			case <-loopCtx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
