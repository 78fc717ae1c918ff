// Package scan owns the idle/active scan lifecycle. A single event loop
// goroutine serializes advertisement handling and periodic freshness sweeps,
// so each advertisement is processed to completion (match, registry update,
// inline classification) before the next queued event.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
	"github.com/lcalzada-xor/bmap/internal/core/ports"
	"github.com/lcalzada-xor/bmap/internal/core/services/match"
	"github.com/lcalzada-xor/bmap/internal/telemetry"
)

// State is the controller's lifecycle state.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
)

// Controller sequences the scan source, profile matcher and asset registry.
type Controller struct {
	source   ports.ScanSource
	registry ports.AssetRegistry
	matcher  *match.Matcher

	sweepEvery time.Duration
	log        zerolog.Logger
	tracer     trace.Tracer

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an idle controller.
func New(source ports.ScanSource, registry ports.AssetRegistry, matcher *match.Matcher, sweepEvery time.Duration, log zerolog.Logger) *Controller {
	return &Controller{
		source:     source,
		registry:   registry,
		matcher:    matcher,
		sweepEvery: sweepEvery,
		log:        log.With().Str("component", "scan").Logger(),
		tracer:     otel.Tracer("bmap/scan"),
		state:      StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start builds the filter set and asks the scan source to begin. Calling
// Start while active is a no-op: the source receives exactly one start
// request. A source rejection (capability missing, permission declined)
// is reported distinctly and leaves the controller idle; neither is fatal
// to the process.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateActive {
		c.log.Info().Msg("scan already active")
		return nil
	}

	filters := c.matcher.FilterSet()
	if filters.Empty() {
		return domain.ErrNoValidProfiles
	}

	if err := c.source.Start(ctx, filters); err != nil {
		switch {
		case errors.Is(err, domain.ErrCapabilityUnavailable):
			c.log.Warn().Msg("scanning capability unavailable; staying idle")
		case errors.Is(err, domain.ErrUserDeclined):
			c.log.Warn().Msg("scan permission declined; staying idle")
		default:
			c.log.Error().Err(err).Msg("scan source failed to start")
		}
		return fmt.Errorf("scan start: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(loopCtx)

	c.state = StateActive
	c.log.Info().Int("service_filters", len(filters.ServiceUUIDs)).
		Int("company_filters", len(filters.CompanyIDs)).Msg("scan started")
	return nil
}

// Stop cancels the event loop and halts the scan source. It returns only
// after the loop has exited, so no sweep fires after the controller reports
// idle. Source stop failures are reported but the controller is forced idle
// regardless.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		c.log.Info().Msg("scan already idle")
		return nil
	}

	c.cancel()
	<-c.done
	c.state = StateIdle

	if err := c.source.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("scan source stop failed")
		return fmt.Errorf("scan stop: %w", err)
	}
	c.log.Info().Msg("scan stopped")
	return nil
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	events := c.source.Advertisements()
	for {
		select {
		case <-ctx.Done():
			return

		case adv, ok := <-events:
			if !ok {
				c.log.Warn().Msg("advertisement stream closed")
				return
			}
			c.handleAdvertisement(ctx, adv)

		case <-ticker.C:
			c.registry.RecomputeStatus(ctx)
			telemetry.SweepRuns.Inc()
		}
	}
}

// handleAdvertisement runs the full pipeline for one packet: profile match,
// registry create-or-update, inline classification via the registry's
// snapshot notification. No match means silent discard.
func (c *Controller) handleAdvertisement(ctx context.Context, adv domain.RawAdvertisement) {
	ctx, span := c.tracer.Start(ctx, "advertisement.process",
		trace.WithAttributes(
			attribute.String("identity", adv.Identity),
			attribute.Int("rssi", adv.RSSI),
		))
	defer span.End()

	telemetry.AdvertisementsReceived.Inc()

	payloadHex, profile, ok := c.matcher.Match(adv)
	if !ok {
		telemetry.AdvertisementsDiscarded.Inc()
		c.log.Debug().Str("identity", adv.Identity).Msg("advertisement matched no profile; discarded")
		return
	}
	telemetry.AdvertisementsMatched.WithLabelValues(profile.Name).Inc()

	at := adv.At
	if at.IsZero() {
		at = time.Now()
	}

	c.registry.ApplyObservation(ctx, domain.Observation{
		Identity:   adv.Identity,
		RSSI:       adv.RSSI,
		At:         at,
		PayloadHex: payloadHex,
		Profile:    profile,
	})
}
