/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/kube-telemetry/pkg/diag"
	"github.com/NVIDIA/kube-telemetry/pkg/report"
)

// intervalRunner repeats collection cycles until the context is
// cancelled. A failed cycle is logged and counted, never fatal to the
// process; the previously emitted report stays in place until a cycle
// succeeds.
type intervalRunner struct {
	builder  *report.Builder
	output   string
	diagAddr string
	interval time.Duration
	timeout  time.Duration

	diag  *diag.Server
	ready bool
}

// run starts the cycle loop and, when configured, the diagnostic
// server. It returns when the context is cancelled or the diagnostic
// listener fails.
func (r *intervalRunner) run(ctx context.Context) error {
	slog.Info("starting interval mode",
		"interval", r.interval.String(),
		"timeout", r.timeout.String(),
		"diagAddr", r.diagAddr)

	g, gctx := errgroup.WithContext(ctx)

	if r.diagAddr != "" {
		cfg := diag.NewConfig()
		cfg.Name = name
		cfg.Version = version
		cfg.Address = r.diagAddr
		r.diag = diag.NewServer(cfg)

		g.Go(func() error {
			return r.diag.Start(gctx)
		})
	}

	g.Go(func() error {
		return r.loop(gctx)
	})

	err := g.Wait()
	r.notify(daemon.SdNotifyStopping)
	return err
}

// loop runs the first cycle immediately, then one cycle per tick.
func (r *intervalRunner) loop(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var failures int
	r.runCycle(ctx, &failures)

	for {
		select {
		case <-ctx.Done():
			slog.Info("interval mode stopping", "consecutiveFailures", failures)
			return nil
		case <-ticker.C:
			r.runCycle(ctx, &failures)
		}
	}
}

// runCycle runs one cycle and folds its outcome into the failure count
// and systemd state. READY is sent once, after the first success; the
// watchdog is pet only on successful cycles.
func (r *intervalRunner) runCycle(ctx context.Context, failures *int) {
	if err := r.cycle(ctx); err != nil {
		if ctx.Err() != nil {
			// Shutdown raced the cycle, not a collection failure.
			return
		}
		*failures++
		slog.Error("collection cycle failed",
			"error", err,
			"consecutiveFailures", *failures)
		return
	}
	*failures = 0

	if !r.ready {
		r.ready = true
		r.notify(daemon.SdNotifyReady)
	}
	r.notify(daemon.SdNotifyWatchdog)
}

// cycle runs one collection, emits the report, and publishes the
// rendered text to the diagnostic server.
func (r *intervalRunner) cycle(ctx context.Context) error {
	cycleCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rpt, err := r.builder.Build(cycleCtx)
	if err != nil {
		return err
	}
	if err := emitReport(cycleCtx, rpt, r.output); err != nil {
		return err
	}

	if r.diag != nil {
		text, err := rpt.Render()
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		r.diag.Publish(text)
	}
	return nil
}

// notify sends one sd_notify state. Without NOTIFY_SOCKET set this is
// a no-op.
func (r *intervalRunner) notify(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		slog.Warn("failed to notify systemd", "state", state, "error", err)
	}
}
