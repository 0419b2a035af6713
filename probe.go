// Package memcheck is a single-shot Redis memory probe for Nagios-style
// monitoring: it reads INFO over one connection and classifies memory usage
// against maxmemory as OK, WARNING or CRITICAL.
package memcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Probe runs the memory check against one server.
type Probe struct {
	cfg    Config
	logger *slog.Logger
}

// NewProbe creates a probe for cfg. cfg is expected to be validated.
func NewProbe(cfg Config) *Probe {
	return &Probe{
		cfg:    cfg,
		logger: cfg.logger().With("addr", cfg.Addr()),
	}
}

// Run connects, authenticates when a password is configured, reads INFO and
// classifies memory usage. It always returns a verdict: any failure along
// the way becomes CRITICAL with Verdict.Err set.
func (p *Probe) Run(ctx context.Context) Verdict {
	text, err := p.fetchInfo(ctx)
	if err != nil {
		p.logger.Debug("probe failed", "error", err)
		return p.failure(err, nil)
	}
	p.logger.Debug("INFO output received", "bytes", len(text))

	report := ParseStatusReport(text)
	snap, err := SnapshotFromReport(report)
	if err != nil {
		p.logger.Debug("memory fields unusable", "error", err)
		return p.failure(err, nil)
	}

	verdict, err := Evaluate(snap, p.cfg.Thresholds())
	if err != nil {
		return p.failure(err, &snap)
	}

	p.logger.Debug("memory usage",
		"used_field", snap.UsedField,
		"used_mb", snap.UsedMB(),
		"limit_mb", snap.LimitMB(),
		"used_percent", fmt.Sprintf("%.2f", snap.UsedPercent()),
		"level", verdict.Level.String(),
	)
	return verdict
}

// fetchInfo performs the whole network exchange. The connection is closed
// before it returns.
func (p *Probe) fetchInfo(ctx context.Context) (string, error) {
	p.logger.Debug("connecting", "timeout", p.cfg.Timeout)
	conn, err := Dial(ctx, p.cfg.Target())
	if err != nil {
		return "", err
	}
	defer conn.Close()
	p.logger.Debug("connection established")

	if creds := p.cfg.Credentials(); creds != nil {
		p.logger.Debug("sending AUTH", "username", creds.Username != "")
		if err := conn.Auth(ctx, *creds); err != nil {
			return "", err
		}
	}

	p.logger.Debug("sending INFO", "blank_line_framing", p.cfg.BlankLineFraming)
	return conn.Info(ctx, p.cfg.BlankLineFraming)
}

func (p *Probe) failure(err error, snap *MemorySnapshot) Verdict {
	return Verdict{
		Level:    LevelCritical,
		Message:  FailureMessage(p.cfg.Addr(), err),
		Snapshot: snap,
		Err:      err,
	}
}

// FailureMessage renders the CRITICAL status line for err.
func FailureMessage(addr string, err error) string {
	var (
		missing *MissingFieldError
		invalid *InvalidFieldError
		limit   *ConfiguredLimitError
		cfgErr  *ConfigError
	)

	switch {
	case errors.As(err, &limit):
		return fmt.Sprintf("%s: %s maxmemory is 0 (not configured)", LevelCritical, subsystem)
	case errors.As(err, &missing):
		return fmt.Sprintf("%s: Missing memory metrics in %s INFO: %s", LevelCritical, subsystem, missing.Field)
	case errors.As(err, &invalid):
		return fmt.Sprintf("%s: Invalid memory metrics in %s INFO: %v", LevelCritical, subsystem, invalid)
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("%s: %v", LevelCritical, cfgErr)
	default:
		return fmt.Sprintf("%s: Error connecting or getting INFO from %s %s: %v", LevelCritical, subsystem, addr, err)
	}
}
