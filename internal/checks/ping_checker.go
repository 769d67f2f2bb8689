package checks

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// PingChecker probes by running the system ping command, one process per
// probe.
type PingChecker struct {
	log     *slog.Logger
	timeout time.Duration
}

// NewPingChecker returns a checker that kills ping after timeout. A zero
// timeout leaves the command's own count and deadline arguments in charge.
func NewPingChecker(timeout time.Duration, log *slog.Logger) *PingChecker {
	if log == nil {
		log = slog.Default()
	}

	return &PingChecker{
		log:     log,
		timeout: timeout,
	}
}

func (p *PingChecker) Probe(ctx context.Context, command, preArgs, address, postArgs string) string {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	args := append(splitArgs(preArgs), address)
	args = append(args, splitArgs(postArgs)...)

	cmd := exec.CommandContext(ctx, command, args...)

	start := time.Now()
	output, err := cmd.Output()
	duration := time.Since(start)

	if err != nil {
		p.log.Debug("ping command failed",
			"command", command,
			"address", address,
			"duration", duration,
			"error", commandError(ctx, command, err).Error(),
		)
	} else if len(output) == 0 {
		p.log.Debug("ping command failed",
			"command", command,
			"address", address,
			"error", ErrEmptyOutput.Error(),
		)
	}

	return joinLines(output)
}
