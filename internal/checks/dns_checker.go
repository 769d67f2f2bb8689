package checks

import (
	"context"
	"log/slog"
	"os/exec"
	"regexp"
	"time"
)

var hostAddressRegexp = regexp.MustCompile(`address\s+(\S+)`)

// HostResolver looks records up with the host(1) utility.
type HostResolver struct {
	log     *slog.Logger
	command string
	timeout time.Duration
}

func NewHostResolver(command string, timeout time.Duration, log *slog.Logger) *HostResolver {
	if command == "" {
		command = "host"
	}
	if log == nil {
		log = slog.Default()
	}

	return &HostResolver{
		log:     log,
		command: command,
		timeout: timeout,
	}
}

func (r *HostResolver) Resolve(ctx context.Context, recordType, hostname string) []string {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, "-t", recordType, hostname)
	output, err := cmd.Output()
	if err != nil {
		r.log.Debug("host lookup failed",
			"host", hostname,
			"type", recordType,
			"error", commandError(ctx, r.command, err).Error(),
		)
	}

	addrs := ParseHostOutput(string(output))
	r.log.Debug("host resolved",
		"host", hostname,
		"type", recordType,
		"addresses", addrs,
	)

	return addrs
}

// ParseHostOutput returns the token following "address" on each line of
// host(1) output, skipping lines without one.
func ParseHostOutput(output string) []string {
	addrs := []string{}

	for _, line := range splitLines(output) {
		if matches := hostAddressRegexp.FindStringSubmatch(line); len(matches) == 2 {
			addrs = append(addrs, matches[1])
		}
	}

	return addrs
}
