package checks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-ping/ping"
	"github.com/pkg/errors"
)

type NativeOptions struct {
	Count      int
	Interval   time.Duration
	Timeout    time.Duration
	Privileged bool
	// Ping6Command is the command name that selects IPv6 for a probe.
	Ping6Command string
}

// NativePinger sends ICMP echo requests itself instead of running ping. It
// reports in the iputils summary format so ParseOutput reads it like ping
// output. Argument strings are ignored; count, interval and timeout come from
// NativeOptions.
type NativePinger struct {
	log  *slog.Logger
	opts NativeOptions
}

func NewNativePinger(opts NativeOptions, log *slog.Logger) *NativePinger {
	if opts.Count <= 0 {
		opts.Count = 2
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(opts.Count)*opts.Interval + time.Second
	}
	if opts.Ping6Command == "" {
		opts.Ping6Command = "ping6"
	}
	if log == nil {
		log = slog.Default()
	}

	return &NativePinger{
		log:  log,
		opts: opts,
	}
}

func (n *NativePinger) Probe(ctx context.Context, command, _, address, _ string) string {
	pinger, err := n.newPinger(command, address)
	if err != nil {
		n.log.Debug("native ping setup failed",
			"address", address,
			"error", err.Error(),
		)
		return ""
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()

	if err := pinger.Run(); err != nil {
		n.log.Debug("native ping failed",
			"address", address,
			"error", errors.Wrapf(err, "pinging %s", address).Error(),
		)
		return ""
	}

	return renderStatistics(pinger.Statistics())
}

func (n *NativePinger) newPinger(command, address string) (*ping.Pinger, error) {
	pinger := ping.New(address)
	if command == n.opts.Ping6Command {
		pinger.SetNetwork("ip6")
	}
	if err := pinger.Resolve(); err != nil {
		return nil, errors.Wrapf(err, "resolving %s", address)
	}

	pinger.Count = n.opts.Count
	pinger.Interval = n.opts.Interval
	pinger.Timeout = n.opts.Timeout
	pinger.SetPrivileged(n.opts.Privileged)

	return pinger, nil
}

// renderStatistics formats stats the way iputils ping prints its summary.
func renderStatistics(stats *ping.Statistics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- %s ping statistics ---\n", stats.Addr)
	fmt.Fprintf(&b, "%d packets transmitted, %d received, %s%% packet loss",
		stats.PacketsSent,
		stats.PacketsRecv,
		formatPercent(stats.PacketLoss),
	)

	if stats.PacketsRecv > 0 {
		fmt.Fprintf(&b, "\nrtt min/avg/max/mdev = %s/%s/%s/%s ms",
			formatMilliseconds(stats.MinRtt),
			formatMilliseconds(stats.AvgRtt),
			formatMilliseconds(stats.MaxRtt),
			formatMilliseconds(stats.StdDevRtt),
		)
	}

	return b.String()
}

func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
