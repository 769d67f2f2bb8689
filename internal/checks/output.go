package checks

import (
	"regexp"
	"strconv"

	"ozzus/multiping/internal/domain"
)

// Accepted summary lines:
//
//	rtt min/avg/max/mdev = 10.0/25.5/40.0/5.0 ms        (iputils)
//	round-trip min/avg/max/stddev = 1.2/3.4/5.6/0.7 ms  (BSD, macOS)
//	round-trip min/avg/max = 0.1/0.2/0.3 ms             (busybox)
//	2 packets transmitted, 2 received, 0% packet loss
//	2 packets transmitted, 1 packets received, 50.0% packet loss
var (
	pingRttRegexp  = regexp.MustCompile(`min/avg/max\S*\s*=\s*[0-9]+(?:\.[0-9]+)?/([0-9]+(?:\.[0-9]+)?)/[0-9]+(?:\.[0-9]+)?`)
	pingLossRegexp = regexp.MustCompile(`([0-9]+)(?:\.[0-9]+)?% packet loss`)
)

// ParseOutput extracts the metric from ping output: the average round trip
// in seconds, or the integer packet loss percentage. ok is false when the
// output has no matching statistic.
func ParseOutput(metric domain.Metric, output string) (value float64, ok bool) {
	switch metric {
	case domain.MetricPacketLoss:
		return parseLoss(output)
	default:
		return parseRTT(output)
	}
}

func parseRTT(output string) (float64, bool) {
	matches := pingRttRegexp.FindStringSubmatch(output)
	if len(matches) != 2 {
		return 0, false
	}

	avg, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, false
	}

	return avg / 1000, true
}

func parseLoss(output string) (float64, bool) {
	matches := pingLossRegexp.FindStringSubmatch(output)
	if len(matches) != 2 {
		return 0, false
	}

	loss, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}

	return float64(loss), true
}
