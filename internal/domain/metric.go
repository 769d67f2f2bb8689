package domain

import (
	"fmt"
	"strings"
)

type Metric string

const (
	MetricLatency    Metric = "latency"
	MetricPacketLoss Metric = "loss"
)

func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latency", "rtt", "":
		return MetricLatency, nil
	case "loss", "packetloss", "packet-loss":
		return MetricPacketLoss, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}
