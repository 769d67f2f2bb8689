package checks

import (
	"testing"

	"ozzus/multiping/internal/domain"
)

const iputilsOutput = `PING 192.0.2.1 (192.0.2.1) 56(84) bytes of data.
64 bytes from 192.0.2.1: icmp_seq=1 ttl=57 time=10.0 ms
64 bytes from 192.0.2.1: icmp_seq=2 ttl=57 time=40.0 ms

--- 192.0.2.1 ping statistics ---
2 packets transmitted, 2 received, 0% packet loss, time 1001ms
rtt min/avg/max/mdev = 10.0/25.5/40.0/5.0 ms`

func TestParseOutput_Latency(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   float64
	}{
		{"iputils", iputilsOutput, 0.0255},
		{"bsd", "round-trip min/avg/max/stddev = 14.289/14.500/14.711/0.211 ms", 0.0145},
		{"busybox", "round-trip min/avg/max = 0.1/2/3.0 ms", 0.002},
		{"integers", "rtt min/avg/max/mdev = 1/4/9/2 ms", 0.004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOutput(domain.MetricLatency, tt.output)
			if !ok {
				t.Fatalf("want a value, got none")
			}
			if got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseOutput_LatencyAbsent(t *testing.T) {
	for _, output := range []string{
		"",
		"ping: unknown host nowhere.invalid",
		"2 packets transmitted, 0 received, 100% packet loss, time 1010ms",
		"Minimum = 1ms, Maximum = 3ms, Average = 2ms",
	} {
		if v, ok := ParseOutput(domain.MetricLatency, output); ok {
			t.Fatalf("%q: want no value, got %v", output, v)
		}
	}
}

func TestParseOutput_PacketLoss(t *testing.T) {
	tests := []struct {
		output string
		want   float64
	}{
		{"4 packets transmitted, 3 received, 25% packet loss, time 3004ms", 25},
		{"2 packets transmitted, 2 received, 0% packet loss, time 1001ms", 0},
		{"2 packets transmitted, 0 received, +2 errors, 100% packet loss", 100},
		{"2 packets transmitted, 1 packets received, 50.0% packet loss", 50},
		{"8 packets transmitted, 7 packets received, 12.5% packet loss", 12},
		{iputilsOutput, 0},
	}

	for _, tt := range tests {
		got, ok := ParseOutput(domain.MetricPacketLoss, tt.output)
		if !ok {
			t.Fatalf("%q: want a value, got none", tt.output)
		}
		if got != tt.want {
			t.Fatalf("%q: want %v, got %v", tt.output, tt.want, got)
		}
	}
}

func TestParseOutput_PacketLossAbsent(t *testing.T) {
	for _, output := range []string{"", "connect: Network is unreachable", "rtt min/avg/max/mdev = 1/2/3/0 ms"} {
		if v, ok := ParseOutput(domain.MetricPacketLoss, output); ok {
			t.Fatalf("%q: want no value, got %v", output, v)
		}
	}
}
