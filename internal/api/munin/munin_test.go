package munin

import (
	"bytes"
	"strings"
	"testing"

	"ozzus/multiping/internal/domain"
)

func TestFieldName(t *testing.T) {
	tests := map[string]string{
		"H1":                    "H1",
		"H2 (9.9.9.9)":          "H2__9_9_9_9_",
		"192.0.2.1":             "_92_0_2_1",
		"2001:db8::1":           "_001_db8__1",
		"gw.example (10.0.0.1)": "gw_example__10_0_0_1_",
		"_ok":                   "_ok",
		"root":                  "x_root",
	}
	for in, want := range tests {
		if got := FieldName(in); got != want {
			t.Errorf("FieldName(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestWriter_Config(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, domain.MetricLatency)

	err := w.Config([]domain.ProbeTarget{
		{Label: "H1", Address: "host1.example"},
		{Label: "H2 (9.9.9.9)", Address: "9.9.9.9"},
	})
	if err != nil {
		t.Fatalf("Config: %v", err)
	}

	out := buf.String()
	for _, line := range []string{
		"graph_title Ping times\n",
		"graph_vlabel seconds\n",
		"graph_category network\n",
		"H1.label H1\n",
		"H1.draw LINE2\n",
		"H2__9_9_9_9_.label H2 (9.9.9.9)\n",
		"H2__9_9_9_9_.info Ping RTT statistics for H2 (9.9.9.9).\n",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("missing %q in:\n%s", line, out)
		}
	}
}

func TestWriter_ConfigPacketLoss(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, domain.MetricPacketLoss).Config(nil); err != nil {
		t.Fatalf("Config: %v", err)
	}
	if !strings.Contains(buf.String(), "graph_title Packet loss\n") || !strings.Contains(buf.String(), "--upper-limit 100") {
		t.Fatalf("unexpected loss config:\n%s", buf.String())
	}
}

func TestWriter_Fetch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, domain.MetricPacketLoss)

	err := w.Fetch([]domain.ProbeResult{
		{Target: domain.ProbeTarget{Label: "H1"}, Value: 0, Valid: true},
		{Target: domain.ProbeTarget{Label: "lost"}, Valid: false},
		{Target: domain.ProbeTarget{Label: "H2 (9.9.9.9)"}, Value: 25, Valid: true},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := "H1.value 0\nH2__9_9_9_9_.value 25\n"
	if buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}

func TestWriter_FetchLatencySeconds(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, domain.MetricLatency)

	if err := w.Fetch([]domain.ProbeResult{{Target: domain.ProbeTarget{Label: "gw"}, Value: 0.0255, Valid: true}}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if buf.String() != "gw.value 0.0255\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
