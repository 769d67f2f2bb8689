// Package munin renders targets and results in the Munin plugin protocol.
package munin

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"ozzus/multiping/internal/domain"
)

var (
	leadingIllegalRegexp = regexp.MustCompile(`^[^A-Za-z_]`)
	illegalRegexp        = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// FieldName turns label into a valid Munin field name.
func FieldName(label string) string {
	name := leadingIllegalRegexp.ReplaceAllString(label, "_")
	name = illegalRegexp.ReplaceAllString(name, "_")
	if name == "root" {
		// reserved by munin
		name = "x_root"
	}
	return name
}

type graph struct {
	title  string
	args   string
	vlabel string
	info   string
	field  string
}

var graphs = map[domain.Metric]graph{
	domain.MetricLatency: {
		title:  "Ping times",
		args:   "--base 1000 -l 0",
		vlabel: "seconds",
		info:   "This graph shows the average ping round trip time to each host.",
		field:  "Ping RTT statistics for %s.",
	},
	domain.MetricPacketLoss: {
		title:  "Packet loss",
		args:   "--base 1000 -l 0 --upper-limit 100",
		vlabel: "%",
		info:   "This graph shows the packet loss towards each host.",
		field:  "Packet loss statistics for %s.",
	},
}

type Writer struct {
	out    io.Writer
	metric domain.Metric
}

func NewWriter(out io.Writer, metric domain.Metric) *Writer {
	if _, ok := graphs[metric]; !ok {
		metric = domain.MetricLatency
	}
	return &Writer{out: out, metric: metric}
}

// Config writes the graph definition with one line per target.
func (w *Writer) Config(targets []domain.ProbeTarget) error {
	g := graphs[w.metric]

	b := bufio.NewWriter(w.out)
	fmt.Fprintf(b, "graph_title %s\n", g.title)
	fmt.Fprintf(b, "graph_args %s\n", g.args)
	fmt.Fprintf(b, "graph_vlabel %s\n", g.vlabel)
	fmt.Fprintln(b, "graph_category network")
	fmt.Fprintf(b, "graph_info %s\n", g.info)

	for _, t := range targets {
		field := FieldName(t.Label)
		fmt.Fprintf(b, "%s.label %s\n", field, t.Label)
		fmt.Fprintf(b, "%s.info "+g.field+"\n", field, t.Label)
		fmt.Fprintf(b, "%s.draw LINE2\n", field)
	}

	return b.Flush()
}

// Fetch writes one value line per result. Results without a value are left
// out so munin records them as unknown.
func (w *Writer) Fetch(results []domain.ProbeResult) error {
	b := bufio.NewWriter(w.out)
	for _, r := range results {
		if !r.Valid {
			continue
		}
		fmt.Fprintf(b, "%s.value %s\n", FieldName(r.Target.Label), strconv.FormatFloat(r.Value, 'f', -1, 64))
	}
	return b.Flush()
}
