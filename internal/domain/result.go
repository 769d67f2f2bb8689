package domain

import "time"

// ProbeResult holds the parsed metric of one probe. Valid is false when the
// output carried no recognizable statistic.
type ProbeResult struct {
	Target ProbeTarget `json:"target"`
	Value  float64     `json:"value"`
	Valid  bool        `json:"valid"`
}

// RunReport is the record of one fetch run sent to the result repository.
type RunReport struct {
	RunID      string        `json:"run_id"`
	Metric     Metric        `json:"metric"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Results    []ProbeResult `json:"results"`
}
