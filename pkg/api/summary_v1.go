// pkg/api/summary_v1.go
package api

// SummaryV1 is the stable JSON/JSONL schema for one predictor's resource
// summary. Keep fields, names, and types stable. Add new fields only with
// ",omitempty". Missing measurements are null, never zero.
type SummaryV1 struct {
	Tool            string   `json:"tool"`
	Invocations     int      `json:"invocations"`
	WallSeconds     float64  `json:"wall_seconds"`
	WallMinutes     float64  `json:"wall_minutes"`
	CPUPercent      *float64 `json:"cpu_percent"`       // mean utilisation / cores
	MeanCPUSeconds  *float64 `json:"mean_cpu_seconds"`  // user+system per invocation
	MeanMemoryBytes *float64 `json:"mean_memory_bytes"` // shared+unshared per invocation
	PeakRSSBytes    int64    `json:"peak_rss_bytes,omitempty"`
	OutDir          string   `json:"out_dir,omitempty"`
}
