// pkg/api/stage_v1.go
package api

// StageV1 is the stable schema for the outcome of one pipeline stage.
type StageV1 struct {
	Stage          string   `json:"stage"`
	Status         string   `json:"status"` // "ok" | "failed" | "skipped"
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Invocations    int      `json:"invocations,omitempty"`
	Outputs        []string `json:"outputs,omitempty"`
	Error          string   `json:"error,omitempty"`
}
