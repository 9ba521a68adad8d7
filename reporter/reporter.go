package reporter

import "context"

// Reporter receives progress signals. Index is 1-based and increases
// monotonically within a stage of a run.
type Reporter interface {
	Report(ctx context.Context, progress Progress) error
}

type Progress struct {
	RunId     string `json:"runId"`
	Stage     string `json:"stage"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
