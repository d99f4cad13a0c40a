package domain

import "time"

// GenerationRecord captures one completed backend request for the local
// history store.
type GenerationRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	Model       string    `json:"model"`
	PromptChars int       `json:"prompt_chars"`
	OutputChars int       `json:"output_chars"`
	DurationMS  int64     `json:"duration_ms"`
	Refinement  bool      `json:"refinement"`
}
