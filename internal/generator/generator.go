// Package generator provides the provider-neutral interface the orchestrator
// generates images and videos through. The Freepik adapter is the production
// implementation; tests substitute mocks.
package generator

import "context"

// ImageRequest describes one image generation call.
type ImageRequest struct {
	Prompt string
	// NegativePrompt is the style's negative prompt fragment.
	NegativePrompt string
	// ReferenceImages are raw base64 payloads without a data-URL prefix.
	ReferenceImages []string
}

// VideoRequest describes one video job creation call.
type VideoRequest struct {
	Prompt string
	// ImageBase64 is the source frame, raw base64 without a data-URL prefix.
	ImageBase64 string
	// BackgroundMusic toggles the provider's music track.
	BackgroundMusic bool
}

// JobState is the normalized remote job status.
type JobState string

const (
	// JobStatePending covers every non-terminal status.
	JobStatePending JobState = "pending"
	// JobStateSucceeded is the terminal success status.
	JobStateSucceeded JobState = "succeeded"
	// JobStateFailed covers failed, error and cancelled.
	JobStateFailed JobState = "failed"
)

// JobStatus is one observation of a remote video job.
type JobStatus struct {
	State JobState
	// VideoURL is the playable result, set only on success.
	VideoURL string
	// Detail carries the raw provider status for diagnostics.
	Detail string
}

// Generator defines the synthesis operations the orchestrator depends on.
type Generator interface {
	// GenerateImage performs one image synthesis round trip and returns
	// a data-URL image handle.
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)

	// CreateVideoJob submits a video generation job and returns its id.
	CreateVideoJob(ctx context.Context, req VideoRequest) (string, error)

	// VideoJobStatus fetches one status observation for a video job.
	VideoJobStatus(ctx context.Context, jobID string) (JobStatus, error)
}
