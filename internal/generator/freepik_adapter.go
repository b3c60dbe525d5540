package generator

import (
	"context"
	"fmt"

	"github.com/arnshyz/UGC/internal/freepik"
)

// FreepikAdapter adapts the Freepik client to the Generator interface.
type FreepikAdapter struct {
	client *freepik.Client
}

// NewFreepikAdapter creates a new Freepik generator adapter.
func NewFreepikAdapter(client *freepik.Client) *FreepikAdapter {
	return &FreepikAdapter{client: client}
}

// GenerateImage performs one image synthesis round trip.
func (a *FreepikAdapter) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	image, err := a.client.GenerateImage(ctx, freepik.ImageOptions{
		Prompt:              req.Prompt,
		StyleNegativePrompt: req.NegativePrompt,
		ReferenceImages:     req.ReferenceImages,
	})
	if err != nil {
		return "", fmt.Errorf("freepik adapter generate image: %w", err)
	}
	return image, nil
}

// CreateVideoJob submits a video generation job.
func (a *FreepikAdapter) CreateVideoJob(ctx context.Context, req VideoRequest) (string, error) {
	jobID, err := a.client.CreateVideoJob(ctx, freepik.VideoOptions{
		Prompt:          req.Prompt,
		ImageBase64:     req.ImageBase64,
		BackgroundMusic: req.BackgroundMusic,
	})
	if err != nil {
		return "", fmt.Errorf("freepik adapter create video job: %w", err)
	}
	return jobID, nil
}

// VideoJobStatus fetches one status observation.
func (a *FreepikAdapter) VideoJobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	status, err := a.client.VideoJobStatus(ctx, jobID)
	if err != nil {
		return JobStatus{}, fmt.Errorf("freepik adapter video job status: %w", err)
	}

	var state JobState
	switch status.State {
	case freepik.JobStateSucceeded:
		state = JobStateSucceeded
	case freepik.JobStateFailed:
		state = JobStateFailed
	default:
		state = JobStatePending
	}

	return JobStatus{
		State:    state,
		VideoURL: status.VideoURL,
		Detail:   status.Detail,
	}, nil
}

// Compile-time check that FreepikAdapter implements Generator.
var _ Generator = (*FreepikAdapter)(nil)
