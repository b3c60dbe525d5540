// Package freepik provides the HTTP client for the Freepik synthesis API:
// single round-trip image generation and two round-trip (create + poll)
// video generation.
package freepik

// Operation paths on the provider API.
const (
	// TextToImagePath is the image synthesis endpoint.
	TextToImagePath = "/text-to-image/google/gemini-2.5-flash-image-preview"
	// ImageToVideoPath is the video job-creation endpoint; the status
	// endpoint is the same path suffixed with the job id.
	ImageToVideoPath = "/image-to-video/seedance-pro-1080p"
	// DirectBaseURL is the provider's public base address, used when no
	// relay is configured or the relay is unreachable.
	DirectBaseURL = "https://api.freepik.com/v1"
	// CredentialHeader carries the caller-supplied API key.
	CredentialHeader = "x-freepik-api-key"
)

// defaultNegativePrompt is always prepended to the style's negative prompt.
const defaultNegativePrompt = "text, watermark, logo, words"

// imageRequest is the wire body for image synthesis.
type imageRequest struct {
	Prompt          string   `json:"prompt"`
	AspectRatio     string   `json:"aspect_ratio"`
	GuidanceScale   float64  `json:"guidance_scale"`
	NumImages       int      `json:"num_images"`
	SafetyFilter    bool     `json:"safety_filter"`
	NegativePrompt  string   `json:"negative_prompt"`
	ReferenceImages []string `json:"reference_images,omitempty"`
}

// videoRequest is the wire body for video job creation.
type videoRequest struct {
	Prompt          string `json:"prompt"`
	ImageBase64     string `json:"image_base64"`
	AspectRatio     string `json:"aspect_ratio"`
	Resolution      string `json:"resolution"`
	BackgroundMusic string `json:"background_music"`
}

// JobState is the normalized status of a remote video job.
type JobState string

const (
	// JobStatePending covers every non-terminal provider status.
	JobStatePending JobState = "pending"
	// JobStateSucceeded covers succeeded/finished/completed.
	JobStateSucceeded JobState = "succeeded"
	// JobStateFailed covers failed/error/cancelled.
	JobStateFailed JobState = "failed"
)

// Terminal provider status strings; anything else is pending.
var (
	successStatuses = map[string]struct{}{"succeeded": {}, "finished": {}, "completed": {}}
	failureStatuses = map[string]struct{}{"failed": {}, "error": {}, "cancelled": {}}
)

// normalizeStatus maps a raw provider status string to a JobState.
func normalizeStatus(raw string) JobState {
	if _, ok := successStatuses[raw]; ok {
		return JobStateSucceeded
	}
	if _, ok := failureStatuses[raw]; ok {
		return JobStateFailed
	}
	return JobStatePending
}

// JobStatus is one observation of a video job.
type JobStatus struct {
	State JobState
	// VideoURL is set when State is JobStateSucceeded and the payload
	// carried the expected handle.
	VideoURL string
	// Detail is the raw status string for diagnostics.
	Detail string
}
