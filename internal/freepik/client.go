package freepik

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arnshyz/UGC/internal/dispatch"
	"github.com/arnshyz/UGC/internal/fault"
)

// ErrAPIKeyRequired is returned when the client is built without an API key.
var ErrAPIKeyRequired = errors.New("freepik: API key is required")

// ImageOptions describes one image synthesis request.
type ImageOptions struct {
	Prompt string
	// StyleNegativePrompt is appended to the default negative prompt.
	StyleNegativePrompt string
	// ReferenceImages are raw base64 payloads without a data-URL prefix.
	ReferenceImages []string
}

// VideoOptions describes one video job creation request.
type VideoOptions struct {
	Prompt string
	// ImageBase64 is the source frame, raw base64 without a data-URL prefix.
	ImageBase64 string
	// BackgroundMusic toggles the provider's cinematic music track.
	BackgroundMusic bool
}

// Client calls the Freepik API through the failover dispatcher. The image
// and video operation families keep separate dispatch targets because their
// relay availability differs per deployment environment.
type Client struct {
	dispatcher  *dispatch.Client
	imageTarget *dispatch.Target
	videoTarget *dispatch.Target
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDispatcher replaces the dispatch client.
func WithDispatcher(d *dispatch.Client) Option {
	return func(c *Client) {
		c.dispatcher = d
	}
}

// WithImageTarget sets the candidate bases for image synthesis.
func WithImageTarget(t *dispatch.Target) Option {
	return func(c *Client) {
		c.imageTarget = t
	}
}

// WithVideoTarget sets the candidate bases for video synthesis.
func WithVideoTarget(t *dispatch.Target) Option {
	return func(c *Client) {
		c.videoTarget = t
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Freepik API client. Both operation families default to
// the direct provider address; deployments behind restrictive networks
// inject targets with a relay candidate in front.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		imageTarget: dispatch.NewTarget(DirectBaseURL),
		videoTarget: dispatch.NewTarget(DirectBaseURL),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dispatcher == nil {
		c.dispatcher = dispatch.NewClient(
			dispatch.WithHeader(CredentialHeader, apiKey),
			dispatch.WithLogger(c.logger),
		)
	}
	return c, nil
}

// GenerateImage performs one image synthesis round trip and returns the
// result as a data:image/png;base64 handle.
func (c *Client) GenerateImage(ctx context.Context, opts ImageOptions) (string, error) {
	negative := defaultNegativePrompt
	if opts.StyleNegativePrompt != "" {
		negative = negative + ", " + opts.StyleNegativePrompt
	}

	body := imageRequest{
		Prompt:          strings.TrimSpace(opts.Prompt),
		AspectRatio:     "9:16",
		GuidanceScale:   7,
		NumImages:       1,
		SafetyFilter:    true,
		NegativePrompt:  negative,
		ReferenceImages: opts.ReferenceImages,
	}

	resp, err := c.dispatcher.Send(ctx, http.MethodPost, TextToImagePath, body, c.imageTarget)
	if err != nil {
		return "", fmt.Errorf("freepik: generate image: %w", err)
	}
	if !resp.OK() {
		return "", fault.FromResponse(resp.StatusCode, resp.Body)
	}

	payload, err := decodePayload(resp.Body)
	if err != nil {
		return "", err
	}
	imageB64 := firstString(payload, imagePaths)
	if imageB64 == "" {
		c.logger.Error("image response missing base64 payload",
			slog.Int("body_len", len(resp.Body)),
		)
		return "", fault.UnexpectedPayload("image response carried none of the known payload shapes")
	}

	return "data:image/png;base64," + imageB64, nil
}

// CreateVideoJob submits a video generation job and returns its opaque id.
func (c *Client) CreateVideoJob(ctx context.Context, opts VideoOptions) (string, error) {
	music := "none"
	if opts.BackgroundMusic {
		music = "cinematic"
	}

	body := videoRequest{
		Prompt:          opts.Prompt,
		ImageBase64:     opts.ImageBase64,
		AspectRatio:     "9:16",
		Resolution:      "1080p",
		BackgroundMusic: music,
	}

	resp, err := c.dispatcher.Send(ctx, http.MethodPost, ImageToVideoPath, body, c.videoTarget)
	if err != nil {
		return "", fmt.Errorf("freepik: create video job: %w", err)
	}
	if !resp.OK() {
		return "", fault.FromResponse(resp.StatusCode, resp.Body)
	}

	payload, err := decodePayload(resp.Body)
	if err != nil {
		return "", err
	}
	jobID := firstString(payload, jobIDPaths)
	if jobID == "" {
		return "", fault.UnexpectedPayload("video job creation returned no job id")
	}

	return jobID, nil
}

// VideoJobStatus fetches one status observation for a video job. A success
// payload missing the video URL is reported as succeeded with an empty
// handle; the poller turns that into an UNEXPECTED_PAYLOAD failure.
func (c *Client) VideoJobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	path := ImageToVideoPath + "/" + jobID

	resp, err := c.dispatcher.Send(ctx, http.MethodGet, path, nil, c.videoTarget)
	if err != nil {
		return JobStatus{}, fmt.Errorf("freepik: video job status: %w", err)
	}
	if !resp.OK() {
		return JobStatus{}, fault.FromResponse(resp.StatusCode, resp.Body)
	}

	payload, err := decodePayload(resp.Body)
	if err != nil {
		return JobStatus{}, err
	}

	raw := firstString(payload, statusPaths)
	status := JobStatus{
		State:  normalizeStatus(raw),
		Detail: raw,
	}
	if status.State == JobStateSucceeded {
		status.VideoURL = firstString(payload, videoURLPaths)
	}
	return status, nil
}

func decodePayload(body []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fault.UnexpectedPayload(fmt.Sprintf("response is not valid JSON: %v", err))
	}
	return payload, nil
}
