package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arnshyz/UGC/internal/fault"
	"github.com/arnshyz/UGC/internal/generator"
	"github.com/arnshyz/UGC/internal/poll"
	"github.com/arnshyz/UGC/internal/scene"
	"github.com/arnshyz/UGC/internal/storage"
)

// Static errors surfaced to the transport layer.
var (
	// ErrSceneNotFound is returned when a scene id is outside the structure.
	ErrSceneNotFound = errors.New("scene not found")
	// ErrSceneBusy is returned when an operation targets a scene with a
	// generation already in flight.
	ErrSceneBusy = errors.New("scene has a generation in flight")
	// ErrImageRequired is returned when video generation is requested for a
	// scene that has no image yet.
	ErrImageRequired = errors.New("scene has no image to animate")
)

// ScriptWriter produces one voice-over line per scene. Implementations are
// best-effort: the orchestrator logs and continues on failure.
type ScriptWriter interface {
	WriteScripts(ctx context.Context, structure scene.Structure, productName, brief string) ([]string, error)
}

// Service orchestrates the generation workflow: the initial image batch,
// per-scene regeneration, and image-to-video jobs.
type Service struct {
	repo    Repository
	gen     generator.Generator
	poller  *poll.Poller
	scripts ScriptWriter
	archive storage.Archive
	// httpClient fetches provider video URLs for archiving.
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithScriptWriter enables voice-over script generation.
func WithScriptWriter(w ScriptWriter) Option {
	return func(s *Service) {
		s.scripts = w
	}
}

// WithArchive enables durable storage of completed videos.
func WithArchive(a storage.Archive) Option {
	return func(s *Service) {
		s.archive = a
	}
}

// WithHTTPClient replaces the client used to download videos for archiving.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.httpClient = c
	}
}

// NewService creates the orchestration service.
func NewService(repo Repository, gen generator.Generator, poller *poll.Poller, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if poller == nil {
		poller = poll.New(poll.WithLogger(logger))
	}
	s := &Service{
		repo:       repo,
		gen:        gen,
		poller:     poller,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput contains the parameters for a new session.
type CreateInput struct {
	StructureID     string
	StyleID         string
	ProductName     string
	Brief           string
	ProductPhoto    string
	ModelPhoto      string
	BackgroundMusic bool
}

// Create builds and persists a new session with pending scenes.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Session, error) {
	sess := New(input.StructureID, input.StyleID, input.ProductName, input.Brief, Assets{
		ProductPhoto: input.ProductPhoto,
		ModelPhoto:   input.ModelPhoto,
	}, input.BackgroundMusic)

	s.logger.Info("creating session",
		slog.String("session_id", sess.ID),
		slog.String("structure_id", sess.StructureID),
		slog.String("style_id", sess.StyleID),
		slog.Int("scenes", len(sess.Scenes)),
	)

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all sessions.
func (s *Service) List(ctx context.Context) ([]*Session, error) {
	return s.repo.List(ctx)
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RunInitialBatch generates images for every scene of the structure. The
// batch is all-or-nothing: the first failure aborts the whole run, every
// scene is marked ERROR with the same classified message, and partial
// results are discarded. Required assets are validated before any network
// call is made.
func (s *Service) RunInitialBatch(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	structure := sess.Structure()
	style := sess.Style()

	if ferr := validateAssets(structure, sess.Assets); ferr != nil {
		msg := ferr.UserMessage()
		_, uerr := s.repo.Update(ctx, id, func(cur *Session) error {
			cur.ResetScenes()
			for _, sc := range cur.Scenes {
				if err := sc.Fail(msg); err != nil {
					return err
				}
			}
			cur.Error = msg
			return nil
		})
		if uerr != nil {
			return nil, uerr
		}
		s.logger.Warn("initial batch rejected",
			slog.String("session_id", id),
			slog.String("detail", ferr.Detail),
		)
		return nil, ferr
	}

	// Fresh scenes, all visibly generating before the fan-out starts.
	if _, err := s.repo.Update(ctx, id, func(cur *Session) error {
		cur.ResetScenes()
		cur.CredentialsInvalid = false
		for _, sc := range cur.Scenes {
			if err := sc.TransitionTo(scene.StatusGeneratingImage); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	images := make([]string, len(structure.Scenes))
	g, gctx := errgroup.WithContext(ctx)
	for i, tmpl := range structure.Scenes {
		g.Go(func() error {
			img, err := s.gen.GenerateImage(gctx, generator.ImageRequest{
				Prompt:          tmpl.ImagePrompt(style, sess.ProductName, sess.Brief),
				NegativePrompt:  style.NegativePrompt,
				ReferenceImages: referenceImages(tmpl, sess.Assets),
			})
			if err != nil {
				return fmt.Errorf("scene %d: %w", i+1, err)
			}
			images[i] = img
			return nil
		})
	}

	// Scripts ride alongside the batch but never fail it.
	scripts := s.writeScripts(ctx, structure, sess.ProductName, sess.Brief)

	if err := g.Wait(); err != nil {
		return s.failBatch(ctx, id, err)
	}

	updated, err := s.repo.Update(ctx, id, func(cur *Session) error {
		for i, sc := range cur.Scenes {
			if err := sc.TransitionTo(scene.StatusImageReady); err != nil {
				return err
			}
			sc.Image = images[i]
			sc.VideoPrompt = structure.Scenes[i].VideoPromptSuggestion(cur.ProductName, cur.Brief, style)
			if scripts != nil && scripts[i] != "" {
				sc.Script = scripts[i]
			}
		}
		cur.Error = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("initial batch completed",
		slog.String("session_id", id),
		slog.Int("scenes", len(updated.Scenes)),
	)
	return updated, nil
}

// failBatch marks every scene ERROR with the classified message and records
// the session-level error. Partial images are discarded with the reset that
// precedes the next batch.
func (s *Service) failBatch(ctx context.Context, id string, cause error) (*Session, error) {
	msg := fault.MessageFor(cause)
	sessionLevel := false
	if fe := fault.As(cause); fe != nil {
		sessionLevel = fe.SessionLevel()
	}

	if _, uerr := s.repo.Update(ctx, id, func(cur *Session) error {
		for _, sc := range cur.Scenes {
			if sc.Status == scene.StatusError {
				continue
			}
			if err := sc.Fail(msg); err != nil {
				return err
			}
		}
		cur.Error = msg
		if sessionLevel {
			cur.CredentialsInvalid = true
		}
		return nil
	}); uerr != nil {
		return nil, uerr
	}

	s.logger.Error("initial batch failed",
		slog.String("session_id", id),
		slog.String("category", string(fault.CategoryOf(cause))),
		slog.String("error", cause.Error()),
	)
	return nil, cause
}

// RegenerateImage re-runs image generation for a single scene. Other scenes
// are untouched; a failure marks only this scene ERROR.
func (s *Service) RegenerateImage(ctx context.Context, id string, sceneID int) (*Session, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	structure := current.Structure()
	if sceneID < 1 || sceneID > len(structure.Scenes) {
		return nil, ErrSceneNotFound
	}
	tmpl := structure.Scenes[sceneID-1]

	// Re-validate just this scene's required assets before any transition.
	if ferr := validateTemplateAssets(tmpl, sceneID, current.Assets); ferr != nil {
		return nil, ferr
	}

	sess, err := s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if sc.Busy() {
			return ErrSceneBusy
		}
		return sc.TransitionTo(scene.StatusGeneratingImage)
	})
	if err != nil {
		return nil, err
	}

	style := sess.Style()

	img, genErr := s.gen.GenerateImage(ctx, generator.ImageRequest{
		Prompt:          tmpl.ImagePrompt(style, sess.ProductName, sess.Brief),
		NegativePrompt:  style.NegativePrompt,
		ReferenceImages: referenceImages(tmpl, sess.Assets),
	})
	if genErr != nil {
		return s.failScene(ctx, id, sceneID, genErr)
	}

	updated, err := s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if err := sc.TransitionTo(scene.StatusImageReady); err != nil {
			return err
		}
		sc.Image = img
		// Regeneration invalidates the previous video.
		sc.Video = ""
		if sc.VideoPrompt == "" {
			sc.VideoPrompt = tmpl.VideoPromptSuggestion(cur.ProductName, cur.Brief, style)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("scene image regenerated",
		slog.String("session_id", id),
		slog.Int("scene_id", sceneID),
	)
	return updated, nil
}

// GenerateVideo animates a scene's image through an asynchronous provider
// job, polling it to completion. The scene must have an image; an auth or
// quota failure additionally flags the session for credential reselection.
func (s *Service) GenerateVideo(ctx context.Context, id string, sceneID int) (*Session, error) {
	sess, err := s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if sc.Busy() {
			return ErrSceneBusy
		}
		if sc.Image == "" {
			return ErrImageRequired
		}
		return sc.TransitionTo(scene.StatusGeneratingVideo)
	})
	if err != nil {
		if errors.Is(err, ErrImageRequired) {
			s.logger.Warn("video requested for scene without image",
				slog.String("session_id", id),
				slog.Int("scene_id", sceneID),
			)
		}
		return nil, err
	}

	sc := sess.SceneByID(sceneID)
	prompt := videoPrompt(sc.Script, sc.VideoPrompt, sess.BackgroundMusic)

	jobID, genErr := s.gen.CreateVideoJob(ctx, generator.VideoRequest{
		Prompt:          prompt,
		ImageBase64:     extractBase64Data(sc.Image),
		BackgroundMusic: sess.BackgroundMusic,
	})
	if genErr != nil {
		return s.failScene(ctx, id, sceneID, genErr)
	}

	s.logger.Info("video job submitted",
		slog.String("session_id", id),
		slog.Int("scene_id", sceneID),
		slog.String("job_id", jobID),
	)

	videoURL, pollErr := s.poller.AwaitCompletion(ctx, func(ctx context.Context) (poll.Result, error) {
		status, err := s.gen.VideoJobStatus(ctx, jobID)
		if err != nil {
			return poll.Result{}, err
		}
		switch status.State {
		case generator.JobStateSucceeded:
			return poll.Result{Done: true, Handle: status.VideoURL}, nil
		case generator.JobStateFailed:
			return poll.Result{Done: true, Failed: true, Detail: status.Detail}, nil
		default:
			return poll.Result{}, nil
		}
	})
	if pollErr != nil {
		return s.failScene(ctx, id, sceneID, pollErr)
	}

	videoURL = s.archiveVideo(ctx, id, sceneID, videoURL)

	updated, err := s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if err := sc.TransitionTo(scene.StatusCompleted); err != nil {
			return err
		}
		sc.Video = videoURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("scene video completed",
		slog.String("session_id", id),
		slog.Int("scene_id", sceneID),
	)
	return updated, nil
}

// UpdateVideoPrompt replaces a scene's animation prompt.
func (s *Service) UpdateVideoPrompt(ctx context.Context, id string, sceneID int, prompt string) (*Session, error) {
	return s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if sc.Busy() {
			return ErrSceneBusy
		}
		sc.VideoPrompt = prompt
		return nil
	})
}

// UpdateScript replaces a scene's voice-over script.
func (s *Service) UpdateScript(ctx context.Context, id string, sceneID int, script string) (*Session, error) {
	return s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if sc.Busy() {
			return ErrSceneBusy
		}
		sc.Script = script
		return nil
	})
}

// SelectStructure switches the session to another structure and resets all
// scenes to pending. Rejected while any generation is in flight.
func (s *Service) SelectStructure(ctx context.Context, id, structureID string) (*Session, error) {
	return s.repo.Update(ctx, id, func(cur *Session) error {
		for _, sc := range cur.Scenes {
			if sc.Busy() {
				return ErrSceneBusy
			}
		}
		cur.StructureID = scene.FindStructure(structureID).ID
		cur.ResetScenes()
		return nil
	})
}

// failScene marks one scene ERROR with the classified message and flags the
// session when the failure is credential-related.
func (s *Service) failScene(ctx context.Context, id string, sceneID int, cause error) (*Session, error) {
	msg := fault.MessageFor(cause)
	sessionLevel := false
	if fe := fault.As(cause); fe != nil {
		sessionLevel = fe.SessionLevel()
	}

	if _, uerr := s.repo.Update(ctx, id, func(cur *Session) error {
		sc := cur.SceneByID(sceneID)
		if sc == nil {
			return ErrSceneNotFound
		}
		if err := sc.Fail(msg); err != nil {
			return err
		}
		if sessionLevel {
			cur.CredentialsInvalid = true
		}
		return nil
	}); uerr != nil {
		return nil, uerr
	}

	s.logger.Error("scene generation failed",
		slog.String("session_id", id),
		slog.Int("scene_id", sceneID),
		slog.String("category", string(fault.CategoryOf(cause))),
		slog.String("error", cause.Error()),
	)
	return nil, cause
}

// writeScripts asks the script writer for voice-over lines, best-effort.
func (s *Service) writeScripts(ctx context.Context, structure scene.Structure, productName, brief string) []string {
	if s.scripts == nil {
		return nil
	}
	scripts, err := s.scripts.WriteScripts(ctx, structure, productName, brief)
	if err != nil {
		s.logger.Warn("script generation skipped",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(scripts) != len(structure.Scenes) {
		s.logger.Warn("script count mismatch",
			slog.Int("want", len(structure.Scenes)),
			slog.Int("got", len(scripts)),
		)
		return nil
	}
	return scripts
}

// archiveVideo copies the provider result into durable storage, returning
// the archived URL or, on any failure, the original provider URL.
func (s *Service) archiveVideo(ctx context.Context, id string, sceneID int, providerURL string) string {
	if s.archive == nil {
		return providerURL
	}

	resp, err := s.httpClient.Get(providerURL)
	if err != nil {
		s.logger.Warn("video archive download failed",
			slog.String("session_id", id),
			slog.Int("scene_id", sceneID),
			slog.String("error", err.Error()),
		)
		return providerURL
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("video archive download rejected",
			slog.String("session_id", id),
			slog.Int("status", resp.StatusCode),
		)
		return providerURL
	}

	key := fmt.Sprintf("sessions/%s/scene-%d.mp4", id, sceneID)
	url, err := s.archive.Store(ctx, key, resp.Body)
	if err != nil {
		s.logger.Warn("video archive store failed",
			slog.String("session_id", id),
			slog.Int("scene_id", sceneID),
			slog.String("error", err.Error()),
		)
		return providerURL
	}

	s.logger.Info("video archived",
		slog.String("session_id", id),
		slog.String("key", key),
	)
	return url
}

// validateAssets checks that every asset the structure requires is present,
// naming the first offending scene.
func validateAssets(structure scene.Structure, assets Assets) *fault.Error {
	for i, tmpl := range structure.Scenes {
		if ferr := validateTemplateAssets(tmpl, i+1, assets); ferr != nil {
			return ferr
		}
	}
	return nil
}

// validateTemplateAssets checks one scene's asset requirements.
func validateTemplateAssets(tmpl scene.Template, sceneID int, assets Assets) *fault.Error {
	if tmpl.Requires(scene.PartProduct) && assets.ProductPhoto == "" {
		return fault.Validation(fmt.Sprintf("scene %d (%s) requires a product photo", sceneID, tmpl.Title))
	}
	if tmpl.Requires(scene.PartModel) && assets.ModelPhoto == "" {
		return fault.Validation(fmt.Sprintf("scene %d (%s) requires a model photo", sceneID, tmpl.Title))
	}
	return nil
}

// referenceImages collects the raw base64 payloads the template needs.
func referenceImages(tmpl scene.Template, assets Assets) []string {
	var refs []string
	if tmpl.Requires(scene.PartProduct) && assets.ProductPhoto != "" {
		refs = append(refs, extractBase64Data(assets.ProductPhoto))
	}
	if tmpl.Requires(scene.PartModel) && assets.ModelPhoto != "" {
		refs = append(refs, extractBase64Data(assets.ModelPhoto))
	}
	return refs
}

// videoPrompt composes the full animation prompt: scene script, the editable
// animation direction, and the framing instructions the provider needs for a
// clean 9:16 clip.
func videoPrompt(script, animation string, backgroundMusic bool) string {
	base := "IMPORTANT INSTRUCTIONS: Ensure the video fills the entire 9:16 aspect ratio frame without any black bars or letterboxing. " +
		"Keep the motion natural, smooth, and focused on highlighting the product. Avoid cinematic transitions or heavy VFX."
	if backgroundMusic {
		base += " Add subtle, modern background music that complements the UGC style."
	} else {
		base += " Do not add background music or sound effects."
	}
	return fmt.Sprintf("Based on the provided image, create a short video clip. The voice-over script for this specific scene is: %q. The desired animation is: %q. %s", script, animation, base)
}

// extractBase64Data strips the data-URL prefix from an image, if present.
func extractBase64Data(image string) string {
	if idx := strings.Index(image, ","); idx >= 0 && strings.Contains(image[:idx], "base64") {
		return image[idx+1:]
	}
	return image
}
