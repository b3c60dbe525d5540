package session

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnshyz/UGC/internal/fault"
	"github.com/arnshyz/UGC/internal/generator"
	"github.com/arnshyz/UGC/internal/poll"
	"github.com/arnshyz/UGC/internal/scene"
)

// stubGenerator implements generator.Generator with injectable behaviour
// and thread-safe call counting.
type stubGenerator struct {
	mu             sync.Mutex
	imageCalls     int
	videoCalls     int
	statusCalls    int
	generateImage  func(call int, req generator.ImageRequest) (string, error)
	createVideoJob func(req generator.VideoRequest) (string, error)
	videoJobStatus func(call int, jobID string) (generator.JobStatus, error)
}

func (g *stubGenerator) GenerateImage(_ context.Context, req generator.ImageRequest) (string, error) {
	g.mu.Lock()
	g.imageCalls++
	call := g.imageCalls
	g.mu.Unlock()
	if g.generateImage == nil {
		return "data:image/png;base64,stub", nil
	}
	return g.generateImage(call, req)
}

func (g *stubGenerator) CreateVideoJob(_ context.Context, req generator.VideoRequest) (string, error) {
	g.mu.Lock()
	g.videoCalls++
	g.mu.Unlock()
	if g.createVideoJob == nil {
		return "job-1", nil
	}
	return g.createVideoJob(req)
}

func (g *stubGenerator) VideoJobStatus(_ context.Context, jobID string) (generator.JobStatus, error) {
	g.mu.Lock()
	g.statusCalls++
	call := g.statusCalls
	g.mu.Unlock()
	if g.videoJobStatus == nil {
		return generator.JobStatus{State: generator.JobStateSucceeded, VideoURL: "https://v/1.mp4"}, nil
	}
	return g.videoJobStatus(call, jobID)
}

func (g *stubGenerator) counts() (images, videos, statuses int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.imageCalls, g.videoCalls, g.statusCalls
}

func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newTestService(gen *stubGenerator, opts ...Option) (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	poller := poll.New(poll.WithSleeper(instantSleep))
	svc := NewService(repo, gen, poller, slog.Default(), opts...)
	return svc, repo
}

func fullAssets() Assets {
	return Assets{
		ProductPhoto: "data:image/png;base64,cHJvZHVjdA==",
		ModelPhoto:   "data:image/jpeg;base64,bW9kZWw=",
	}
}

func createSession(t *testing.T, svc *Service, assets Assets) *Session {
	t.Helper()
	sess, err := svc.Create(context.Background(), CreateInput{
		ProductName:  "Glow Serum",
		Brief:        "fresh morning energy",
		ProductPhoto: assets.ProductPhoto,
		ModelPhoto:   assets.ModelPhoto,
	})
	require.NoError(t, err)
	return sess
}

func TestRunInitialBatch_MissingModelPhoto(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, Assets{ProductPhoto: "data:image/png;base64,cHJvZHVjdA=="})

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.Error(t, err)
	assert.Equal(t, fault.CategoryValidation, fault.CategoryOf(err))

	// No network call may happen on a validation failure.
	images, _, _ := gen.counts()
	assert.Zero(t, images)

	stored, err := svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Error)
	for _, sc := range stored.Scenes {
		assert.Equal(t, scene.StatusError, sc.Status)
		assert.NotEmpty(t, sc.ErrorMessage)
	}
}

func TestRunInitialBatch_Success_OrderPreserved(t *testing.T) {
	gen := &stubGenerator{
		generateImage: func(call int, req generator.ImageRequest) (string, error) {
			// Later scenes finish first to prove results land by position,
			// not by completion order.
			time.Sleep(time.Duration(5-call) * 10 * time.Millisecond)
			return "IMG::" + req.Prompt, nil
		},
	}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	updated, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	structure := updated.Structure()
	style := updated.Style()
	require.Len(t, updated.Scenes, len(structure.Scenes))

	for i, sc := range updated.Scenes {
		wantPrompt := structure.Scenes[i].ImagePrompt(style, updated.ProductName, updated.Brief)
		assert.Equal(t, scene.StatusImageReady, sc.Status)
		assert.Equal(t, "IMG::"+wantPrompt, sc.Image)
		assert.NotEmpty(t, sc.VideoPrompt)
		assert.Empty(t, sc.ErrorMessage)
	}

	images, _, _ := gen.counts()
	assert.Equal(t, len(structure.Scenes), images)
}

func TestRunInitialBatch_AuthFailure_AllOrNothing(t *testing.T) {
	gen := &stubGenerator{
		generateImage: func(call int, _ generator.ImageRequest) (string, error) {
			if call == 3 {
				return "", fault.FromResponse(401, []byte(`{"message":"invalid api key"}`))
			}
			return "data:image/png;base64,ok", nil
		},
	}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.Error(t, err)
	assert.Equal(t, fault.CategoryAuth, fault.CategoryOf(err))

	stored, err := svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.CredentialsInvalid)
	assert.NotEmpty(t, stored.Error)

	// Every scene fails with the same message; partial images are discarded.
	for _, sc := range stored.Scenes {
		assert.Equal(t, scene.StatusError, sc.Status)
		assert.Equal(t, stored.Error, sc.ErrorMessage)
		assert.Empty(t, sc.Image)
	}
}

func TestRegenerateImage_SceneLocal(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	gen.mu.Lock()
	gen.generateImage = func(_ int, _ generator.ImageRequest) (string, error) {
		return "", fault.RemoteJob("model overloaded")
	}
	gen.mu.Unlock()

	_, err = svc.RegenerateImage(context.Background(), sess.ID, 2)
	require.Error(t, err)

	stored, err := svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, scene.StatusError, stored.Scenes[1].Status)

	// Only the targeted scene is affected.
	assert.Equal(t, scene.StatusImageReady, stored.Scenes[0].Status)
	assert.Equal(t, scene.StatusImageReady, stored.Scenes[2].Status)
	assert.False(t, stored.CredentialsInvalid)
}

func TestRegenerateImage_BusyRejected(t *testing.T) {
	gen := &stubGenerator{}
	svc, repo := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := repo.Update(context.Background(), sess.ID, func(cur *Session) error {
		return cur.Scenes[0].TransitionTo(scene.StatusGeneratingImage)
	})
	require.NoError(t, err)

	_, err = svc.RegenerateImage(context.Background(), sess.ID, 1)
	assert.ErrorIs(t, err, ErrSceneBusy)
}

func TestGenerateVideo_SuccessAfterPendingPolls(t *testing.T) {
	gen := &stubGenerator{
		videoJobStatus: func(call int, _ string) (generator.JobStatus, error) {
			if call <= 2 {
				return generator.JobStatus{State: generator.JobStatePending}, nil
			}
			return generator.JobStatus{State: generator.JobStateSucceeded, VideoURL: "https://cdn/final.mp4"}, nil
		},
	}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	updated, err := svc.GenerateVideo(context.Background(), sess.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, scene.StatusCompleted, updated.Scenes[0].Status)
	assert.Equal(t, "https://cdn/final.mp4", updated.Scenes[0].Video)

	_, videos, statuses := gen.counts()
	assert.Equal(t, 1, videos)
	assert.Equal(t, 3, statuses)
}

func TestGenerateVideo_RemoteFailure(t *testing.T) {
	gen := &stubGenerator{
		videoJobStatus: func(_ int, _ string) (generator.JobStatus, error) {
			return generator.JobStatus{State: generator.JobStateFailed, Detail: "nsfw filter"}, nil
		},
	}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	_, err = svc.GenerateVideo(context.Background(), sess.ID, 1)
	require.Error(t, err)
	assert.Equal(t, fault.CategoryRemoteJob, fault.CategoryOf(err))

	stored, err := svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, scene.StatusError, stored.Scenes[0].Status)
	assert.False(t, stored.CredentialsInvalid)
}

func TestGenerateVideo_QuotaFlagsCredentials(t *testing.T) {
	gen := &stubGenerator{
		createVideoJob: func(_ generator.VideoRequest) (string, error) {
			return "", fault.FromResponse(429, []byte(`{"message":"rate limit exceeded"}`))
		},
	}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	_, err = svc.GenerateVideo(context.Background(), sess.ID, 1)
	require.Error(t, err)
	assert.Equal(t, fault.CategoryQuota, fault.CategoryOf(err))

	stored, err := svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.CredentialsInvalid)
	assert.Equal(t, scene.StatusError, stored.Scenes[0].Status)
}

func TestGenerateVideo_RequiresImage(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	// Scenes are still pending, no image exists yet.
	_, err := svc.GenerateVideo(context.Background(), sess.ID, 1)
	assert.ErrorIs(t, err, ErrImageRequired)

	_, videos, _ := gen.counts()
	assert.Zero(t, videos)
}

func TestGenerateVideo_PromptComposition(t *testing.T) {
	var captured generator.VideoRequest
	gen := &stubGenerator{
		createVideoJob: func(req generator.VideoRequest) (string, error) {
			captured = req
			return "job-1", nil
		},
	}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	_, err = svc.UpdateScript(context.Background(), sess.ID, 1, "Coba deh serum ini!")
	require.NoError(t, err)
	_, err = svc.UpdateVideoPrompt(context.Background(), sess.ID, 1, "slow pan across the bottle")
	require.NoError(t, err)

	_, err = svc.GenerateVideo(context.Background(), sess.ID, 1)
	require.NoError(t, err)

	assert.Contains(t, captured.Prompt, `"Coba deh serum ini!"`)
	assert.Contains(t, captured.Prompt, `"slow pan across the bottle"`)
	assert.Contains(t, captured.Prompt, "9:16 aspect ratio")
	assert.Contains(t, captured.Prompt, "Do not add background music")
	assert.NotContains(t, captured.ImageBase64, "data:")
}

func TestUpdateScript_BusyRejected(t *testing.T) {
	gen := &stubGenerator{}
	svc, repo := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := repo.Update(context.Background(), sess.ID, func(cur *Session) error {
		return cur.Scenes[0].TransitionTo(scene.StatusGeneratingImage)
	})
	require.NoError(t, err)

	_, err = svc.UpdateScript(context.Background(), sess.ID, 1, "new line")
	assert.ErrorIs(t, err, ErrSceneBusy)

	_, err = svc.UpdateVideoPrompt(context.Background(), sess.ID, 1, "new prompt")
	assert.ErrorIs(t, err, ErrSceneBusy)
}

func TestSelectStructure_ResetsScenes(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RunInitialBatch(context.Background(), sess.ID)
	require.NoError(t, err)

	updated, err := svc.SelectStructure(context.Background(), sess.ID, "")
	require.NoError(t, err)

	for _, sc := range updated.Scenes {
		assert.Equal(t, scene.StatusPending, sc.Status)
		assert.Empty(t, sc.Image)
	}
	assert.Empty(t, updated.Error)
}

func TestSceneNotFound(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	sess := createSession(t, svc, fullAssets())

	_, err := svc.RegenerateImage(context.Background(), sess.ID, 99)
	assert.ErrorIs(t, err, ErrSceneNotFound)

	_, err = svc.UpdateScript(context.Background(), sess.ID, 0, "x")
	assert.ErrorIs(t, err, ErrSceneNotFound)
}
