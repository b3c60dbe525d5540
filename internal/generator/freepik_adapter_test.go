package generator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnshyz/UGC/internal/dispatch"
	"github.com/arnshyz/UGC/internal/freepik"
)

func newAdapter(t *testing.T, serverURL string) *FreepikAdapter {
	t.Helper()
	target := dispatch.NewTarget(serverURL)
	client, err := freepik.NewClient("test-key",
		freepik.WithImageTarget(target),
		freepik.WithVideoTarget(target),
	)
	require.NoError(t, err)
	return NewFreepikAdapter(client)
}

func TestFreepikAdapter_GenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"img"}]}`))
	}))
	defer server.Close()

	adapter := newAdapter(t, server.URL)
	image, err := adapter.GenerateImage(context.Background(), ImageRequest{Prompt: "hero"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,img", image)
}

func TestFreepikAdapter_VideoJobStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantState JobState
	}{
		{"pending", `{"data":{"status":"in_progress"}}`, JobStatePending},
		{"succeeded", `{"data":{"status":"completed","video_url":"https://v/1.mp4"}}`, JobStateSucceeded},
		{"failed", `{"data":{"status":"cancelled"}}`, JobStateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			adapter := newAdapter(t, server.URL)
			status, err := adapter.VideoJobStatus(context.Background(), "job-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, status.State)
		})
	}
}

func TestFreepikAdapter_CreateVideoJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"job-7"}}`))
	}))
	defer server.Close()

	adapter := newAdapter(t, server.URL)
	jobID, err := adapter.CreateVideoJob(context.Background(), VideoRequest{Prompt: "animate", ImageBase64: "frame"})
	require.NoError(t, err)
	assert.Equal(t, "job-7", jobID)
}
