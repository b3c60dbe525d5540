// Package script writes per-scene voice-over scripts with Gemini. The
// orchestrator treats this as a best-effort step: a failure here is logged
// and skipped, never propagated to scene state.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/arnshyz/UGC/internal/scene"
)

// ErrAPIKeyRequired is returned when the writer is built without an API key.
var ErrAPIKeyRequired = errors.New("script: Gemini API key is required")

// ErrNoScripts is returned when the model response carries no usable text.
var ErrNoScripts = errors.New("script: model response contained no scripts")

const defaultModel = "gemini-2.5-pro"

// GeminiWriter generates voice-over scripts through the Gemini API.
type GeminiWriter struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Option configures a GeminiWriter.
type Option func(*GeminiWriter)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(w *GeminiWriter) {
		if model != "" {
			w.model = model
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *GeminiWriter) {
		w.logger = logger
	}
}

// NewGeminiWriter creates a script writer backed by the Gemini API.
func NewGeminiWriter(ctx context.Context, apiKey string, opts ...Option) (*GeminiWriter, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("script: create Gemini client: %w", err)
	}

	w := &GeminiWriter{
		client: client,
		model:  defaultModel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close releases the underlying client.
func (w *GeminiWriter) Close() error {
	return w.client.Close()
}

// WriteScripts asks the model for one short voice-over line per scene and
// returns them in template order. Missing entries are left empty rather
// than failing the whole call.
func (w *GeminiWriter) WriteScripts(ctx context.Context, structure scene.Structure, productName, brief string) ([]string, error) {
	model := w.client.GenerativeModel(w.model)
	model.ResponseMIMEType = "application/json"

	prompt := buildPrompt(structure, productName, brief)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("script: generate content: %w", err)
	}

	raw := firstText(resp)
	if raw == "" {
		return nil, ErrNoScripts
	}

	// The model answers with {"scene1": "...", "scene2": "..."} keys.
	var keyed map[string]string
	if err := json.Unmarshal([]byte(raw), &keyed); err != nil {
		return nil, fmt.Errorf("script: decode model response: %w", err)
	}

	scripts := make([]string, len(structure.Scenes))
	found := 0
	for i := range structure.Scenes {
		if line, ok := keyed[fmt.Sprintf("scene%d", i+1)]; ok {
			scripts[i] = strings.TrimSpace(line)
			found++
		}
	}
	if found == 0 {
		return nil, ErrNoScripts
	}

	w.logger.Info("scene scripts generated",
		slog.Int("scenes", len(structure.Scenes)),
		slog.Int("scripts", found),
	)
	return scripts, nil
}

// buildPrompt lists the structure's scenes and asks for one conversational
// voice-over line each, keyed scene1..sceneN.
func buildPrompt(structure scene.Structure, productName, brief string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are writing a voice-over for a short vertical UGC marketing video about %q.", productName)
	if brief != "" {
		fmt.Fprintf(&b, " Additional brief: %s.", brief)
	}
	b.WriteString(" Write one short, natural, conversational Indonesian voice-over line per scene, one or two sentences each.")
	b.WriteString(" Respond with a JSON object whose keys are")
	for i := range structure.Scenes {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " \"scene%d\"", i+1)
	}
	b.WriteString(" and whose values are the lines.\nScenes:\n")
	for i, tmpl := range structure.Scenes {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, tmpl.Title, tmpl.Description)
	}
	return b.String()
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok && txt != "" {
				return string(txt)
			}
		}
	}
	return ""
}
