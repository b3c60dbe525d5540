package scene

import (
	"errors"
	"strings"
	"testing"
)

func TestTransitionTo_LegalPath(t *testing.T) {
	s := &Scene{ID: 1, Status: StatusPending}

	steps := []Status{StatusGeneratingImage, StatusImageReady, StatusGeneratingVideo, StatusCompleted}
	for _, step := range steps {
		if err := s.TransitionTo(step); err != nil {
			t.Fatalf("TransitionTo(%s) from %s: %v", step, s.Status, err)
		}
	}
	if s.Status != StatusCompleted {
		t.Errorf("Status = %s, want %s", s.Status, StatusCompleted)
	}
}

func TestTransitionTo_Illegal(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"pending cannot complete directly", StatusPending, StatusCompleted},
		{"pending cannot become image ready", StatusPending, StatusImageReady},
		{"generating image cannot start video", StatusGeneratingImage, StatusGeneratingVideo},
		{"generating video cannot regress to image ready", StatusGeneratingVideo, StatusImageReady},
		{"completed cannot go pending", StatusCompleted, StatusPending},
		{"error cannot jump to completed", StatusError, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scene{ID: 1, Status: tt.from}
			if err := s.TransitionTo(tt.to); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("TransitionTo(%s) from %s = %v, want ErrInvalidTransition", tt.to, tt.from, err)
			}
		})
	}
}

func TestManualRegenerationTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"regenerate image from error", StatusError, StatusGeneratingImage},
		{"retry video from error", StatusError, StatusGeneratingVideo},
		{"regenerate image from image ready", StatusImageReady, StatusGeneratingImage},
		{"regenerate image from completed", StatusCompleted, StatusGeneratingImage},
		{"regenerate video from completed", StatusCompleted, StatusGeneratingVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scene{ID: 1, Status: tt.from, ErrorMessage: "previous failure"}
			if tt.from != StatusError {
				s.ErrorMessage = ""
			}
			if err := s.TransitionTo(tt.to); err != nil {
				t.Fatalf("TransitionTo(%s) from %s: %v", tt.to, tt.from, err)
			}
			if s.ErrorMessage != "" {
				t.Error("leaving ERROR must clear the previous message")
			}
		})
	}
}

func TestFail_RequiresMessage(t *testing.T) {
	s := &Scene{ID: 1, Status: StatusGeneratingImage}
	if err := s.Fail(""); !errors.Is(err, ErrEmptyErrorMessage) {
		t.Errorf("Fail(\"\") = %v, want ErrEmptyErrorMessage", err)
	}
	if err := s.TransitionTo(StatusError); !errors.Is(err, ErrEmptyErrorMessage) {
		t.Errorf("TransitionTo(ERROR) = %v, want ErrEmptyErrorMessage", err)
	}

	if err := s.Fail("provider rejected the request"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if s.Status != StatusError || s.ErrorMessage == "" {
		t.Errorf("after Fail: Status = %s, ErrorMessage = %q", s.Status, s.ErrorMessage)
	}
}

func TestFail_ReachableFromEveryNonTerminalState(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusGeneratingImage, StatusImageReady, StatusGeneratingVideo} {
		s := &Scene{ID: 1, Status: from}
		if err := s.Fail("boom"); err != nil {
			t.Errorf("Fail from %s: %v", from, err)
		}
	}
	// Terminal states do not fail in place.
	s := &Scene{ID: 1, Status: StatusCompleted}
	if err := s.Fail("boom"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fail from COMPLETED = %v, want ErrInvalidTransition", err)
	}
}

func TestStatus_Busy(t *testing.T) {
	busy := map[Status]bool{
		StatusPending:         false,
		StatusGeneratingImage: true,
		StatusImageReady:      false,
		StatusGeneratingVideo: true,
		StatusCompleted:       false,
		StatusError:           false,
	}
	for status, want := range busy {
		if got := status.Busy(); got != want {
			t.Errorf("%s.Busy() = %v, want %v", status, got, want)
		}
	}
}

func TestNewScenes(t *testing.T) {
	structure := FindStructure("product-showcase")

	scenes := NewScenes(structure)
	if len(scenes) != 4 {
		t.Fatalf("len(scenes) = %d, want 4", len(scenes))
	}
	for i, s := range scenes {
		if s.ID != i+1 {
			t.Errorf("scenes[%d].ID = %d, want %d", i, s.ID, i+1)
		}
		if s.Status != StatusPending {
			t.Errorf("scenes[%d].Status = %s, want PENDING", i, s.Status)
		}
		if s.Title == "" || s.Description == "" {
			t.Errorf("scenes[%d] missing title or description", i)
		}
		if s.Image != "" || s.Video != "" {
			t.Errorf("scenes[%d] must start without generated assets", i)
		}
	}
}

func TestCatalog(t *testing.T) {
	if len(Styles()) != 3 {
		t.Errorf("len(Styles()) = %d, want 3", len(Styles()))
	}

	if style := FindStyle("lifestyle-natural"); style.ID != "lifestyle-natural" {
		t.Errorf("FindStyle(lifestyle-natural) = %+v", style)
	}
	// Empty and unknown ids fall back to the first entry.
	if s := FindStyle(""); s.ID != "studio-premium" {
		t.Errorf("FindStyle(\"\") = %+v", s)
	}
	if s := FindStyle("nope"); s.ID != "studio-premium" {
		t.Errorf("FindStyle(nope) = %+v, want fallback", s)
	}

	structure := FindStructure("product-showcase")
	if !structure.RequiresPart(PartModel) {
		t.Error("product-showcase must require the model part (scene 4)")
	}
	if !structure.Scenes[3].Requires(PartModel) {
		t.Error("scene 4 must require the model part")
	}
	if structure.Scenes[0].Requires(PartModel) {
		t.Error("scene 1 must not require the model part")
	}
}

func TestTemplate_PromptBuilders(t *testing.T) {
	structure := FindStructure("")
	style := FindStyle("")

	for i, tmpl := range structure.Scenes {
		prompt := tmpl.ImagePrompt(style, "Botol Minum Aura", "fokus ke fitur insulasi")
		if prompt == "" {
			t.Fatalf("scene %d: empty image prompt", i+1)
		}
		for _, fragment := range []string{"Botol Minum Aura", style.Background} {
			if !strings.Contains(prompt, fragment) {
				t.Errorf("scene %d prompt missing %q", i+1, fragment)
			}
		}

		suggestion := tmpl.VideoPromptSuggestion("Botol Minum Aura", "fokus ke fitur insulasi", style)
		if !strings.Contains(suggestion, style.VideoMood) {
			t.Errorf("scene %d video suggestion missing style mood", i+1)
		}
	}
}
