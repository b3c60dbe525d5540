package scene

// Scene is one mutable unit of work, one per template position (1-indexed).
// It is created when a structure is selected or reset, mutated only by the
// orchestrator in response to dispatch outcomes, and never destroyed
// individually: the whole collection is replaced on structure change.
type Scene struct {
	// ID is the 1-indexed position within the structure.
	ID int `json:"id"`
	// Title and Description are copied from the template at creation.
	Title       string `json:"title"`
	Description string `json:"description"`
	// Image is the generated image handle (a data URL), empty until produced.
	Image string `json:"image,omitempty"`
	// Script is the optional voice-over script text for this scene.
	Script string `json:"script,omitempty"`
	// Video is the generated video handle (a URL), empty until produced.
	Video string `json:"video,omitempty"`
	// Status is the lifecycle state.
	Status Status `json:"status"`
	// ErrorMessage is set only while Status is ERROR.
	ErrorMessage string `json:"errorMessage,omitempty"`
	// VideoPrompt is seeded from the template's suggestion and editable by
	// the caller before video generation.
	VideoPrompt string `json:"videoPrompt,omitempty"`
}

// NewScenes builds the scene collection for a structure, every scene in
// PENDING state.
func NewScenes(structure Structure) []*Scene {
	scenes := make([]*Scene, len(structure.Scenes))
	for i, tmpl := range structure.Scenes {
		scenes[i] = &Scene{
			ID:          i + 1,
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Status:      StatusPending,
		}
	}
	return scenes
}

// TransitionTo moves the scene to a non-ERROR state. Transitions into ERROR
// must go through Fail so the message contract holds. Leaving ERROR clears
// the previous message.
func (s *Scene) TransitionTo(status Status) error {
	if status == StatusError {
		return ErrEmptyErrorMessage
	}
	if !canTransition(s.Status, status) {
		return ErrInvalidTransition
	}
	s.Status = status
	s.ErrorMessage = ""
	return nil
}

// Fail moves the scene to ERROR with a non-empty message.
func (s *Scene) Fail(message string) error {
	if message == "" {
		return ErrEmptyErrorMessage
	}
	if !canTransition(s.Status, StatusError) {
		return ErrInvalidTransition
	}
	s.Status = StatusError
	s.ErrorMessage = message
	return nil
}

// Busy reports whether an operation is in flight for this scene.
func (s *Scene) Busy() bool {
	return s.Status.Busy()
}

// Clone returns a copy for safe reads outside the repository lock.
func (s *Scene) Clone() *Scene {
	c := *s
	return &c
}
