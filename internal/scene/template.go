package scene

// Part names an input image supplied by the caller.
type Part string

const (
	// PartProduct is the mandatory product photo.
	PartProduct Part = "product"
	// PartModel is the optional model photo.
	PartModel Part = "model"
)

// PromptStyle is an immutable visual style applied across a structure.
type PromptStyle struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Background     string `json:"background"`
	VisualTone     string `json:"visualTone"`
	VideoMood      string `json:"videoMood"`
	PromptSuffix   string `json:"promptSuffix,omitempty"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
}

// ImagePromptFunc builds the image prompt for one scene.
type ImagePromptFunc func(style PromptStyle, productName, brief string) string

// VideoPromptFunc builds the suggested animation prompt for one scene.
type VideoPromptFunc func(productName, brief string, style PromptStyle) string

// Template is the immutable definition of one scene slot. Templates are
// never mutated at runtime.
type Template struct {
	Title                 string
	Description           string
	ImagePrompt           ImagePromptFunc
	VideoPromptSuggestion VideoPromptFunc
	RequiredParts         []Part
}

// Requires reports whether the template needs the given asset part.
func (t Template) Requires(part Part) bool {
	for _, p := range t.RequiredParts {
		if p == part {
			return true
		}
	}
	return false
}

// Structure is an ordered, immutable sequence of scene templates.
type Structure struct {
	ID          string
	Name        string
	Description string
	Scenes      []Template
}

// RequiresPart reports whether any scene in the structure needs the part.
func (s Structure) RequiresPart(part Part) bool {
	for _, tmpl := range s.Scenes {
		if tmpl.Requires(part) {
			return true
		}
	}
	return false
}
