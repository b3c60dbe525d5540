// Package session provides the generation session aggregate and the
// orchestration service that drives scenes from product photos to finished
// marketing videos through an external generation provider.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/arnshyz/UGC/internal/scene"
)

// Assets holds the uploaded source photos as data URLs.
type Assets struct {
	// ProductPhoto is required for every structure.
	ProductPhoto string `json:"productPhoto,omitempty"`
	// ModelPhoto is required only by structures with model scenes.
	ModelPhoto string `json:"modelPhoto,omitempty"`
}

// Session is the aggregate root for one generation workflow. It owns the
// scene list and the session-level error state.
type Session struct {
	ID          string `json:"id"`
	StructureID string `json:"structureId"`
	StyleID     string `json:"styleId"`
	ProductName string `json:"productName"`
	// Brief is optional free-text direction passed to prompt building.
	Brief           string         `json:"brief,omitempty"`
	Assets          Assets         `json:"assets"`
	BackgroundMusic bool           `json:"backgroundMusic"`
	Scenes          []*scene.Scene `json:"scenes"`
	// CredentialsInvalid is set when the provider rejects the credential
	// or reports quota exhaustion, signalling the operator to reconfigure.
	CredentialsInvalid bool      `json:"credentialsInvalid"`
	Error              string    `json:"error,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// New creates a session with pending scenes built from the structure.
// Unknown structure or style ids fall back to the catalog defaults.
func New(structureID, styleID, productName, brief string, assets Assets, backgroundMusic bool) *Session {
	structure := scene.FindStructure(structureID)
	style := scene.FindStyle(styleID)
	now := time.Now().UTC()

	return &Session{
		ID:              uuid.NewString(),
		StructureID:     structure.ID,
		StyleID:         style.ID,
		ProductName:     productName,
		Brief:           brief,
		Assets:          assets,
		BackgroundMusic: backgroundMusic,
		Scenes:          scene.NewScenes(structure),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Structure returns the session's scene structure from the catalog.
func (s *Session) Structure() scene.Structure {
	return scene.FindStructure(s.StructureID)
}

// Style returns the session's prompt style from the catalog.
func (s *Session) Style() scene.PromptStyle {
	return scene.FindStyle(s.StyleID)
}

// SceneByID returns the scene with the given id, or nil.
func (s *Session) SceneByID(sceneID int) *scene.Scene {
	for _, sc := range s.Scenes {
		if sc.ID == sceneID {
			return sc
		}
	}
	return nil
}

// ResetScenes replaces the scene list with fresh pending scenes for the
// structure and clears the session-level error.
func (s *Session) ResetScenes() {
	s.Scenes = scene.NewScenes(s.Structure())
	s.Error = ""
}

// Touch updates the modification timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Scenes = make([]*scene.Scene, len(s.Scenes))
	for i, sc := range s.Scenes {
		clone.Scenes[i] = sc.Clone()
	}
	return &clone
}
