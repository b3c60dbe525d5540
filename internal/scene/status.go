// Package scene provides the per-scene unit of work: the lifecycle state
// machine, the scene entity, and the immutable template catalog a generation
// structure is built from.
package scene

import "errors"

// Status represents the lifecycle state of one scene.
type Status string

const (
	// StatusPending indicates the scene has no generated assets yet.
	StatusPending Status = "PENDING"
	// StatusGeneratingImage indicates an image request is in flight.
	StatusGeneratingImage Status = "GENERATING_IMAGE"
	// StatusImageReady indicates the scene holds a generated image.
	StatusImageReady Status = "IMAGE_READY"
	// StatusGeneratingVideo indicates a video job is in flight.
	StatusGeneratingVideo Status = "GENERATING_VIDEO"
	// StatusCompleted indicates the scene holds both image and video.
	StatusCompleted Status = "COMPLETED"
	// StatusError indicates the last operation on the scene failed.
	StatusError Status = "ERROR"
)

// Static errors for scene transitions.
var (
	// ErrInvalidTransition is returned when a transition is not allowed.
	ErrInvalidTransition = errors.New("scene: invalid state transition")
	// ErrEmptyErrorMessage is returned when entering ERROR without a message.
	ErrEmptyErrorMessage = errors.New("scene: transition to ERROR requires a non-empty message")
)

// validTransitions defines the legal lifecycle moves. COMPLETED and ERROR
// have no automatic exits; the entries out of them are the caller-triggered
// regeneration paths.
var validTransitions = map[Status][]Status{
	StatusPending:         {StatusGeneratingImage, StatusError},
	StatusGeneratingImage: {StatusImageReady, StatusError},
	StatusImageReady:      {StatusGeneratingVideo, StatusGeneratingImage, StatusError},
	StatusGeneratingVideo: {StatusCompleted, StatusError},
	StatusCompleted:       {StatusGeneratingImage, StatusGeneratingVideo},
	StatusError:           {StatusGeneratingImage, StatusGeneratingVideo},
}

// canTransition checks whether moving from one status to another is legal.
func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Busy reports whether an operation is in flight for this status. Busy
// scenes reject duplicate triggers.
func (s Status) Busy() bool {
	return s == StatusGeneratingImage || s == StatusGeneratingVideo
}
