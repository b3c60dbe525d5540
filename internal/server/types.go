// Package server provides the HTTP server for the UGC generation API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// CreateSessionRequest is the HTTP request body for creating a session.
type CreateSessionRequest struct {
	// StructureID selects a scene structure; empty uses the default.
	StructureID string `json:"structureId"`
	// StyleID selects a prompt style; empty uses the default.
	StyleID string `json:"styleId"`
	// ProductName is used in every generated prompt.
	ProductName string `json:"productName" validate:"required"`
	// Brief is optional free-text direction.
	Brief string `json:"brief"`
	// ProductPhoto is the product image as a data URL.
	ProductPhoto string `json:"productPhoto" validate:"required"`
	// ModelPhoto is the model image as a data URL, required only by
	// structures containing model scenes.
	ModelPhoto string `json:"modelPhoto"`
	// BackgroundMusic toggles background music in generated videos.
	BackgroundMusic bool `json:"backgroundMusic"`
}

// GenerateVideoRequest is the optional HTTP request body for video
// generation. A non-empty prompt replaces the scene's animation prompt
// before the job is created.
type GenerateVideoRequest struct {
	Prompt string `json:"prompt"`
}

// UpdatePromptRequest is the HTTP request body for replacing a scene's
// animation prompt.
type UpdatePromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// UpdateScriptRequest is the HTTP request body for replacing a scene's
// voice-over script.
type UpdateScriptRequest struct {
	Script string `json:"script" validate:"required"`
}

// SelectStructureRequest is the HTTP request body for switching structures.
type SelectStructureRequest struct {
	StructureID string `json:"structureId" validate:"required"`
}

// AcceptedResponse is returned when work continues in the background.
type AcceptedResponse struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

// StructureResponse describes one scene structure from the catalog.
type StructureResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Scenes      []StructureSceneResponse `json:"scenes"`
}

// StructureSceneResponse describes one scene slot within a structure.
type StructureSceneResponse struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	RequiredParts []string `json:"requiredParts"`
}
