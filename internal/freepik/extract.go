package freepik

import (
	"strconv"
	"strings"
)

// The provider's response shapes are not perfectly stable, so result fields
// are located by trying a fixed, prioritized list of accessor paths. Paths
// are dot-separated; numeric segments index into arrays. First non-empty
// string wins.

// imagePaths locates the base64 image in an image-synthesis response.
var imagePaths = []string{
	"data.0.b64_json",
	"data.0.images.0.b64_json",
	"data.0.images.0.base64",
	"images.0.b64_json",
	"result.0.image_base64",
}

// jobIDPaths locates the job id in a video job-creation response.
var jobIDPaths = []string{
	"data.id",
	"id",
	"task_id",
}

// statusPaths locates the status string in a video status response.
var statusPaths = []string{
	"data.status",
	"status",
	"data.state",
}

// videoURLPaths locates the video URL in a successful status response.
var videoURLPaths = []string{
	"data.video_url",
	"data.result.video_url",
	"video_url",
}

// firstString evaluates the paths in order against a decoded JSON payload
// and returns the first non-empty string found.
func firstString(payload any, paths []string) string {
	for _, path := range paths {
		if v := lookupString(payload, path); v != "" {
			return v
		}
	}
	return ""
}

// lookupString walks one dot-separated path through nested maps and arrays.
func lookupString(payload any, path string) string {
	current := payload
	for _, seg := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return ""
			}
			current = node[idx]
		default:
			return ""
		}
	}
	s, _ := current.(string)
	return s
}
