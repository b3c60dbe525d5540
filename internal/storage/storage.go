// Package storage archives generated videos to durable storage. Provider
// result URLs are short-lived, so completed videos are copied out to local
// disk or S3 and the session keeps the durable URL.
package storage

import (
	"context"
	"io"
)

// Archive stores video data under a key and returns a durable URL or path.
type Archive interface {
	// Store writes the data and returns where it can be fetched from.
	Store(ctx context.Context, key string, data io.Reader) (url string, err error)
}
