// Package blob stores uploaded media bytes. The API server variant
// writes to a local uploads directory by default and to an S3-compatible
// bucket when one is configured.
package blob

import "context"

// Sink writes one media object and returns the public URL it will be
// served from.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (url string, err error)
}
