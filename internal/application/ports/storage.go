package ports

import (
	"context"
	"io"
)

// AvatarStore persists avatar images in object storage and returns a
// publicly reachable URL.
type AvatarStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
