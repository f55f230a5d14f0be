package media

import (
	"context"
	"io"
)

// ObjectStore puts an object under key and returns a URL clients can fetch it from.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
