// Package media talks to the remote media host that serves product
// images. The contract is narrow: upload a file and get back a public
// URL, or delete a previously uploaded object by its key.
package media

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned by the disabled storage when no media
// host credentials were provided at boot.
var ErrNotConfigured = errors.New("media storage is not configured")

type Storage interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Delete removes the object identified by key from the media host.
	Delete(ctx context.Context, key string) error
}

type disabledStorage struct{}

func (disabledStorage) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (disabledStorage) Delete(context.Context, string) error {
	return ErrNotConfigured
}

// Disabled returns a Storage that rejects every call. Used when the
// server boots without media-host credentials so catalog reads still work.
func Disabled() Storage {
	return disabledStorage{}
}
