package widget

import (
	"context"
	"fmt"
	"os"

	"github.com/christopherklint97/habitmap/internal/activity"
)

// Source supplies the raw activity-log payload.
type Source interface {
	Payload(ctx context.Context) ([]byte, error)
}

// FileSource reads the tracker file on every call. A missing file means no
// payload yet and returns (nil, nil).
type FileSource struct {
	Path    string
	RootKey string
}

func (f FileSource) Payload(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tracker file: %w", err)
	}
	return activity.Unwrap(data, f.RootKey), nil
}

// StaticSource serves a fixed payload.
type StaticSource []byte

func (s StaticSource) Payload(context.Context) ([]byte, error) {
	return s, nil
}
