// This file provides small aggregate queries over the message directory used
// for conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// MessagesStats returns the number of *.json records in the store directory
// and the latest modification time among them. A missing directory yields
// (0, nil, nil).
func MessagesStats(ctx context.Context, s *MessageStore) (count int64, latest *time.Time, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("read messages dir: %w", err)
	}

	var newest time.Time
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, ierr := e.Info()
		if ierr != nil {
			// removed between ReadDir and Info
			continue
		}
		count++
		if mt := info.ModTime(); mt.After(newest) {
			newest = mt
		}
	}
	if count == 0 {
		return 0, nil, nil
	}
	return count, &newest, nil
}

// Stats is MessagesStats bound to s.
func (s *MessageStore) Stats(ctx context.Context) (int64, *time.Time, error) {
	return MessagesStats(ctx, s)
}
