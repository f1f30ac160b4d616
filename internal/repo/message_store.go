// Package repo implements the persistence layer: the file-backed contact
// message store and the GORM-backed idempotency records.
//
// This file provides MessageStore, which writes one self-describing JSON
// document per accepted contact submission and lists them back. Records are
// append-only: files are created with O_EXCL and never rewritten.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/portfolio-backend/internal/domain"
)

const (
	filePrefix   = "message_"
	fileExt      = ".json"
	maxNameRunes = 20
	dirPerm      = 0o755
	filePerm     = 0o644
)

// ErrRecordExists is returned when the derived filename is already taken.
var ErrRecordExists = errors.New("message record already exists")

// SkippedRecord describes a file that could not be parsed during List.
type SkippedRecord struct {
	Filename string
	Err      error
}

// MessageStore persists contact messages under a single directory.
type MessageStore struct {
	dir string

	// test seams
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewMessageStore returns a store rooted at dir. The directory is created on
// first write, not here.
func NewMessageStore(dir string) *MessageStore {
	return &MessageStore{
		dir:   filepath.Clean(dir),
		now:   time.Now,
		newID: uuid.NewV7,
	}
}

// Dir returns the storage directory.
func (s *MessageStore) Dir() string { return s.dir }

// Save writes msg as a new record and returns the filename it was stored
// under. SavedAt and ID are stamped at persistence time; Filename is never
// written into the document.
func (s *MessageStore) Save(ctx context.Context, msg domain.StoredMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", fmt.Errorf("create messages dir: %w", err)
	}

	saved := s.now().UTC()
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate record id: %w", err)
	}
	name := RecordFilename(saved, msg.Name, id)

	msg.SavedAt = domain.FormatTimestamp(saved)
	msg.ID = saved.UnixMilli()
	msg.Filename = ""

	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrRecordExists, name)
		}
		return "", fmt.Errorf("create message file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write message file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close message file: %w", err)
	}
	return name, nil
}

// List parses every *.json record in directory order. A missing directory
// yields an empty result. Files that fail to read or decode are reported in
// skipped and left out of the messages.
func (s *MessageStore) List(ctx context.Context) (msgs []domain.StoredMessage, skipped []SkippedRecord, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.StoredMessage{}, nil, nil
		}
		return nil, nil, fmt.Errorf("read messages dir: %w", err)
	}

	msgs = make([]domain.StoredMessage, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		b, rerr := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if rerr != nil {
			skipped = append(skipped, SkippedRecord{Filename: e.Name(), Err: rerr})
			continue
		}
		var m domain.StoredMessage
		if jerr := json.Unmarshal(b, &m); jerr != nil {
			skipped = append(skipped, SkippedRecord{Filename: e.Name(), Err: jerr})
			continue
		}
		m.Filename = e.Name()
		msgs = append(msgs, m)
	}
	return msgs, skipped, nil
}

// Writable reports whether the directory exists (or can be created) and
// accepts new files. Used by the readiness check.
func (s *MessageStore) Writable() error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// RecordFilename derives the record name:
// message_<timestamp with ':' and '.' replaced by '-'>_<name fragment>_<id>.json
func RecordFilename(t time.Time, name string, id uuid.UUID) string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(domain.FormatTimestamp(t))
	return filePrefix + ts + "_" + SafeNameFragment(name) + "_" + id.String() + fileExt
}

// SafeNameFragment folds accents, maps every character outside [A-Za-z0-9]
// to '_' and keeps at most 20 characters.
func SafeNameFragment(name string) string {
	folded, _, err := transform.String(foldAccents(), name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	n := 0
	for _, r := range folded {
		if n == maxNameRunes {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}

// foldAccents returns a fresh chain; transform.Chain is stateful.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
