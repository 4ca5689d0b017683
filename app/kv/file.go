package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var (
	_ Store   = (*File)(nil)
	_ Watcher = (*File)(nil)
)

// File persists the whole keyspace as a single JSON document, the closest
// analog of browser local storage. Every mutation re-reads the document,
// applies the change and rewrites the file atomically (temp file + rename),
// so concurrent processes race with last-write-wins at file granularity.
type File struct {
	path   string
	logger *slog.Logger

	// mu keeps read-modify-write cycles of this process intact. It does not
	// and cannot coordinate other processes.
	mu sync.Mutex
}

func NewFile(path string, logger *slog.Logger) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &File{path: path, logger: logger}, nil
}

// load reads the current document. A missing or corrupt file yields an empty
// keyspace, consistent with the malformed-equals-absent contract.
func (f *File) load() map[string]json.RawMessage {
	doc := map[string]json.RawMessage{}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("storage file unreadable, treating as empty", slog.String("path", f.path), slog.Any("error", err))
		}
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		f.logger.Warn("storage file corrupt, treating as empty", slog.String("path", f.path), slog.Any("error", err))
		return map[string]json.RawMessage{}
	}
	return doc
}

func (f *File) flush(doc map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kelana-*")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(raw); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write temp storage file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.load()[key]
	if !ok {
		return nil, nil
	}
	return []byte(raw), nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.load()
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not JSON text", key)
	}
	doc[key] = json.RawMessage(value)
	return f.flush(doc)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.load()
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.flush(doc)
}

func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.load() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch emits an event whenever the storage file is replaced, including by
// other processes. The document is a single file, so events carry no key;
// consumers re-read what they need. Events may be coalesced or dropped.
func (f *File) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// Watch the directory: atomic rename replaces the file inode, so a watch
	// on the file itself would go stale after the first write.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch storage dir: %w", err)
	}

	events := make(chan Event, 1)
	base := filepath.Base(f.path)
	go func() {
		defer close(events)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) {
					continue
				}
				select {
				case events <- Event{}:
				default: // drop, consumers re-read on the next event
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("storage watch error", slog.Any("error", err))
			}
		}
	}()
	return events, nil
}

func (f *File) Close() error { return nil }
