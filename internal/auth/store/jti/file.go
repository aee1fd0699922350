package jti

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	id "linkboard/pkg/domain"
	"linkboard/pkg/platform/sentinel"
)

// FileRegistry keeps the whitelist in a JSON-lines file: one Entry per line.
// The file is the source of truth and may be shared by several processes (the
// server and tokengen): every operation re-reads it when its identity, size or
// mtime changed, under an advisory lock on a sibling ".lock" file. Inserts
// append and fsync; deletes rewrite from the on-disk content through a temp
// file and rename.
type FileRegistry struct {
	mu   sync.Mutex // one in-process holder of the flock at a time
	path string
	lock *flock.Flock

	cache map[string]Entry
	seen  os.FileInfo // stat of the file cache was loaded from; nil forces a reload
}

// OpenFile loads (or creates on first insert) the registry file at path.
func OpenFile(path string) (*FileRegistry, error) {
	r := &FileRegistry{
		path:  path,
		lock:  flock.New(path + ".lock"),
		cache: make(map[string]Entry),
	}
	if err := r.shared(func(map[string]Entry) error { return nil }); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRegistry) Insert(_ context.Context, entry Entry) error {
	return r.exclusive(func(entries map[string]Entry) error {
		if _, exists := entries[entry.JTI]; exists {
			return fmt.Errorf("insert jti %s: %w", entry.JTI, sentinel.ErrAlreadyUsed)
		}
		if err := r.append(entry); err != nil {
			return err
		}
		entries[entry.JTI] = entry
		return nil
	})
}

func (r *FileRegistry) Exists(_ context.Context, jti string) (bool, error) {
	var ok bool
	err := r.shared(func(entries map[string]Entry) error {
		_, ok = entries[jti]
		return nil
	})
	return ok, err
}

func (r *FileRegistry) Delete(_ context.Context, jti string) error {
	return r.exclusive(func(entries map[string]Entry) error {
		if _, ok := entries[jti]; !ok {
			return nil
		}
		remaining := make([]Entry, 0, len(entries)-1)
		for k, e := range entries {
			if k != jti {
				remaining = append(remaining, e)
			}
		}
		sortEntries(remaining)
		if err := r.rewrite(remaining); err != nil {
			return err
		}
		delete(entries, jti)
		return nil
	})
}

func (r *FileRegistry) ListByOwner(_ context.Context, owner id.UserID) ([]Entry, error) {
	var out []Entry
	err := r.shared(func(entries map[string]Entry) error {
		for _, e := range entries {
			if e.OwnerID == owner {
				out = append(out, e)
			}
		}
		return nil
	})
	sortEntries(out)
	return out, err
}

func (r *FileRegistry) shared(fn func(entries map[string]Entry) error) error {
	return r.locked(false, fn)
}

func (r *FileRegistry) exclusive(fn func(entries map[string]Entry) error) error {
	return r.locked(true, fn)
}

// locked runs fn against the current on-disk entries while holding the file
// lock. Writers update the cache in place; the file is then re-stated so the
// next call does not parse it again. A failed write drops the cache.
func (r *FileRegistry) locked(write bool, fn func(entries map[string]Entry) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if write {
		err = r.lock.Lock()
	} else {
		err = r.lock.RLock()
	}
	if err != nil {
		return fmt.Errorf("lock jti file: %w", err)
	}
	defer func() {
		_ = r.lock.Unlock()
	}()

	if err := r.refresh(); err != nil {
		return err
	}
	if err := fn(r.cache); err != nil {
		if write {
			r.seen = nil
		}
		return err
	}
	if write {
		info, err := os.Stat(r.path)
		if err != nil {
			r.seen = nil
			return nil
		}
		r.seen = info
	}
	return nil
}

// refresh reloads the cache unless the file is unchanged since the last load.
func (r *FileRegistry) refresh() error {
	info, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.cache = make(map[string]Entry)
		r.seen = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat jti file: %w", err)
	}
	if r.seen != nil && os.SameFile(r.seen, info) &&
		r.seen.Size() == info.Size() && r.seen.ModTime().Equal(info.ModTime()) {
		return nil
	}

	entries, err := readEntries(r.path)
	if err != nil {
		return err
	}
	r.cache = entries
	r.seen = info
	return nil
}

func readEntries(path string) (map[string]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jti file: %w", err)
	}
	defer f.Close()

	entries := make(map[string]Entry)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parse jti file line %d: %w", line, err)
		}
		entries[e.JTI] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jti file: %w", err)
	}
	return entries, nil
}

func (r *FileRegistry) append(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal jti entry: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open jti file: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("append jti: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync jti file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close jti file: %w", err)
	}
	return nil
}

// rewrite replaces the file atomically; a crash leaves either the old or the new content.
func (r *FileRegistry) rewrite(entries []Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create jti temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	w := bufio.NewWriter(tmp)
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			_ = tmp.Close()
			cleanup()
			return fmt.Errorf("marshal jti entry: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			_ = tmp.Close()
			cleanup()
			return fmt.Errorf("write jti temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("flush jti temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync jti temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close jti temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("replace jti file: %w", err)
	}
	return nil
}
