package score

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// FileDB is a msgpack-encoded file of keyed high scores.
// Every Store obtained from the same FileDB shares one lock, so concurrent
// sessions never lose each other's writes.
type FileDB struct {
	mu   sync.Mutex
	path string
}

// Entry is one keyed score.
type Entry struct {
	Key   string
	Value float64
}

// OpenFile returns a FileDB backed by path. The file is created on first save.
func OpenFile(path string) *FileDB {
	return &FileDB{path: path}
}

// Store returns a Store bound to key.
func (db *FileDB) Store(key string) Store {
	return &fileStore{db: db, key: key}
}

// Top returns up to n entries ordered by value, highest first.
func (db *FileDB) Top(n int) ([]Entry, error) {
	db.mu.Lock()
	scores, err := db.read()
	db.mu.Unlock()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(scores))
	for k, v := range scores {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Key < entries[j].Key
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (db *FileDB) read() (map[string]float64, error) {
	data, err := os.ReadFile(db.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	scores := map[string]float64{}
	if len(data) == 0 {
		return scores, nil
	}
	if err := msgpack.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("decode scores %s: %w", db.path, err)
	}
	return scores, nil
}

func (db *FileDB) write(scores map[string]float64) error {
	data, err := msgpack.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	if dir := filepath.Dir(db.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create score dir: %w", err)
		}
	}
	// replace atomically
	tmp := db.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	if err := os.Rename(tmp, db.path); err != nil {
		return fmt.Errorf("replace scores: %w", err)
	}
	return nil
}

type fileStore struct {
	db  *FileDB
	key string
}

func (s *fileStore) Load() (float64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	scores, err := s.db.read()
	if err != nil {
		return 0, err
	}
	return scores[s.key], nil
}

func (s *fileStore) Save(v float64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	scores, err := s.db.read()
	if err != nil {
		return err
	}
	scores[s.key] = Round(v)
	return s.db.write(scores)
}
