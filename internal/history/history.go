// Package history keeps a local record of commits whose messages commitgen
// generated, grouped per repository under the user cache directory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one generated commit.
type Record struct {
	Hash           string    `json:"hash"`
	MessagePreview string    `json:"message_preview"`
	Timestamp      time.Time `json:"timestamp"`
}

// RepoHistory collects the records of a single repository.
type RepoHistory struct {
	RepoPath string   `json:"repo_path"`
	Commits  []Record `json:"commits"`
}

// Index maps known repositories to their history files.
type Index struct {
	Repos []IndexEntry `json:"repos"`
}

// IndexEntry names one tracked repository.
type IndexEntry struct {
	RepoPath    string `json:"repo_path"`
	HistoryFile string `json:"history_file"`
}

var (
	storageMu sync.Mutex
	basePath  string
)

// SetBasePath overrides the directory used for history data. Use only in
// tests; empty restores the user cache dir.
func SetBasePath(path string) {
	storageMu.Lock()
	defer storageMu.Unlock()
	basePath = path
}

func historyDir() (string, error) {
	storageMu.Lock()
	base := basePath
	storageMu.Unlock()

	if base == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(dir, "commitgen")
	}
	return filepath.Join(base, "history"), nil
}

// repoPathHash derives a stable file name for a repository path.
func repoPathHash(path string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return fmt.Sprintf("%016x", h.Sum64())
}

// RecordCommit appends a generated commit to the repository's history and
// registers the repository in the index when it is new.
func RecordCommit(repoPath, hash, messagePreview string) error {
	index, err := loadIndex()
	if err != nil {
		return err
	}

	registered := false
	for _, entry := range index.Repos {
		if entry.RepoPath == repoPath {
			registered = true
			break
		}
	}
	if !registered {
		index.Repos = append(index.Repos, IndexEntry{
			RepoPath:    repoPath,
			HistoryFile: repoPathHash(repoPath) + ".json",
		})
		if err := saveIndex(index); err != nil {
			return err
		}
	}

	repo, err := LoadRepo(repoPath)
	if err != nil {
		return err
	}
	repo.Commits = append(repo.Commits, Record{
		Hash:           hash,
		MessagePreview: messagePreview,
		Timestamp:      time.Now().UTC(),
	})
	return saveRepo(repo)
}

// LoadRepo reads the history of one repository; unknown repositories yield
// an empty history.
func LoadRepo(repoPath string) (*RepoHistory, error) {
	dir, err := historyDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, repoPathHash(repoPath)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &RepoHistory{RepoPath: repoPath}, nil
		}
		return nil, err
	}

	var repo RepoHistory
	if err := json.Unmarshal(data, &repo); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &repo, nil
}

// LoadIndex lists all tracked repositories.
func LoadIndex() (*Index, error) {
	return loadIndex()
}

func loadIndex() (*Index, error) {
	dir, err := historyDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "index.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Index{}, nil
		}
		return nil, err
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &index, nil
}

func saveIndex(index *Index) error {
	dir, err := historyDir()
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "index.json"), index)
}

func saveRepo(repo *RepoHistory) error {
	dir, err := historyDir()
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, repoPathHash(repo.RepoPath)+".json"), repo)
}

// writeJSON writes through a side file and renames it into place so a crash
// mid-write cannot corrupt existing history.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
