package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ragdemo/internal/domain"
)

// Loader reads plain-text documents from a directory. Each .txt file becomes
// one document keyed by its filename stem.
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader creates a loader for the given corpus directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, log: slog.Default()}
}

// Load reads every .txt file in the directory as UTF-8 text, in filename
// order. Unreadable or non-UTF-8 files are skipped with a warning. Returns
// domain.ErrCorpusNotFound if the directory does not exist or yields no
// readable documents.
func (l *Loader) Load() ([]domain.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCorpusNotFound, l.dir)
	}
	var docs []domain.Document
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.log.Warn("skipping unreadable file", "path", path, "err", err)
			continue
		}
		if !utf8.Valid(data) {
			l.log.Warn("skipping non-UTF-8 file", "path", path)
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		docs = append(docs, domain.Document{ID: id, Path: path, Text: string(data)})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no readable .txt files in %s", domain.ErrCorpusNotFound, l.dir)
	}
	return docs, nil
}
