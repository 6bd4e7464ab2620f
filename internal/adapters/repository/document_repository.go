package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/ports"
)

// DocumentRepository serves names out of the static HTML document directory
type DocumentRepository struct {
	dir string
}

// NewDocumentRepository creates a document repository rooted at dir
func NewDocumentRepository(dir string) (ports.DocumentRepository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve documents dir: %w", err)
	}
	return &DocumentRepository{dir: abs}, nil
}

func (r *DocumentRepository) Resolve(name string) (string, error) {
	if name == "" {
		return "", entities.ErrDocumentNotFound
	}

	path := filepath.Join(r.dir, name)
	rel, err := filepath.Rel(r.dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", entities.ErrDocumentNotFound
	}

	// Any stat failure means there is nothing servable under that name
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w (%v)", name, entities.ErrDocumentNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", name, entities.ErrDocumentNotFound)
	}

	return path, nil
}

func (r *DocumentRepository) Check() error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("documents dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("documents dir %s is not a directory", r.dir)
	}
	return nil
}
