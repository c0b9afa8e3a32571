package jsonfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

var _ output.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore writes diagnostic files next to the run log.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

func (s *ArtifactStore) SaveScreenshot(name string, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", fmt.Errorf("empty screenshot")
	}

	ext := "jpg"
	if f := strings.ToLower(shot.Format); f != "" && f != "jpeg" {
		ext = f
	}

	path := filepath.Join(s.dir, safeName(name)+"."+ext)
	if err := writeAtomic(path, shot.Data, 0o644); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	return path, nil
}

func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "artifact"
	}
	return name
}
