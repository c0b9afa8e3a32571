// Package jsonfile persists run results and artifacts on the local filesystem.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

var _ output.ResultWriter = (*Writer)(nil)

// Writer stores a BestDealsResult as indented JSON. The file is replaced
// atomically, so readers never see a partial document.
type Writer struct {
	path   string
	logger output.LoggerPort
}

func NewWriter(path string, logger output.LoggerPort) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Write(_ context.Context, result *entity.BestDealsResult) error {
	data, err := Encode(result)
	if err != nil {
		return err
	}
	if err := writeAtomic(w.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	w.logger.Info("Results saved", "path", w.path, "bytes", len(data))
	return nil
}

// Encode renders the result with two-space indentation and a trailing newline.
func Encode(result *entity.BestDealsResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nil result")
	}
	if result.BestProducts == nil || result.SearchTerms == nil {
		cp := *result
		if cp.BestProducts == nil {
			cp.BestProducts = []entity.Product{}
		}
		if cp.SearchTerms == nil {
			cp.SearchTerms = []string{}
		}
		result = &cp
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
