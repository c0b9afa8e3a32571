package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func sampleResult() *entity.BestDealsResult {
	return &entity.BestDealsResult{
		OriginalQuery: "gaming laptop",
		SearchTerms:   []string{"gaming laptop"},
		BestProducts: []entity.Product{{
			Name:          "Lenovo LOQ <15\">",
			URL:           "https://btech.com/loq?a=1&b=2",
			Price:         45999.5,
			WebsiteSource: "btech.com",
			SearchTerm:    "gaming laptop",
			Availability:  "Unknown",
			ExtractedAt:   ts,
		}},
		TotalProductsFound: 4,
		Timestamp:          ts,
	}
}

func TestEncode_Layout(t *testing.T) {
	data, err := Encode(sampleResult())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n  \"original_query\": \"gaming laptop\",\n  \"search_terms\": ["))
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, `"url": "https://btech.com/loq?a=1&b=2"`)
	assert.Contains(t, text, `"timestamp": "2026-10-17T09:30:00Z"`)
	assert.NotContains(t, text, `"image"`)

	order := []string{`"original_query"`, `"search_terms"`, `"best_products"`, `"total_products_found"`, `"timestamp"`}
	last := -1
	for _, key := range order {
		idx := strings.LastIndex(text, key)
		assert.Greater(t, idx, last, key)
		last = idx
	}
}

func TestEncode_EmptyListsAreArrays(t *testing.T) {
	data, err := Encode(&entity.BestDealsResult{OriginalQuery: "x", Timestamp: ts})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["best_products"])
	assert.Equal(t, []any{}, decoded["search_terms"])
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "best_prices.json")
	w := NewWriter(path, logger.NewNop())

	require.NoError(t, w.Write(context.Background(), sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded entity.BestDealsResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *sampleResult(), decoded)
}

func TestWriter_IdempotentAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "best_prices.json")
	w := NewWriter(path, logger.NewNop())

	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than nothing"), 0o644))

	require.NoError(t, w.Write(context.Background(), sampleResult()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), sampleResult()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(second), "stale")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriter_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	w := NewWriter(filepath.Join(blocker, "best_prices.json"), logger.NewNop())
	err := w.Write(context.Background(), sampleResult())
	assert.ErrorContains(t, err, "write ")
}

func TestArtifactStore_SaveScreenshot(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir)

	path, err := store.SaveScreenshot("20261017_093000_jumia.com.eg", &entity.Screenshot{Data: []byte{1, 2, 3}, Format: "jpeg"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20261017_093000_jumia.com.eg.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestArtifactStore_Rejects(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	_, err := store.SaveScreenshot("x", nil)
	assert.Error(t, err)
	_, err = store.SaveScreenshot("x", &entity.Screenshot{})
	assert.Error(t, err)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a_b_c", safeName("a/b:c"))
	assert.Equal(t, "artifact", safeName("  "))
}
