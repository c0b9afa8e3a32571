package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newNormalizer() *ProductNormalizer {
	return New(logger.NewNop(), func() time.Time { return fixedNow })
}

func TestNormalize_FullEntry(t *testing.T) {
	entry := entity.RawEntry{
		"name":         "Logitech M185 Wireless Mouse",
		"price":        "EGP 1,250.50",
		"url":          "https://www.jumia.com.eg/logitech-m185.html",
		"image_url":    "https://eg.jumia.is/m185.jpg",
		"description":  "Compact wireless mouse",
		"availability": "In stock",
	}

	p, err := newNormalizer().Normalize(entry, "jumia.com.eg", "wireless mouse")
	require.NoError(t, err)

	assert.Equal(t, entity.Product{
		Name:          "Logitech M185 Wireless Mouse",
		URL:           "https://www.jumia.com.eg/logitech-m185.html",
		Price:         1250.50,
		WebsiteSource: "jumia.com.eg",
		SearchTerm:    "wireless mouse",
		Image:         "https://eg.jumia.is/m185.jpg",
		Description:   "Compact wireless mouse",
		Availability:  "In stock",
		ExtractedAt:   fixedNow,
	}, *p)
}

func TestNormalize_Defaults(t *testing.T) {
	p, err := newNormalizer().Normalize(entity.RawEntry{"url": "https://btech.com/p/1"}, "btech.com", "tv")
	require.NoError(t, err)

	assert.Equal(t, "Unknown", p.Name)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "Unknown", p.Availability)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.Image)
}

func TestNormalize_NullTreatedAsAbsent(t *testing.T) {
	entry := entity.RawEntry{
		"name":         nil,
		"price":        nil,
		"url":          "https://btech.com/p/1",
		"image_url":    nil,
		"description":  nil,
		"availability": nil,
	}

	p, err := newNormalizer().Normalize(entry, "btech.com", "tv")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", p.Name)
	assert.Equal(t, "Unknown", p.Availability)
	assert.Equal(t, 0.0, p.Price)
}

func TestNormalize_ImageFallback(t *testing.T) {
	tests := []struct {
		name  string
		entry entity.RawEntry
		want  string
	}{
		{"prefers image_url", entity.RawEntry{"image_url": "https://a/1.jpg", "image": "https://a/2.jpg"}, "https://a/1.jpg"},
		{"falls back to image", entity.RawEntry{"image": "https://a/2.jpg"}, "https://a/2.jpg"},
		{"empty image_url falls back", entity.RawEntry{"image_url": "", "image": "https://a/2.jpg"}, "https://a/2.jpg"},
		{"none", entity.RawEntry{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.entry["url"] = "https://btech.com/p/1"
			p, err := newNormalizer().Normalize(tt.entry, "btech.com", "tv")
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Image)
		})
	}
}

func TestNormalize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		entry   entity.RawEntry
		wantErr error
	}{
		{"nil entry", nil, ErrNotARecord},
		{"missing url", entity.RawEntry{"name": "x"}, ErrInvalidURL},
		{"relative url", entity.RawEntry{"url": "/catalog/x.html"}, ErrInvalidURL},
		{"ftp url", entity.RawEntry{"url": "ftp://example.com/x"}, ErrInvalidURL},
		{"invalid image", entity.RawEntry{"url": "https://btech.com/x", "image_url": "img/x.jpg"}, ErrInvalidURL},
		{"url not text", entity.RawEntry{"url": 42.0}, ErrInvalidField},
		{"name not text", entity.RawEntry{"url": "https://btech.com/x", "name": 12.0}, ErrInvalidField},
		{"price object", entity.RawEntry{"url": "https://btech.com/x", "price": map[string]any{"amount": 1.0}}, ErrInvalidPrice},
		{"negative price", entity.RawEntry{"url": "https://btech.com/x", "price": -3.0}, ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newNormalizer().Normalize(tt.entry, "btech.com", "tv")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{"EGP 1,250.50", 1250.50},
		{"1,250.50 EGP", 1250.50},
		{"EGP 12,999", 12999},
		{"199.99", 199.99},
		{"Price: 450 EGP (was 600)", 450},
		{"12.", 12},
		{"", 0},
		{"Call for price", 0},
		{nil, 0},
		{false, 0},
		{0.0, 0},
		{149.5, 149.5},
		{300, 300},
		{json.Number("79.90"), 79.90},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.raw), func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAll_DropsOnlyBadEntries(t *testing.T) {
	entries := []entity.RawEntry{
		{"name": "good 1", "price": "100", "url": "https://btech.com/1"},
		{"name": "no url", "price": "50"},
		nil,
		{"name": "good 2", "price": 75.0, "url": "https://btech.com/2"},
	}

	products, outcomes := newNormalizer().NormalizeAll(entries, "btech.com", "tv")

	require.Len(t, products, 2)
	assert.Equal(t, "good 1", products[0].Name)
	assert.Equal(t, "good 2", products[1].Name)

	require.Len(t, outcomes, 4)
	assert.False(t, outcomes[0].Skipped())
	assert.ErrorIs(t, outcomes[1].Err, ErrInvalidURL)
	assert.ErrorIs(t, outcomes[2].Err, ErrNotARecord)
	assert.Equal(t, 3, outcomes[3].Index)
}

func TestProperty_PriceWithThousandsSeparators(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		whole := rapid.IntRange(0, 99_999_999).Draw(rt, "whole")
		cents := rapid.IntRange(0, 99).Draw(rt, "cents")
		currency := rapid.SampledFrom([]string{"EGP ", "E£", "$", "", "Price: "}).Draw(rt, "currency")

		text := fmt.Sprintf("%s%s.%02d", currency, withThousands(whole), cents)
		want, err := parseReference(fmt.Sprintf("%d.%02d", whole, cents))
		require.NoError(rt, err)

		got, err := ParsePrice(text)
		require.NoError(rt, err)
		assert.Equal(rt, want, got, "price text %q", text)
	})
}

func TestProperty_NonNumericTextIsZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[^0-9]{0,40}`).Draw(rt, "text")

		got, err := ParsePrice(text)
		require.NoError(rt, err)
		assert.Equal(rt, 0.0, got)
	})
}

func TestProperty_NormalizedPriceNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.OneOf(
			rapid.Map(rapid.String(), func(s string) any { return s }),
			rapid.Map(rapid.Float64Range(-1e6, 1e6), func(f float64) any { return f }),
		).Draw(rt, "price")

		p, err := newNormalizer().Normalize(entity.RawEntry{"price": raw, "url": "https://btech.com/x"}, "btech.com", "tv")
		if err != nil {
			assert.ErrorIs(rt, err, ErrInvalidPrice)
			return
		}
		assert.GreaterOrEqual(rt, p.Price, 0.0)
	})
}

func withThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func parseReference(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
