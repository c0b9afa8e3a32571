// Package normalizer turns raw agent entries into validated products.
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

var (
	ErrNotARecord   = errors.New("entry is not a key/value record")
	ErrInvalidURL   = errors.New("invalid url")
	ErrInvalidPrice = errors.New("invalid price")
	ErrInvalidField = errors.New("invalid field")
)

const (
	defaultName         = "Unknown"
	defaultAvailability = "Unknown"
)

var priceRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Outcome is the result of normalizing one raw entry: a product, or the reason it was skipped.
type Outcome struct {
	Index   int
	Product *entity.Product
	Err     error
}

func (o Outcome) Skipped() bool {
	return o.Err != nil
}

type ProductNormalizer struct {
	logger output.LoggerPort
	now    func() time.Time
}

func New(logger output.LoggerPort, now func() time.Time) *ProductNormalizer {
	if now == nil {
		now = time.Now
	}
	return &ProductNormalizer{logger: logger, now: now}
}

// Normalize builds one Product from a raw entry and its search context.
func (n *ProductNormalizer) Normalize(entry entity.RawEntry, websiteSource, searchTerm string) (*entity.Product, error) {
	if entry == nil {
		return nil, ErrNotARecord
	}

	price, err := ParsePrice(entry["price"])
	if err != nil {
		return nil, err
	}

	name, err := stringField(entry, "name", defaultName)
	if err != nil {
		return nil, err
	}

	rawURL, err := stringField(entry, "url", "")
	if err != nil {
		return nil, err
	}
	if err := validateURL(rawURL); err != nil {
		return nil, fmt.Errorf("url %q: %w", rawURL, err)
	}

	image, err := imageField(entry)
	if err != nil {
		return nil, err
	}
	if image != "" {
		if err := validateURL(image); err != nil {
			return nil, fmt.Errorf("image %q: %w", image, err)
		}
	}

	description, err := stringField(entry, "description", "")
	if err != nil {
		return nil, err
	}

	availability, err := stringField(entry, "availability", defaultAvailability)
	if err != nil {
		return nil, err
	}

	return &entity.Product{
		Name:          name,
		URL:           rawURL,
		Price:         price,
		WebsiteSource: websiteSource,
		SearchTerm:    searchTerm,
		Image:         image,
		Description:   description,
		Availability:  availability,
		ExtractedAt:   n.now(),
	}, nil
}

// NormalizeAll normalizes every entry independently. Failed entries are
// logged and reported in the outcomes; they never stop the batch.
func (n *ProductNormalizer) NormalizeAll(entries []entity.RawEntry, websiteSource, searchTerm string) ([]entity.Product, []Outcome) {
	outcomes := make([]Outcome, 0, len(entries))
	for i, entry := range entries {
		product, err := n.Normalize(entry, websiteSource, searchTerm)
		outcomes = append(outcomes, Outcome{Index: i, Product: product, Err: err})
	}

	products := make([]entity.Product, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Skipped() {
			n.logger.Warn("Error creating product from entry",
				"site", websiteSource,
				"index", o.Index,
				"error", o.Err,
			)
			continue
		}
		products = append(products, *o.Product)
	}
	return products, outcomes
}

// ParsePrice reads a price from a raw value. Text yields its first number
// (thousands separators ignored) or 0 when there is none; numbers are used as is;
// absent values are 0.
func ParsePrice(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case bool:
		if !v {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: boolean true", ErrInvalidPrice)
	case string:
		match := priceRe.FindString(strings.ReplaceAll(v, ",", ""))
		if match == "" {
			return 0, nil
		}
		price, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, v, err)
		}
		return price, nil
	case float64:
		return checkNumber(v)
	case float32:
		return checkNumber(float64(v))
	case int:
		return checkNumber(float64(v))
	case int64:
		return checkNumber(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, v.String(), err)
		}
		return checkNumber(f)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidPrice, raw)
	}
}

func checkNumber(f float64) (float64, error) {
	if f < 0 {
		return 0, fmt.Errorf("%w: negative value %v", ErrInvalidPrice, f)
	}
	return f, nil
}

func stringField(entry entity.RawEntry, key, def string) (string, error) {
	raw, ok := entry[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be text, got %T", ErrInvalidField, key, raw)
	}
	return s, nil
}

func imageField(entry entity.RawEntry) (string, error) {
	for _, key := range []string{"image_url", "image"} {
		s, err := stringField(entry, key, "")
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
	}
	return "", nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
