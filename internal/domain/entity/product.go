package entity

import (
	"strings"
	"time"
)

// Product is one listing found for a search term on one site.
type Product struct {
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Price         float64   `json:"price"`
	WebsiteSource string    `json:"website_source"`
	SearchTerm    string    `json:"search_term"`
	Image         string    `json:"image,omitempty"`
	Description   string    `json:"description,omitempty"`
	Availability  string    `json:"availability,omitempty"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// HasPrice reports whether the price was parsed to something meaningful.
// A zero price means the listing's price could not be read.
func (p Product) HasPrice() bool {
	return p.Price > 0
}

// BestDealsResult is the final output of one run.
type BestDealsResult struct {
	OriginalQuery      string    `json:"original_query"`
	SearchTerms        []string  `json:"search_terms"`
	BestProducts       []Product `json:"best_products"`
	TotalProductsFound int       `json:"total_products_found"`
	Timestamp          time.Time `json:"timestamp"`
}

// SiteTarget is a configured e-commerce site.
type SiteTarget struct {
	URL string
}

// Domain returns the host part of the site URL without scheme and "www." prefix.
func (s SiteTarget) Domain() string {
	return DomainOf(s.URL)
}

// DomainOf strips the scheme, everything after the first "/" and a leading "www.".
func DomainOf(siteURL string) string {
	rest := siteURL
	if _, after, ok := strings.Cut(rest, "//"); ok {
		rest = after
	}
	if host, _, ok := strings.Cut(rest, "/"); ok {
		rest = host
	}
	return strings.TrimPrefix(rest, "www.")
}

// SiteReport summarizes what happened while searching one site.
type SiteReport struct {
	Site       SiteTarget
	RawEntries int
	Products   int
	Dropped    int
	Err        error
}

// Failed reports whether the agent run for the site failed.
func (r SiteReport) Failed() bool {
	return r.Err != nil
}
