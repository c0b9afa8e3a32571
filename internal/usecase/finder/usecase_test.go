package finder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/logger"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/ranker"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

type fakeSearcher struct {
	result *search.Result
	err    error
	terms  []string
}

func (f *fakeSearcher) Search(_ context.Context, term string) (*search.Result, error) {
	f.terms = append(f.terms, term)
	return f.result, f.err
}

type fakeWriter struct {
	written []*entity.BestDealsResult
	err     error
}

func (f *fakeWriter) Write(_ context.Context, r *entity.BestDealsResult) error {
	f.written = append(f.written, r)
	return f.err
}

type fakeUI struct {
	events []string
	shown  *entity.BestDealsResult
}

func (f *fakeUI) AskQuery(context.Context) (string, error) { return "", nil }
func (f *fakeUI) ShowSearchStart(_ context.Context, q string) {
	f.events = append(f.events, "start:"+q)
}
func (f *fakeUI) ShowSiteStart(context.Context, entity.SiteTarget)  {}
func (f *fakeUI) ShowSiteResult(context.Context, entity.SiteReport) {}
func (f *fakeUI) ShowBestDeals(_ context.Context, r *entity.BestDealsResult) {
	f.events = append(f.events, "deals")
	f.shown = r
}
func (f *fakeUI) ShowSaved(_ context.Context, path string) {
	f.events = append(f.events, "saved:"+path)
}

func products(prices ...float64) []entity.Product {
	out := make([]entity.Product, 0, len(prices))
	for i, p := range prices {
		out = append(out, entity.Product{Name: string(rune('A' + i)), URL: "https://x.com", Price: p})
	}
	return out
}

func newUseCase(s *fakeSearcher, w *fakeWriter, ui *fakeUI) *UseCase {
	return New(s, ranker.New(ranker.DefaultTopK), w, ui, logger.NewNop(), func() time.Time { return fixedNow }, "best_prices.json")
}

func TestFind_RanksAndWrites(t *testing.T) {
	s := &fakeSearcher{result: &search.Result{Products: products(50, 0, 10, 30, 20), Total: 5}}
	w := &fakeWriter{}
	ui := &fakeUI{}

	res, err := newUseCase(s, w, ui).Find(context.Background(), "  wireless mouse ")
	require.NoError(t, err)

	assert.Equal(t, []string{"wireless mouse"}, s.terms)
	assert.Equal(t, "wireless mouse", res.OriginalQuery)
	assert.Equal(t, []string{"wireless mouse"}, res.SearchTerms)
	assert.Equal(t, 5, res.TotalProductsFound)
	assert.Equal(t, fixedNow, res.Timestamp)

	require.Len(t, res.BestProducts, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{res.BestProducts[0].Price, res.BestProducts[1].Price, res.BestProducts[2].Price})

	require.Len(t, w.written, 1)
	assert.Same(t, res, w.written[0])
	assert.Equal(t, []string{"start:wireless mouse", "deals", "saved:best_prices.json"}, ui.events)
}

func TestFind_NoProducts(t *testing.T) {
	s := &fakeSearcher{result: &search.Result{Products: []entity.Product{}}}
	w := &fakeWriter{}

	res, err := newUseCase(s, w, &fakeUI{}).Find(context.Background(), "tv")
	require.NoError(t, err)

	assert.Empty(t, res.BestProducts)
	assert.NotNil(t, res.BestProducts)
	assert.Zero(t, res.TotalProductsFound)
	assert.Len(t, w.written, 1)
}

func TestFind_EmptyQuery(t *testing.T) {
	s := &fakeSearcher{}

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := newUseCase(s, &fakeWriter{}, &fakeUI{}).Find(context.Background(), q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Empty(t, s.terms)
}

func TestFind_SearchAborted(t *testing.T) {
	s := &fakeSearcher{err: context.DeadlineExceeded}
	w := &fakeWriter{}

	_, err := newUseCase(s, w, &fakeUI{}).Find(context.Background(), "tv")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, w.written)
}

func TestFind_WriteFailure(t *testing.T) {
	s := &fakeSearcher{result: &search.Result{Products: products(5), Total: 1}}
	w := &fakeWriter{err: errors.New("disk full")}
	ui := &fakeUI{}

	res, err := newUseCase(s, w, ui).Find(context.Background(), "tv")
	assert.ErrorContains(t, err, "save results: disk full")
	require.NotNil(t, res)
	assert.Nil(t, ui.shown)
}
