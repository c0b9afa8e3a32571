package finder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/input"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/ranker"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/search"
)

var ErrEmptyQuery = errors.New("search query is empty")

var _ input.DealFinder = (*UseCase)(nil)

type Searcher interface {
	Search(ctx context.Context, searchTerm string) (*search.Result, error)
}

type UseCase struct {
	searcher   Searcher
	ranker     *ranker.DealRanker
	writer     output.ResultWriter
	ui         output.UserInteractionPort
	logger     output.LoggerPort
	now        func() time.Time
	outputPath string
}

func New(
	searcher Searcher,
	dealRanker *ranker.DealRanker,
	writer output.ResultWriter,
	ui output.UserInteractionPort,
	logger output.LoggerPort,
	now func() time.Time,
	outputPath string,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		searcher:   searcher,
		ranker:     dealRanker,
		writer:     writer,
		ui:         ui,
		logger:     logger,
		now:        now,
		outputPath: outputPath,
	}
}

// Find searches every site for query, keeps the cheapest offers and
// persists them. The query itself is the only search term.
func (uc *UseCase) Find(ctx context.Context, query string) (*entity.BestDealsResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	uc.logger.Info("Search started", "query", query)
	uc.ui.ShowSearchStart(ctx, query)

	searchTerms := []string{query}
	found, err := uc.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	result := &entity.BestDealsResult{
		OriginalQuery:      query,
		SearchTerms:        searchTerms,
		BestProducts:       uc.ranker.Rank(found.Products),
		TotalProductsFound: found.Total,
		Timestamp:          uc.now(),
	}

	if err := uc.writer.Write(ctx, result); err != nil {
		return result, fmt.Errorf("save results: %w", err)
	}

	uc.logger.Info("Search completed",
		"query", query,
		"total", result.TotalProductsFound,
		"best", len(result.BestProducts),
	)

	uc.ui.ShowBestDeals(ctx, result)
	uc.ui.ShowSaved(ctx, uc.outputPath)
	return result, nil
}
