package input

import (
	"context"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

type DealFinder interface {
	Find(ctx context.Context, query string) (*entity.BestDealsResult, error)
}
