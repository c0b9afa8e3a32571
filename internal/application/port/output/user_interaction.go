package output

import (
	"context"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

type UserInteractionPort interface {
	AskQuery(ctx context.Context) (string, error)

	ShowSearchStart(ctx context.Context, query string)
	ShowSiteStart(ctx context.Context, site entity.SiteTarget)
	ShowSiteResult(ctx context.Context, report entity.SiteReport)
	ShowBestDeals(ctx context.Context, result *entity.BestDealsResult)
	ShowSaved(ctx context.Context, path string)
}
