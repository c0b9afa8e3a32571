package output

import (
	"context"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

type ResultWriter interface {
	Write(ctx context.Context, result *entity.BestDealsResult) error
}

// ArtifactStore keeps auxiliary run files such as failure screenshots.
type ArtifactStore interface {
	SaveScreenshot(name string, shot *entity.Screenshot) (string, error)
}
