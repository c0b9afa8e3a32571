package output

import (
	"context"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

// AgentRunner drives an LLM-controlled agent inside one browsing session
// and returns whatever final result the agent settled on.
type AgentRunner interface {
	Run(ctx context.Context, session BrowserContextPort, task entity.AgentTask) (*entity.AgentRun, error)
}

// TaskPromptBuilder renders the natural-language task for one site search.
type TaskPromptBuilder interface {
	SiteTask(searchTerm, siteURL string) (string, error)
}
