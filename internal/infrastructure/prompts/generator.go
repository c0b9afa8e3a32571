package prompts

import (
	"fmt"
	"strings"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"

	"github.com/tmc/langchaingo/prompts"
)

var _ output.TaskPromptBuilder = (*TaskBuilder)(nil)

// TaskBuilder renders site search tasks from a Go-template prompt.
type TaskBuilder struct {
	template    prompts.PromptTemplate
	maxProducts int
}

func NewTaskBuilder(tmpl string, maxProducts int) *TaskBuilder {
	if tmpl == "" {
		tmpl = SiteTaskTemplate
	}
	return &TaskBuilder{
		template:    prompts.NewPromptTemplate(tmpl, []string{"search_term", "site_url", "max_products"}),
		maxProducts: maxProducts,
	}
}

func (b *TaskBuilder) SiteTask(searchTerm, siteURL string) (string, error) {
	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm == "" {
		return "", fmt.Errorf("search term is empty")
	}

	task, err := b.template.Format(map[string]any{
		"search_term":  searchTerm,
		"site_url":     siteURL,
		"max_products": b.maxProducts,
	})
	if err != nil {
		return "", fmt.Errorf("render site task: %w", err)
	}
	return task, nil
}
