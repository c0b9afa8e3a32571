// Package search runs the browser agent against every configured site and
// turns what it reports into products.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/normalizer"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/parser"
)

const screenshotTimeout = 10 * time.Second

// Progress receives per-site updates while a search runs.
type Progress interface {
	ShowSiteStart(ctx context.Context, site entity.SiteTarget)
	ShowSiteResult(ctx context.Context, report entity.SiteReport)
}

// Result is the aggregate of one search over all sites.
type Result struct {
	Products []entity.Product
	// Total counts products that were successfully built, across all sites.
	Total   int
	Reports []entity.SiteReport
}

type Config struct {
	Sites    []entity.SiteTarget
	MaxSteps int
}

type Orchestrator struct {
	browser    output.BrowserPort
	agent      output.AgentRunner
	prompts    output.TaskPromptBuilder
	parser     *parser.ResponseParser
	normalizer *normalizer.ProductNormalizer
	artifacts  output.ArtifactStore
	progress   Progress
	logger     output.LoggerPort
	now        func() time.Time
	cfg        Config
}

func New(
	browser output.BrowserPort,
	agent output.AgentRunner,
	prompts output.TaskPromptBuilder,
	responseParser *parser.ResponseParser,
	productNormalizer *normalizer.ProductNormalizer,
	artifacts output.ArtifactStore,
	progress Progress,
	logger output.LoggerPort,
	now func() time.Time,
	cfg Config,
) *Orchestrator {
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		browser:    browser,
		agent:      agent,
		prompts:    prompts,
		parser:     responseParser,
		normalizer: productNormalizer,
		artifacts:  artifacts,
		progress:   progress,
		logger:     logger,
		now:        now,
		cfg:        cfg,
	}
}

// Search visits the sites sequentially in configured order. A failing site
// contributes nothing; only cancellation of ctx stops the loop early.
func (o *Orchestrator) Search(ctx context.Context, searchTerm string) (*Result, error) {
	result := &Result{Products: []entity.Product{}}

	for _, site := range o.cfg.Sites {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("search aborted before %s: %w", site.Domain(), err)
		}

		if o.progress != nil {
			o.progress.ShowSiteStart(ctx, site)
		}

		report, products := o.searchSite(ctx, site, searchTerm)
		result.Products = append(result.Products, products...)
		result.Total += len(products)
		result.Reports = append(result.Reports, report)

		if o.progress != nil {
			o.progress.ShowSiteResult(ctx, report)
		}

		if report.Failed() && ctx.Err() != nil {
			return result, fmt.Errorf("search aborted on %s: %w", site.Domain(), ctx.Err())
		}
	}

	o.logger.Info("Search finished", "term", searchTerm, "total", result.Total, "sites", len(o.cfg.Sites))
	return result, nil
}

func (o *Orchestrator) searchSite(ctx context.Context, site entity.SiteTarget, searchTerm string) (entity.SiteReport, []entity.Product) {
	domain := site.Domain()
	log := o.logger.WithFields(map[string]any{"site": domain, "term": searchTerm})
	report := entity.SiteReport{Site: site}

	agentResult, err := o.runAgent(ctx, site, searchTerm, log)
	if err != nil {
		log.Error("Error searching site", "error", err)
		report.Err = err
		return report, nil
	}

	entries := o.parser.Parse(agentResult)
	products, outcomes := o.normalizer.NormalizeAll(entries, domain, searchTerm)

	report.RawEntries = len(entries)
	report.Products = len(products)
	for _, oc := range outcomes {
		if oc.Skipped() {
			report.Dropped++
		}
	}

	log.Info("Site processed", "entries", report.RawEntries, "products", report.Products, "dropped", report.Dropped)
	return report, products
}

// runAgent owns the browsing context for one site: it is opened here and
// closed on every path.
func (o *Orchestrator) runAgent(ctx context.Context, site entity.SiteTarget, searchTerm string, log output.LoggerPort) (entity.AgentResult, error) {
	task, err := o.prompts.SiteTask(searchTerm, site.URL)
	if err != nil {
		return entity.AgentResult{}, fmt.Errorf("build task: %w", err)
	}

	session, err := o.browser.NewContext(ctx)
	if err != nil {
		return entity.AgentResult{}, fmt.Errorf("open browser context: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("Failed to close browser context", "error", cerr)
		}
	}()

	run, err := o.agent.Run(ctx, session, entity.AgentTask{
		Description:    task,
		InitialActions: []entity.InitialAction{{Type: entity.ActionOpenTab, URL: site.URL}},
		MaxSteps:       o.cfg.MaxSteps,
	})
	if err != nil {
		o.saveFailureScreenshot(ctx, session, site, log)
		return entity.AgentResult{}, err
	}
	if run == nil {
		return entity.AgentResult{}, errors.New("agent returned no run")
	}

	log.Info("Agent run completed", "steps", run.Steps, "resultKind", run.Result.Kind.String())
	return run.Result, nil
}

func (o *Orchestrator) saveFailureScreenshot(ctx context.Context, session output.BrowserContextPort, site entity.SiteTarget, log output.LoggerPort) {
	if o.artifacts == nil {
		return
	}

	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()

	shot, err := session.Screenshot(shotCtx)
	if err != nil {
		log.Warn("Failed to capture screenshot", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s", o.now().Format("20060102_150405"), site.Domain())
	path, err := o.artifacts.SaveScreenshot(name, shot)
	if err != nil {
		log.Warn("Failed to save screenshot", "error", err)
		return
	}
	log.Info("Screenshot saved", "path", path)
}
