package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/adapter/tool"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/input"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/service"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/config"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/browser/rod"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/llm/deepseek"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/logger"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/prompts"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/storage/jsonfile"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/userinteraction"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/agent"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/finder"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/normalizer"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/parser"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/ranker"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/usecase/search"

	"github.com/google/uuid"
)

type Container struct {
	Browser output.BrowserPort
	Logger  output.LoggerPort
	UI      output.UserInteractionPort
	Finder  input.DealFinder
	RunID   string

	rootLogger *logger.LoggerAdapter
}

// NewContainer wires the whole application for one run. runName only names
// the log file.
func NewContainer(ctx context.Context, cfg *config.Config, runName string) (*Container, error) {
	root, err := logger.NewLoggerAdapter(cfg.LogDir, runName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	runID := uuid.NewString()
	log := root.WithField("run_id", runID)

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Browser.Headless
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg, log)
	if err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	llm := newLLM(cfg.LLM, cfg.LLM.Model, log)
	var planner output.LLMPort
	if cfg.Agent.PlannerEnabled {
		planner = llm
		if cfg.LLM.PlannerModel != "" && cfg.LLM.PlannerModel != cfg.LLM.Model {
			planner = newLLM(cfg.LLM, cfg.LLM.PlannerModel, log)
		}
	}

	toolset := func(session output.BrowserContextPort) output.ToolRegistry {
		return service.NewToolRegistry(tool.BrowserTools(session, log)...)
	}
	runner := agent.New(llm, planner, toolset, log, agent.Prompts{
		System:  prompts.DefaultSystemPrompt,
		Planner: prompts.PlannerPrompt,
	})

	ui := userinteraction.NewConsoleUserInteraction(log)
	clock := time.Now

	orchestrator := search.New(
		browser,
		runner,
		prompts.NewTaskBuilder(prompts.SiteTaskTemplate, parser.MaxEntries),
		parser.New(log),
		normalizer.New(log, clock),
		jsonfile.NewArtifactStore(cfg.LogDir),
		ui,
		log,
		clock,
		search.Config{Sites: cfg.Sites, MaxSteps: cfg.Agent.MaxSteps},
	)

	dealFinder := finder.New(
		orchestrator,
		ranker.New(ranker.DefaultTopK),
		jsonfile.NewWriter(cfg.OutputFile, log),
		ui,
		log,
		clock,
		cfg.OutputFile,
	)

	log.Info("Container ready",
		"model", cfg.LLM.Model,
		"planner", cfg.Agent.PlannerEnabled,
		"sites", len(cfg.Sites),
		"maxSteps", cfg.Agent.MaxSteps,
	)

	return &Container{
		Browser:    browser,
		Logger:     log,
		UI:         ui,
		Finder:     dealFinder,
		RunID:      runID,
		rootLogger: root,
	}, nil
}

// Close releases Chrome first, then flushes and closes the log file.
func (c *Container) Close() error {
	var errs []error
	if c.Browser != nil {
		if err := c.Browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.rootLogger != nil {
		if err := c.rootLogger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newLLM(cfg config.LLMConfig, model string, log output.LoggerPort) output.LLMPort {
	llmCfg := deepseek.DefaultConfig(cfg.APIKey, model)
	if cfg.BaseURL != "" {
		llmCfg.BaseURL = cfg.BaseURL
	}
	llmCfg.Logger = log
	return deepseek.NewAdapter(llmCfg)
}
