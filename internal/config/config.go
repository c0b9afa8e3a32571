// Package config assembles the run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

var ErrMissingAPIKey = errors.New("DEEPSEEK_API_KEY environment variable not set")

const (
	DefaultBaseURL    = "https://api.deepseek.com/v1"
	DefaultModel      = "deepseek-chat"
	DefaultOutputFile = "best_prices.json"
	DefaultLogDir     = "log"
	DefaultMaxSteps   = 25
	DefaultTimeout    = 30 * time.Minute
)

// TargetWebsites is the fixed list of sites searched on every run, in order.
var TargetWebsites = []string{
	"https://www.jumia.com.eg/",
	"https://btech.com/",
}

type Config struct {
	LLM     LLMConfig
	Browser BrowserConfig
	Agent   AgentConfig

	Sites      []entity.SiteTarget
	OutputFile string
	LogDir     string
	RunTimeout time.Duration
}

type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	PlannerModel string
}

type BrowserConfig struct {
	Headless bool
}

type AgentConfig struct {
	MaxSteps       int
	PlannerEnabled bool
}

// Source is the subset of env.EnvService used to build a Config.
type Source interface {
	Get(key string) string
	GetWithDefault(key, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
}

func Load(src Source) (*Config, error) {
	model := src.GetWithDefault("DEEPSEEK_MODEL", DefaultModel)

	cfg := &Config{
		LLM: LLMConfig{
			APIKey:       src.Get("DEEPSEEK_API_KEY"),
			BaseURL:      src.GetWithDefault("DEEPSEEK_BASE_URL", DefaultBaseURL),
			Model:        model,
			PlannerModel: src.GetWithDefault("PLANNER_MODEL", model),
		},
		Browser: BrowserConfig{
			Headless: src.GetBool("BROWSER_HEADLESS", false),
		},
		Agent: AgentConfig{
			MaxSteps:       src.GetInt("AGENT_MAX_STEPS", DefaultMaxSteps),
			PlannerEnabled: src.GetBool("PLANNER_ENABLED", true),
		},
		Sites:      Sites(TargetWebsites),
		OutputFile: src.GetWithDefault("OUTPUT_FILE", DefaultOutputFile),
		LogDir:     src.GetWithDefault("LOG_DIR", DefaultLogDir),
		RunTimeout: time.Duration(src.GetInt("RUN_TIMEOUT_MINUTES", int(DefaultTimeout/time.Minute))) * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("AGENT_MAX_STEPS must be positive, got %d", c.Agent.MaxSteps)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("RUN_TIMEOUT_MINUTES must be positive, got %s", c.RunTimeout)
	}
	if len(c.Sites) == 0 {
		return errors.New("no target websites configured")
	}
	return nil
}

func Sites(urls []string) []entity.SiteTarget {
	sites := make([]entity.SiteTarget, 0, len(urls))
	for _, u := range urls {
		sites = append(sites, entity.SiteTarget{URL: u})
	}
	return sites
}
