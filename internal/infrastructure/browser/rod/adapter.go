package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var (
	ErrInvalidURL             = errors.New("invalid URL")
	ErrInvalidSelector        = errors.New("invalid selector")
	ErrInvalidScrollDirection = errors.New("invalid scroll direction")
	ErrClosed                 = errors.New("browser closed")
)

const (
	defaultTimeout     = 15 * time.Second
	defaultSlowMotion  = 200 * time.Millisecond
	maxScreenshotWidth = 1024
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

// BrowserAdapter holds one Chrome process for the whole run and hands out
// incognito sessions on top of it.
type BrowserAdapter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   output.LoggerPort
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	// Bin overrides the Chrome binary; empty means auto-detect or download.
	Bin string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, logger output.LoggerPort) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("no-first-run").
		Set("no-default-browser-check")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	if logger != nil {
		logger.Info("Browser launched", "headless", cfg.Headless, "controlURL", controlURL)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		timeout:  cfg.Timeout,
		logger:   logger,
	}, nil
}

// NewContext opens an incognito browser context with a single blank page.
func (b *BrowserAdapter) NewContext(ctx context.Context) (output.BrowserContextPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	incognito, err := b.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		browser: incognito,
		page:    page,
		timeout: b.timeout,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.browser != nil
}

// Close shuts Chrome down and removes its temporary profile. Safe to call twice.
func (b *BrowserAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var err error
	if b.browser != nil {
		if cerr := b.browser.Close(); cerr != nil {
			err = fmt.Errorf("failed to close browser: %w", cerr)
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}

	if b.logger != nil {
		b.logger.Info("Browser closed")
	}
	return err
}
