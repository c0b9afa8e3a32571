package output

import (
	"context"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

// BrowserPort owns the long-lived browser process.
type BrowserPort interface {
	// NewContext opens an isolated browsing session that shares no cookies
	// or history with other sessions.
	NewContext(ctx context.Context) (BrowserContextPort, error)
	Close() error
}

type BrowserContextPort interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	PressEnter(ctx context.Context) error
	Scroll(ctx context.Context, direction string) error

	GetPageHTML(ctx context.Context) (string, error)
	GetPageText(ctx context.Context) (string, error)
	GetUIElements(ctx context.Context) ([]entity.UIElement, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	CurrentURL() string
	Close() error
}
