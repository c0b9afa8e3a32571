package rod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserContextPort = (*Session)(nil)

// Session is one incognito browser context with its own page.
type Session struct {
	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	closed  bool
}

func (s *Session) activePage(ctx context.Context) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return s.page.Context(ctx).Timeout(s.timeout), nil
}

func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	if !isNavigableURL(rawURL) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	_ = page.WaitIdle(5 * time.Second)
	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	if page, err := s.activePage(ctx); err == nil {
		_ = page.WaitIdle(2 * time.Second)
	}
	return nil
}

func (s *Session) Fill(ctx context.Context, selector, text string) error {
	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}

	_ = el.SelectAllText()
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (s *Session) PressEnter(ctx context.Context) error {
	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	if err := page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	_ = page.WaitIdle(2 * time.Second)
	return nil
}

func (s *Session) Scroll(ctx context.Context, direction string) error {
	var script string
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "down":
		script = `() => window.scrollBy(0, window.innerHeight * 2)`
	case "up":
		script = `() => window.scrollBy(0, -window.innerHeight * 2)`
	case "top":
		script = `() => window.scrollTo(0, 0)`
	case "bottom":
		script = `() => window.scrollTo(0, document.body.scrollHeight)`
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScrollDirection, direction)
	}

	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	if _, err := page.Eval(script); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	_ = page.WaitIdle(800 * time.Millisecond)
	return nil
}

func (s *Session) GetPageHTML(ctx context.Context) (string, error) {
	page, err := s.activePage(ctx)
	if err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (s *Session) GetPageText(ctx context.Context) (string, error) {
	page, err := s.activePage(ctx)
	if err != nil {
		return "", err
	}

	body, err := page.Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}

	text, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get text: %w", err)
	}
	return text, nil
}

// uiElementsScript collects visible interactive elements and a CSS selector
// for each one, in a single round trip.
const uiElementsScript = `(max) => {
	const cssPath = (el) => {
		if (el.id) return '#' + CSS.escape(el.id);
		const parts = [];
		while (el && el.nodeType === 1 && el !== document.body) {
			let part = el.tagName.toLowerCase();
			const parent = el.parentElement;
			if (parent) {
				const same = Array.from(parent.children).filter(c => c.tagName === el.tagName);
				if (same.length > 1) part += ':nth-of-type(' + (same.indexOf(el) + 1) + ')';
			}
			parts.unshift(part);
			if (parent && parent.id) { parts.unshift('#' + CSS.escape(parent.id)); break; }
			el = parent;
		}
		return parts.join(' > ');
	};
	const groups = [
		['input', 'input:not([type=hidden]), textarea, select'],
		['button', 'button, [role=button], input[type=submit]'],
		['link', 'a[href]'],
	];
	const seen = new Set();
	const out = [];
	for (const [type, query] of groups) {
		for (const el of document.querySelectorAll(query)) {
			if (out.length >= max) break;
			if (seen.has(el)) continue;
			seen.add(el);
			const rect = el.getBoundingClientRect();
			if (rect.width === 0 || rect.height === 0) continue;
			const text = (el.innerText || el.value || el.placeholder || '').trim().slice(0, 120);
			out.push({
				id: 'ui-' + String(out.length).padStart(4, '0'),
				type: type,
				text: text,
				aria_label: el.getAttribute('aria-label') || '',
				role: el.getAttribute('role') || '',
				href: type === 'link' ? el.href : '',
				selector: cssPath(el),
			});
		}
	}
	return JSON.stringify(out);
}`

const maxUIElements = 300

func (s *Session) GetUIElements(ctx context.Context) ([]entity.UIElement, error) {
	page, err := s.activePage(ctx)
	if err != nil {
		return nil, err
	}

	res, err := page.Eval(uiElementsScript, maxUIElements)
	if err != nil {
		return nil, fmt.Errorf("failed to collect UI elements: %w", err)
	}

	var elements []entity.UIElement
	if err := json.Unmarshal([]byte(res.Value.Str()), &elements); err != nil {
		return nil, fmt.Errorf("failed to decode UI elements: %w", err)
	}
	return elements, nil
}

// Screenshot captures the viewport as JPEG, downscaled to maxScreenshotWidth.
func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := s.activePage(ctx)
	if err != nil {
		return nil, err
	}

	imgBytes, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ""
	}
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close disposes the incognito context and every page in it.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	return nil
}

func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, ErrInvalidSelector
	}

	page, err := s.activePage(ctx)
	if err != nil {
		return nil, err
	}

	var el *rod.Element
	if isXPathSelector(selector) {
		el, err = page.ElementX(selector)
	} else {
		el, err = page.Element(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	return el, nil
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

func isNavigableURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "file":
		return u.Path != ""
	default:
		return false
	}
}
