// Package tool implements the browser tools the agent can call. Every tool is
// bound to a single browsing session.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/infrastructure/browser/htmlclean"
)

// MaxTextLen caps plain-text extraction.
const MaxTextLen = 40_000

// BrowserTools returns the full tool set for one session.
func BrowserTools(session output.BrowserContextPort, logger output.LoggerPort) []output.ToolPort {
	return []output.ToolPort{
		NewNavigateTool(session, logger),
		NewClickTool(session, logger),
		NewFillTool(session, logger),
		NewPressEnterTool(session, logger),
		NewScrollTool(session, logger),
		NewExtractTool(session, logger),
		NewUISummaryTool(session, logger),
		NewDoneTool(),
	}
}

func decodeArgs(args string, v any) error {
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

type NavigateTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
}

func NewNavigateTool(session output.BrowserContextPort, logger output.LoggerPort) *NavigateTool {
	return &NavigateTool{session: session, logger: logger}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolNavigate }
func (t *NavigateTool) Description() string {
	return "Opens an absolute URL in the current tab"
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"url": stringProp("Absolute http(s) URL to open"),
	}, "url")
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if err := t.session.Navigate(ctx, input.URL); err != nil {
		return "", err
	}
	return fmt.Sprintf("Navigated to %s", t.session.CurrentURL()), nil
}

type ClickTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
}

func NewClickTool(session output.BrowserContextPort, logger output.LoggerPort) *ClickTool {
	return &ClickTool{session: session, logger: logger}
}

func (t *ClickTool) Name() entity.ToolName { return entity.ToolClick }
func (t *ClickTool) Description() string   { return "Clicks an element by CSS or XPath selector" }
func (t *ClickTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"selector": stringProp("CSS selector, or XPath starting with /"),
	}, "selector")
}

func (t *ClickTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Selector string `json:"selector"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if err := t.session.Click(ctx, input.Selector); err != nil {
		return "", err
	}
	return fmt.Sprintf("Clicked %s, now at %s", input.Selector, t.session.CurrentURL()), nil
}

type FillTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
}

func NewFillTool(session output.BrowserContextPort, logger output.LoggerPort) *FillTool {
	return &FillTool{session: session, logger: logger}
}

func (t *FillTool) Name() entity.ToolName { return entity.ToolFill }
func (t *FillTool) Description() string   { return "Replaces the value of an input field with text" }
func (t *FillTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"selector": stringProp("CSS selector of the input"),
		"text":     stringProp("Text to type"),
	}, "selector", "text")
}

func (t *FillTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Selector string `json:"selector"`
		Text     string `json:"text"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if err := t.session.Fill(ctx, input.Selector, input.Text); err != nil {
		return "", err
	}
	return fmt.Sprintf("Filled '%s' with text", input.Selector), nil
}

type PressEnterTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
}

func NewPressEnterTool(session output.BrowserContextPort, logger output.LoggerPort) *PressEnterTool {
	return &PressEnterTool{session: session, logger: logger}
}

func (t *PressEnterTool) Name() entity.ToolName { return entity.ToolPressEnter }
func (t *PressEnterTool) Description() string   { return "Presses Enter in the focused element" }
func (t *PressEnterTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (t *PressEnterTool) Execute(ctx context.Context, _ string) (string, error) {
	if err := t.session.PressEnter(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Enter pressed, now at %s", t.session.CurrentURL()), nil
}

type ScrollTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
}

func NewScrollTool(session output.BrowserContextPort, logger output.LoggerPort) *ScrollTool {
	return &ScrollTool{session: session, logger: logger}
}

func (t *ScrollTool) Name() entity.ToolName { return entity.ToolScroll }
func (t *ScrollTool) Description() string   { return "Scrolls the page" }
func (t *ScrollTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"direction": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"up", "down", "top", "bottom"},
			"description": "Scroll direction",
		},
	}, "direction")
}

func (t *ScrollTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Direction string `json:"direction"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if err := t.session.Scroll(ctx, input.Direction); err != nil {
		return "", err
	}
	return fmt.Sprintf("Scrolled %s", input.Direction), nil
}

type ExtractTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
	clean   *htmlclean.Config
}

func NewExtractTool(session output.BrowserContextPort, logger output.LoggerPort) *ExtractTool {
	return &ExtractTool{session: session, logger: logger, clean: &htmlclean.DefaultConfig}
}

func (t *ExtractTool) Name() entity.ToolName { return entity.ToolExtract }
func (t *ExtractTool) Description() string {
	return "Returns the current page as cleaned HTML (links and image sources kept) or as plain text"
}
func (t *ExtractTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"html", "text"},
			"description": "html (default) or text",
		},
	})
}

func (t *ExtractTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Mode string `json:"mode"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(input.Mode)) {
	case "", "html":
		raw, err := t.session.GetPageHTML(ctx)
		if err != nil {
			return "", err
		}
		cleaned := htmlclean.Clean(raw, t.clean)
		t.logger.Debug("Page extracted", "mode", "html", "rawLen", len(raw), "cleanLen", len(cleaned))
		return cleaned, nil
	case "text":
		text, err := t.session.GetPageText(ctx)
		if err != nil {
			return "", err
		}
		return htmlclean.Truncate(text, MaxTextLen), nil
	default:
		return "", fmt.Errorf("unknown extract mode %q", input.Mode)
	}
}

type UISummaryTool struct {
	session output.BrowserContextPort
	logger  output.LoggerPort
}

func NewUISummaryTool(session output.BrowserContextPort, logger output.LoggerPort) *UISummaryTool {
	return &UISummaryTool{session: session, logger: logger}
}

func (t *UISummaryTool) Name() entity.ToolName { return entity.ToolUISummary }
func (t *UISummaryTool) Description() string {
	return "Lists visible inputs, buttons and links with selectors"
}
func (t *UISummaryTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (t *UISummaryTool) Execute(ctx context.Context, _ string) (string, error) {
	elements, err := t.session.GetUIElements(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DoneTool ends the run. The runner reads the result argument itself with
// entity.ResultFromDoneCall; Execute only checks that it decodes.
type DoneTool struct{}

func NewDoneTool() *DoneTool {
	return &DoneTool{}
}

func (t *DoneTool) Name() entity.ToolName { return entity.ToolDone }
func (t *DoneTool) Description() string {
	return "Finishes the task. Pass the final answer as result: a JSON object, array or string"
}
func (t *DoneTool) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"result": map[string]interface{}{
			"description": "Final answer, e.g. {\"top_products\": [...]}",
		},
	}, "result")
}

func (t *DoneTool) Execute(_ context.Context, args string) (string, error) {
	if _, err := entity.ResultFromDoneCall(args); err != nil {
		return "", err
	}
	return "Task complete", nil
}
