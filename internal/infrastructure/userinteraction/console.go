package userinteraction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

var ErrNoInput = errors.New("no input provided")

type ConsoleUserInteraction struct {
	reader *bufio.Reader
	out    io.Writer
	logger output.LoggerPort
}

func NewConsoleUserInteraction(logger output.LoggerPort) *ConsoleUserInteraction {
	return NewConsoleWithIO(os.Stdin, color.Output, logger)
}

// NewConsoleWithIO is used by tests to capture the console.
func NewConsoleWithIO(in io.Reader, out io.Writer, logger output.LoggerPort) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{
		reader: bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

func (u *ConsoleUserInteraction) AskQuery(ctx context.Context) (string, error) {
	u.print(color.New(color.FgCyan, color.Bold), "🔍 BrowserUse Best Deal Finder\n")
	u.print(color.New(color.Reset), "Enter a product to search for: ")

	answer, err := u.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read user input: %w", err)
		}
		if answer == "" {
			return "", ErrNoInput
		}
	}

	return strings.TrimSpace(answer), nil
}

func (u *ConsoleUserInteraction) ShowSearchStart(ctx context.Context, query string) {
	u.print(color.New(color.FgCyan), "\n🔎 Searching for '%s'...\n", query)
}

func (u *ConsoleUserInteraction) ShowSiteStart(ctx context.Context, site entity.SiteTarget) {
	u.print(color.New(color.FgYellow), "  📱 Searching on %s...\n", site.Domain())
}

func (u *ConsoleUserInteraction) ShowSiteResult(ctx context.Context, report entity.SiteReport) {
	domain := report.Site.Domain()
	if report.Failed() {
		u.print(color.New(color.FgRed), "  ❌ Error searching %s: %s\n", domain, truncate(report.Err.Error(), 200))
		return
	}

	u.print(color.New(color.FgGreen), "  ✅ Found %d products on %s\n", report.Products, domain)
	if report.Dropped > 0 {
		u.print(color.New(color.Faint), "     (%d entries skipped)\n", report.Dropped)
	}
}

func (u *ConsoleUserInteraction) ShowBestDeals(ctx context.Context, result *entity.BestDealsResult) {
	if result == nil || len(result.BestProducts) == 0 {
		u.print(color.New(color.FgYellow), "\n😕 No products found.\n")
		return
	}

	u.print(color.New(color.FgMagenta, color.Bold), "\n🏆 Best Deals Found:\n")
	dim := color.New(color.Faint)
	for i, p := range result.BestProducts {
		u.print(color.New(color.Bold), "\n#%d: %s\n", i+1, p.Name)
		u.print(color.New(color.FgGreen), "  💰 Price: %s\n", formatPrice(p))
		u.print(dim, "  🌐 Website: %s\n", p.WebsiteSource)
		u.print(dim, "  🔗 URL: %s\n", p.URL)
		u.print(dim, "  ✅ Availability: %s\n", p.Availability)
	}
	u.print(dim, "\nTotal products found: %d\n", result.TotalProductsFound)
}

func (u *ConsoleUserInteraction) ShowSaved(ctx context.Context, path string) {
	u.print(color.New(color.FgCyan), "\n💾 Results saved to %s\n", path)
}

// print never fails the caller: text is made valid UTF-8 and write errors
// are only logged.
func (u *ConsoleUserInteraction) print(c *color.Color, format string, args ...any) {
	text := strings.ToValidUTF8(fmt.Sprintf(format, args...), "?")
	if _, err := c.Fprint(u.out, text); err != nil && u.logger != nil {
		u.logger.Warn("Console write failed", "error", err)
	}
}

func formatPrice(p entity.Product) string {
	if !p.HasPrice() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", p.Price)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
