// Package parser extracts raw product entries from whatever an agent returned.
package parser

import (
	"encoding/json"
	"strings"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

// MaxEntries is the number of raw entries kept per agent result.
const MaxEntries = 10

// extractionStrategy pulls the entry list out of a decoded mapping.
type extractionStrategy struct {
	name    string
	extract func(m map[string]any) ([]any, bool)
}

func keyStrategy(key string) extractionStrategy {
	return extractionStrategy{
		name: key,
		extract: func(m map[string]any) ([]any, bool) {
			items, ok := m[key].([]any)
			return items, ok && len(items) > 0
		},
	}
}

var defaultStrategies = []extractionStrategy{
	keyStrategy("top_products"),
	keyStrategy("products"),
}

type ResponseParser struct {
	logger     output.LoggerPort
	strategies []extractionStrategy
}

func New(logger output.LoggerPort) *ResponseParser {
	return &ResponseParser{
		logger:     logger,
		strategies: defaultStrategies,
	}
}

// Parse never fails: anything it cannot understand yields no entries.
func (p *ResponseParser) Parse(result entity.AgentResult) []entity.RawEntry {
	var items []any

	switch result.Kind {
	case entity.ResultText:
		m, ok := p.decodeText(result.Text)
		if !ok {
			return nil
		}
		items = p.fromMapping(m)
	case entity.ResultMapping:
		items = p.fromMapping(result.Mapping)
	case entity.ResultSequence:
		items = result.Sequence
	default:
		p.logger.Warn("Agent returned no result")
		return nil
	}

	if len(items) > MaxEntries {
		p.logger.Debug("Discarding surplus entries", "found", len(items), "kept", MaxEntries)
		items = items[:MaxEntries]
	}

	entries := make([]entity.RawEntry, 0, len(items))
	for _, item := range items {
		record, _ := item.(map[string]any)
		entries = append(entries, entity.RawEntry(record))
	}
	return entries
}

func (p *ResponseParser) decodeText(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		p.logger.Warn("No JSON object found in agent response", "length", len(text))
		return nil, false
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		p.logger.Warn("Failed to decode agent response", "error", err)
		return nil, false
	}
	return m, true
}

func (p *ResponseParser) fromMapping(m map[string]any) []any {
	tried := make([]string, 0, len(p.strategies))
	for _, s := range p.strategies {
		if items, ok := s.extract(m); ok {
			p.logger.Debug("Extracted entries", "strategy", s.name, "count", len(items))
			return items
		}
		tried = append(tried, s.name)
	}
	p.logger.Warn("No product list in agent response", "tried", tried)
	return nil
}
