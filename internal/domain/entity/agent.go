package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ResultKind discriminates the shape of an agent's final result.
type ResultKind int

const (
	ResultEmpty ResultKind = iota
	ResultText
	ResultMapping
	ResultSequence
)

func (k ResultKind) String() string {
	switch k {
	case ResultText:
		return "text"
	case ResultMapping:
		return "mapping"
	case ResultSequence:
		return "sequence"
	default:
		return "empty"
	}
}

// AgentResult is the final value produced by a browser agent run.
// Exactly one of Text, Mapping or Sequence is meaningful, selected by Kind.
type AgentResult struct {
	Kind     ResultKind
	Text     string
	Mapping  map[string]any
	Sequence []any
}

func TextResult(s string) AgentResult {
	return AgentResult{Kind: ResultText, Text: s}
}

func MappingResult(m map[string]any) AgentResult {
	return AgentResult{Kind: ResultMapping, Mapping: m}
}

func SequenceResult(items []any) AgentResult {
	return AgentResult{Kind: ResultSequence, Sequence: items}
}

// ResultFromJSON maps a JSON document onto the result variant matching its
// shape: strings become Text, objects Mapping, arrays Sequence and null Empty.
// Other scalars are kept as their literal text.
func ResultFromJSON(raw []byte) (AgentResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return AgentResult{}, nil
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return AgentResult{}, fmt.Errorf("decode result: %w", err)
	}

	switch val := v.(type) {
	case nil:
		return AgentResult{}, nil
	case string:
		return TextResult(val), nil
	case map[string]any:
		return MappingResult(val), nil
	case []any:
		return SequenceResult(val), nil
	default:
		return TextResult(string(trimmed)), nil
	}
}

// ResultFromDoneCall reads the "result" argument of a done tool call.
func ResultFromDoneCall(arguments string) (AgentResult, error) {
	if strings.TrimSpace(arguments) == "" {
		return AgentResult{}, nil
	}
	var call struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal([]byte(arguments), &call); err != nil {
		return AgentResult{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return ResultFromJSON(call.Result)
}

// RawEntry is an untyped key/value record taken from agent output before validation.
// A nil RawEntry marks a sequence element that was not a record.
type RawEntry map[string]any

type ActionType string

const (
	ActionOpenTab ActionType = "open_tab"
)

// InitialAction is performed by the agent before the first LLM call.
type InitialAction struct {
	Type ActionType
	URL  string
}

// AgentTask is one unit of work handed to the browser agent.
type AgentTask struct {
	Description    string
	InitialActions []InitialAction
	MaxSteps       int
}

// AgentRun describes a finished agent run.
type AgentRun struct {
	Result AgentResult
	Steps  int
}
