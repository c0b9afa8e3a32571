// Package agent runs the ReAct tool-calling loop that drives one browsing
// session towards a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/application/port/output"
	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

var ErrMaxSteps = errors.New("agent step budget exhausted")

var _ output.AgentRunner = (*Runner)(nil)

const (
	DefaultMaxSteps   = 25
	maxObservationLen = 20000
)

// ToolsetFactory binds a fresh tool registry to a session.
type ToolsetFactory func(session output.BrowserContextPort) output.ToolRegistry

type Prompts struct {
	System  string
	Planner string
}

type Runner struct {
	llm     output.LLMPort
	planner output.LLMPort
	toolset ToolsetFactory
	logger  output.LoggerPort
	prompts Prompts
}

// New builds a runner. A nil planner disables the planning call.
func New(
	llm output.LLMPort,
	planner output.LLMPort,
	toolset ToolsetFactory,
	logger output.LoggerPort,
	prompts Prompts,
) *Runner {
	return &Runner{
		llm:     llm,
		planner: planner,
		toolset: toolset,
		logger:  logger,
		prompts: prompts,
	}
}

func (r *Runner) Run(ctx context.Context, session output.BrowserContextPort, task entity.AgentTask) (*entity.AgentRun, error) {
	maxSteps := task.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	for _, action := range task.InitialActions {
		if err := r.perform(ctx, session, action); err != nil {
			return nil, fmt.Errorf("initial action %s failed: %w", action.Type, err)
		}
	}

	tools := r.toolset(session)
	toolDefs := tools.Definitions()

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: r.prompts.System},
		{Role: entity.RoleUser, Content: task.Description},
	}

	if plan := r.plan(ctx, task.Description); plan != "" {
		messages = append(messages, entity.Message{
			Role:    entity.RoleUser,
			Content: "Suggested plan:\n" + plan,
		})
	}

	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.logger.Debug("Starting step", "step", step, "url", session.CurrentURL())

		resp, err := r.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			r.logger.Info("Agent answered without tools", "step", step)
			return &entity.AgentRun{
				Result: entity.TextResult(strings.TrimSpace(resp.Message.Content)),
				Steps:  step,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			if tc.Name == entity.ToolDone.String() {
				result, err := entity.ResultFromDoneCall(tc.Arguments)
				if err == nil {
					r.logger.Info("Agent finished", "step", step, "resultKind", result.Kind.String())
					return &entity.AgentRun{Result: result, Steps: step}, nil
				}
				r.logger.Warn("Rejected done call", "error", err)
				messages = append(messages, toolMessage(tc, "Error: "+err.Error()))
				continue
			}

			messages = append(messages, toolMessage(tc, r.executeTool(ctx, tools, tc)))
		}
	}

	return nil, fmt.Errorf("%w after %d steps", ErrMaxSteps, maxSteps)
}

func (r *Runner) perform(ctx context.Context, session output.BrowserContextPort, action entity.InitialAction) error {
	switch action.Type {
	case entity.ActionOpenTab:
		r.logger.Info("Opening tab", "url", action.URL)
		return session.Navigate(ctx, action.URL)
	default:
		return fmt.Errorf("unsupported action %q", action.Type)
	}
}

// plan asks the planner model for a short plan. Planning is advisory, so
// failures are logged and the run continues without one.
func (r *Runner) plan(ctx context.Context, task string) string {
	if r.planner == nil {
		return ""
	}

	resp, err := r.planner.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: r.prompts.Planner},
			{Role: entity.RoleUser, Content: task},
		},
		Temperature: 0.2,
	})
	if err != nil {
		r.logger.Warn("Planner request failed", "error", err)
		return ""
	}

	plan := strings.TrimSpace(resp.Message.Content)
	r.logger.Debug("Plan received", "plan", plan)
	return plan
}

func (r *Runner) executeTool(ctx context.Context, tools output.ToolRegistry, tc entity.ToolCall) string {
	tool, ok := tools.Get(entity.ToolName(tc.Name))
	if !ok {
		r.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
	}

	r.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		r.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error()
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	r.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}

func toolMessage(tc entity.ToolCall, content string) entity.Message {
	return entity.Message{
		Role:       entity.RoleTool,
		ToolCallID: tc.ID,
		Name:       tc.Name,
		Content:    content,
	}
}
