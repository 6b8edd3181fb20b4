package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/llm"
	"github.com/geoassist/geoassist/engine/tool"
	"github.com/geoassist/geoassist/pkg/logger"
)

// Planner maps a free-text question to a Plan via a structured model call.
// Every failure mode resolves to a terminal plan; Plan never returns an
// error to its caller.
type Planner struct {
	client      llm.Client
	temperature float64
	maxTokens   int
}

func NewPlanner(client llm.Client, temperature float64, maxTokens int) (*Planner, error) {
	if client == nil {
		return nil, errors.New("agent: planner llm client is required")
	}
	return &Planner{client: client, temperature: temperature, maxTokens: maxTokens}, nil
}

// planResponse mirrors the JSON contract of the planning prompt.
type planResponse struct {
	Action         string             `json:"action"`
	Reasoning      string             `json:"reasoning"`
	SearchQuery    string             `json:"search_query"`
	ToolParameters map[string]float64 `json:"tool_parameters"`
}

func (p *Planner) Plan(ctx context.Context, question string) *core.Plan {
	question = strings.TrimSpace(question)
	if question == "" {
		return &core.Plan{
			Action:          core.ActionOutOfScope,
			RejectionReason: "empty question",
		}
	}
	resp, err := p.client.GenerateContent(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(planningPrompt, question)},
		},
		Options: llm.Options{
			Temperature: p.temperature,
			MaxTokens:   p.maxTokens,
			UseJSONMode: true,
		},
	})
	if err != nil {
		logger.FromContext(ctx).Error("Planning call failed", "error", err)
		return planningFailure()
	}
	plan, err := parsePlan(resp.Content)
	if err != nil {
		logger.FromContext(ctx).Error("Planning response unparseable", "error", err)
		return planningFailure()
	}
	normalizePlan(plan, question)
	return plan
}

func planningFailure() *core.Plan {
	return &core.Plan{
		Action:          core.ActionOutOfScope,
		RejectionReason: "planning failure",
	}
}

func parsePlan(content string) (*core.Plan, error) {
	content = stripCodeFence(strings.TrimSpace(content))
	var resp planResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("agent: invalid plan JSON: %w", err)
	}
	action := core.PlanAction(resp.Action)
	switch action {
	case core.ActionRetrieve, core.ActionSettlement, core.ActionBearingCapacity,
		core.ActionBoth, core.ActionOutOfScope:
	default:
		return nil, fmt.Errorf("agent: unknown plan action %q", resp.Action)
	}
	plan := &core.Plan{
		Action:      action,
		Reasoning:   resp.Reasoning,
		SearchQuery: resp.SearchQuery,
		Parameters:  resp.ToolParameters,
	}
	if action == core.ActionOutOfScope && plan.RejectionReason == "" {
		plan.RejectionReason = resp.Reasoning
		if plan.RejectionReason == "" {
			plan.RejectionReason = "question is outside the knowledge base scope"
		}
	}
	return plan, nil
}

// normalizePlan derives missing_parameters from what the model extracted and
// defaults the search query to the raw question. Parameters the model did
// not extract stay missing; they are never defaulted.
func normalizePlan(plan *core.Plan, question string) {
	if plan.SearchQuery == "" {
		plan.SearchQuery = question
	}
	toolName, ok := plannedTool(plan)
	if !ok {
		return
	}
	plan.MissingParameters = tool.MissingParams(toolName, plan.Parameters)
}

// plannedTool resolves which calculator a plan targets. For action "both"
// the extracted parameters decide, the way the calculation half of a
// compound question is identified.
func plannedTool(plan *core.Plan) (string, bool) {
	if name, ok := tool.ForAction(plan.Action); ok {
		return name, true
	}
	if plan.Action != core.ActionBoth {
		return "", false
	}
	if _, ok := plan.Parameters["load"]; ok {
		return tool.SettlementToolName, true
	}
	if _, ok := plan.Parameters["young_modulus"]; ok {
		return tool.SettlementToolName, true
	}
	return tool.BearingCapacityToolName, true
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
