package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/infra/monitoring"
	"github.com/geoassist/geoassist/engine/tool"
	"github.com/geoassist/geoassist/pkg/logger"
)

// Retriever is the slice of the hybrid retrieval engine the executor needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, trace *core.Trace) ([]core.Citation, error)
}

// Executor turns a Plan into an ExecutionResult. Retrieval and tool failures
// are absorbed here; the synthesizer still gets a result to work with.
type Executor struct {
	retriever Retriever
	metrics   *monitoring.Collector
}

func NewExecutor(ret Retriever, metrics *monitoring.Collector) (*Executor, error) {
	if ret == nil {
		return nil, errors.New("agent: executor retriever is required")
	}
	if metrics == nil {
		return nil, errors.New("agent: executor metrics collector is required")
	}
	return &Executor{retriever: ret, metrics: metrics}, nil
}

func (e *Executor) Execute(ctx context.Context, plan *core.Plan, question string, trace *core.Trace) (*core.ExecutionResult, error) {
	switch plan.Action {
	case core.ActionRetrieve:
		result := &core.ExecutionResult{ToolStatus: core.BranchSkipped}
		e.runRetrieval(ctx, plan, question, trace, result)
		return result, nil
	case core.ActionSettlement, core.ActionBearingCapacity:
		result := &core.ExecutionResult{RetrievalStatus: core.BranchSkipped}
		e.runCalculation(ctx, plan, result)
		return result, nil
	case core.ActionBoth:
		return e.runBoth(ctx, plan, question, trace)
	case core.ActionOutOfScope:
		return nil, errors.New("agent: executor must not run for out_of_scope plans")
	default:
		return nil, fmt.Errorf("agent: unknown plan action %q", plan.Action)
	}
}

// runBoth launches retrieval and the calculation as independent branches;
// one branch failing never cancels the other.
func (e *Executor) runBoth(ctx context.Context, plan *core.Plan, question string, trace *core.Trace) (*core.ExecutionResult, error) {
	result := &core.ExecutionResult{}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		e.runRetrieval(groupCtx, plan, question, trace, result)
		return nil
	})
	group.Go(func() error {
		e.runCalculation(groupCtx, plan, result)
		return nil
	})
	_ = group.Wait()
	return result, nil
}

func (e *Executor) runRetrieval(ctx context.Context, plan *core.Plan, question string, trace *core.Trace, result *core.ExecutionResult) {
	e.metrics.IncrementRetrievalCalls(ctx)
	query := plan.SearchQuery
	if query == "" {
		query = question
	}
	start := time.Now()
	citations, err := e.retriever.Retrieve(ctx, query, trace)
	result.Citations = citations
	switch {
	case err != nil:
		logger.FromContext(ctx).Warn("Retrieval failed, continuing without citations",
			"error", err, "duration", time.Since(start))
		result.Citations = []core.Citation{}
		result.RetrievalStatus = core.BranchFailed
	default:
		result.RetrievalStatus = core.BranchOK
	}
}

// runCalculation validates parameter completeness before touching the tool.
// Incomplete inputs short-circuit to a clarification result; no tool call is
// recorded in that case.
func (e *Executor) runCalculation(ctx context.Context, plan *core.Plan, result *core.ExecutionResult) {
	toolName, ok := plannedTool(plan)
	if !ok {
		result.ToolResult = &core.ToolResult{
			Status: core.ToolStatusInvalidInput,
			Detail: "cannot determine calculation type from extracted parameters",
		}
		result.ToolStatus = core.BranchFailed
		return
	}
	if len(plan.MissingParameters) > 0 {
		result.ToolResult = &core.ToolResult{
			ToolName: toolName,
			Status:   core.ToolStatusInvalidInput,
			Detail:   clarificationMessage + strings.Join(plan.MissingParameters, ", "),
		}
		result.ToolStatus = core.BranchFailed
		return
	}
	e.metrics.IncrementToolCalls(ctx)
	toolResult := tool.Call(toolName, plan.Parameters)
	result.ToolResult = toolResult
	if toolResult.Status == core.ToolStatusOK {
		result.ToolStatus = core.BranchOK
	} else {
		result.ToolStatus = core.BranchFailed
	}
}

// branchStatusToStep summarizes an execution result for the trace.
func branchStatusToStep(result *core.ExecutionResult) core.StepStatus {
	failed := result.RetrievalStatus == core.BranchFailed || result.ToolStatus == core.BranchFailed
	succeeded := result.RetrievalStatus == core.BranchOK || result.ToolStatus == core.BranchOK
	switch {
	case failed && succeeded:
		return core.StepDegraded
	case failed:
		return core.StepFailed
	default:
		return core.StepOK
	}
}
