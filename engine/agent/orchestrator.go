package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/infra/monitoring"
	"github.com/geoassist/geoassist/pkg/logger"
)

// Phase names recorded in the trace. The machine is strictly forward
// progressing: PLANNING -> EXECUTING -> SYNTHESIZING -> DONE, with REJECTED
// terminal directly from PLANNING. No phase is ever revisited; retries only
// happen inside individual external calls.
const (
	phasePlanning  = "planning"
	phaseExecution = "execution"
	phaseSynthesis = "synthesis"
)

// Orchestrator sequences Planner, Executor and Synthesizer for one request
// and produces the structured trace. All failures resolve to a well-formed
// Answer; nothing in here is fatal to the process.
type Orchestrator struct {
	planner     *Planner
	executor    *Executor
	synthesizer *Synthesizer
	metrics     *monitoring.Collector
}

func NewOrchestrator(planner *Planner, executor *Executor, synthesizer *Synthesizer, metrics *monitoring.Collector) (*Orchestrator, error) {
	if planner == nil || executor == nil || synthesizer == nil {
		return nil, errors.New("agent: orchestrator requires planner, executor and synthesizer")
	}
	if metrics == nil {
		return nil, errors.New("agent: orchestrator requires a metrics collector")
	}
	return &Orchestrator{planner: planner, executor: executor, synthesizer: synthesizer, metrics: metrics}, nil
}

// Run executes the full workflow for one question.
func (o *Orchestrator) Run(ctx context.Context, question string) *core.Answer {
	requestID := uuid.NewString()
	trace := core.NewTrace(requestID)
	log := logger.FromContext(ctx).With("request_id", requestID)
	ctx = logger.ContextWithLogger(ctx, log)

	o.metrics.IncrementRequests(ctx)
	requestStart := time.Now()
	defer func() {
		o.metrics.RecordResponseTime(ctx, time.Since(requestStart))
	}()

	log.Info("Agent workflow started", "question_length", len(question))

	// PLANNING
	planStart := time.Now()
	plan := o.planner.Plan(ctx, question)
	planStatus := core.StepOK
	if plan.RejectionReason == "planning failure" {
		planStatus = core.StepDegraded
	}
	trace.Append(phasePlanning, planStart, planStatus, string(plan.Action))

	// REJECTED is terminal: the executor never runs, so the trace carries no
	// retrieval or tool steps for out-of-scope questions.
	if plan.Action == core.ActionOutOfScope {
		log.Info("Question rejected", "reason", plan.RejectionReason)
		// A genuine rejection is a correct answer; a planning failure that
		// degraded into a rejection is not.
		if planStatus == core.StepDegraded {
			o.metrics.IncrementFailed()
		} else {
			o.metrics.IncrementSuccessful()
		}
		return &core.Answer{
			Text:      rejectionText(plan),
			Citations: []core.Citation{},
			Trace:     trace,
		}
	}

	// EXECUTING
	execStart := time.Now()
	result, err := o.executor.Execute(ctx, plan, question, trace)
	if err != nil {
		// Only programmer errors reach here; external failures are absorbed
		// inside the executor.
		log.Error("Execution failed", "error", err)
		trace.Append(phaseExecution, execStart, core.StepFailed, err.Error())
		o.metrics.IncrementFailed()
		return &core.Answer{Text: fallbackMessage, Citations: []core.Citation{}, Trace: trace}
	}
	trace.Append(phaseExecution, execStart, branchStatusToStep(result), string(plan.Action))

	// SYNTHESIZING
	synthStart := time.Now()
	text := o.synthesizer.Synthesize(ctx, question, result)
	synthStatus := core.StepOK
	if text == fallbackMessage {
		synthStatus = core.StepDegraded
	}
	trace.Append(phaseSynthesis, synthStart, synthStatus, "")

	if synthStatus == core.StepOK {
		o.metrics.IncrementSuccessful()
	} else {
		o.metrics.IncrementFailed()
	}
	log.Info("Agent workflow finished",
		"citations", len(result.Citations),
		"duration", time.Since(requestStart))

	citations := result.Citations
	if citations == nil {
		citations = []core.Citation{}
	}
	return &core.Answer{Text: text, Citations: citations, Trace: trace}
}

// rejectionText picks the user-facing message for a terminal rejection.
func rejectionText(plan *core.Plan) string {
	switch plan.RejectionReason {
	case "empty question":
		return "Please enter a question."
	case "planning failure":
		return fallbackMessage
	default:
		reason := strings.TrimSpace(plan.RejectionReason)
		if reason != "" {
			return outOfScopeMessage + "\n\n(" + reason + ")"
		}
		return outOfScopeMessage
	}
}
