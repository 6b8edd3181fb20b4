package core

// PlanAction enumerates what the planner decided a question requires.
type PlanAction string

const (
	ActionRetrieve         PlanAction = "retrieve"
	ActionSettlement       PlanAction = "calculate_settlement"
	ActionBearingCapacity  PlanAction = "calculate_bearing_capacity"
	ActionBoth             PlanAction = "both"
	ActionOutOfScope       PlanAction = "out_of_scope"
)

// Plan is the planner's structured decision for one question. It is created
// once per request and never mutated afterwards.
type Plan struct {
	Action            PlanAction         `json:"action"`
	Reasoning         string             `json:"reasoning,omitempty"`
	SearchQuery       string             `json:"search_query,omitempty"`
	Parameters        map[string]float64 `json:"parameters,omitempty"`
	MissingParameters []string           `json:"missing_parameters,omitempty"`
	RejectionReason   string             `json:"rejection_reason,omitempty"`
}

// IsCalculation reports whether the plan requires a calculation tool.
func (p *Plan) IsCalculation() bool {
	switch p.Action {
	case ActionSettlement, ActionBearingCapacity, ActionBoth:
		return true
	}
	return false
}

// ContextOrigin tags which search branch produced a retrieval candidate.
type ContextOrigin string

const (
	OriginVector  ContextOrigin = "vector"
	OriginKeyword ContextOrigin = "keyword"
)

// Context is an internal retrieval candidate before dedup and ranking.
type Context struct {
	SourceName string
	PageIndex  *int
	Text       string
	RawScore   float64
	Origin     ContextOrigin
}

// Citation is the externally visible projection of a ranked Context.
//
// ConfidenceScore is intentionally NOT on a uniform scale: vector matches
// carry a bounded similarity in [0,1] while keyword matches carry an
// unbounded lexical relevance score that is commonly above 1. Consumers must
// interpret scores above 1.0 as keyword-match strength and scores at or
// below 1.0 as semantic similarity. Normalizing across the two scales would
// change the meaning users rely on, so the engine never does it.
type Citation struct {
	SourceName      string  `json:"source_name"`
	PageIndex       *int    `json:"page_index,omitempty"`
	Content         string  `json:"content"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ToolStatus enumerates calculation tool outcomes.
type ToolStatus string

const (
	ToolStatusOK           ToolStatus = "ok"
	ToolStatusInvalidInput ToolStatus = "invalid_input"
	ToolStatusError        ToolStatus = "error"
)

// ToolResult captures one calculation tool invocation.
type ToolResult struct {
	ToolName string         `json:"tool_name"`
	Status   ToolStatus     `json:"status"`
	Output   map[string]any `json:"output,omitempty"`
	Detail   string         `json:"detail,omitempty"`
}

// BranchStatus records the outcome of one executor branch.
type BranchStatus string

const (
	BranchOK      BranchStatus = "ok"
	BranchFailed  BranchStatus = "failed"
	BranchSkipped BranchStatus = "skipped"
)

// ExecutionResult aggregates the outputs of the executor's branches. For
// action "both" a failure in one branch does not cancel the other, so both
// fields can be populated even when one branch failed.
type ExecutionResult struct {
	Citations       []Citation   `json:"citations"`
	ToolResult      *ToolResult  `json:"tool_result,omitempty"`
	RetrievalStatus BranchStatus `json:"retrieval_status"`
	ToolStatus      BranchStatus `json:"tool_status"`
}

// Answer is the final response returned to the caller.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Trace     *Trace     `json:"trace,omitempty"`
}
