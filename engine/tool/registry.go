package tool

import (
	"fmt"

	"github.com/geoassist/geoassist/engine/core"
)

// requiredParams maps each tool to the parameters it cannot run without.
var requiredParams = map[string][]string{
	SettlementToolName:      {"load", "young_modulus"},
	BearingCapacityToolName: {"B", "gamma", "Df", "phi"},
}

// ForAction resolves which tool a plan action invokes.
func ForAction(action core.PlanAction) (string, bool) {
	switch action {
	case core.ActionSettlement:
		return SettlementToolName, true
	case core.ActionBearingCapacity:
		return BearingCapacityToolName, true
	}
	return "", false
}

// MissingParams returns the required parameters absent from params, in the
// tool's declared order.
func MissingParams(toolName string, params map[string]float64) []string {
	var missing []string
	for _, name := range requiredParams[toolName] {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Call dispatches to the named calculator. Incomplete parameters come back
// as invalid_input rather than an error; calling a tool with defaults would
// silently fabricate an engineering input.
func Call(toolName string, params map[string]float64) *core.ToolResult {
	if missing := MissingParams(toolName, params); len(missing) > 0 {
		return invalidInput(toolName, missingDetail(missing))
	}
	switch toolName {
	case SettlementToolName:
		return CalculateSettlement(params["load"], params["young_modulus"])
	case BearingCapacityToolName:
		return CalculateBearingCapacity(params["B"], params["gamma"], params["Df"], params["phi"])
	default:
		return &core.ToolResult{
			ToolName: toolName,
			Status:   core.ToolStatusError,
			Detail:   fmt.Sprintf("unknown tool: %s", toolName),
		}
	}
}
