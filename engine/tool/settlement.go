package tool

import (
	"fmt"
	"math"

	"github.com/geoassist/geoassist/engine/core"
)

const SettlementToolName = "settlement_calculator"

// CalculateSettlement computes immediate elastic settlement from an applied
// load and the soil's Young modulus: settlement = load / young_modulus.
// Inputs must be strictly positive; violations come back as invalid_input so
// the caller can ask the user to correct them.
func CalculateSettlement(load, youngModulus float64) *core.ToolResult {
	if load <= 0 {
		return invalidInput(SettlementToolName, "load must be positive (> 0)")
	}
	if youngModulus <= 0 {
		return invalidInput(SettlementToolName, "young_modulus must be positive (> 0)")
	}
	settlement := round4(load / youngModulus)
	return &core.ToolResult{
		ToolName: SettlementToolName,
		Status:   core.ToolStatusOK,
		Output: map[string]any{
			"settlement":    settlement,
			"load":          load,
			"young_modulus": youngModulus,
			"formula":       "settlement = load / young_modulus",
			"units":         "same units as load/young_modulus ratio",
		},
	}
}

func invalidInput(toolName, detail string) *core.ToolResult {
	return &core.ToolResult{
		ToolName: toolName,
		Status:   core.ToolStatusInvalidInput,
		Detail:   detail,
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func missingDetail(params []string) string {
	return fmt.Sprintf("missing required parameters: %v", params)
}
