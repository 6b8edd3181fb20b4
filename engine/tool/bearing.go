package tool

import (
	"fmt"
	"sort"

	"github.com/geoassist/geoassist/engine/core"
)

const BearingCapacityToolName = "bearing_capacity_calculator"

const (
	minPhiAngle = 0
	maxPhiAngle = 40
)

// bearingCapacityFactors holds Terzaghi's Nc/Nq/Nr values at 5 degree steps.
// Values between tabulated angles are linearly interpolated.
var bearingCapacityFactors = map[int][3]float64{
	0:  {5.7, 1.0, 0.0},
	5:  {7.3, 1.6, 0.5},
	10: {9.6, 2.7, 1.2},
	15: {12.9, 4.4, 2.5},
	20: {17.7, 7.4, 5.0},
	25: {25.1, 12.7, 9.7},
	30: {37.2, 22.5, 19.7},
	35: {57.8, 41.4, 42.4},
	40: {95.7, 81.3, 100.4},
}

// CalculateBearingCapacity computes ultimate bearing capacity with the
// Terzaghi formula for cohesionless soil: q_ult = γ·Df·Nq + 0.5·γ·B·Nr.
// The Nc term drops out because cohesion is zero.
func CalculateBearingCapacity(b, gamma, df, phi float64) *core.ToolResult {
	if b <= 0 {
		return invalidInput(BearingCapacityToolName, "footing width B must be positive (> 0)")
	}
	if gamma <= 0 {
		return invalidInput(BearingCapacityToolName, "unit weight gamma must be positive (> 0)")
	}
	if df < 0 {
		return invalidInput(BearingCapacityToolName, "footing depth Df must be non-negative (>= 0)")
	}
	if phi < minPhiAngle || phi > maxPhiAngle {
		return invalidInput(BearingCapacityToolName,
			fmt.Sprintf("friction angle phi must be between %d and %d degrees", minPhiAngle, maxPhiAngle))
	}
	nc, nq, nr := bearingFactors(phi)
	overburden := round2(gamma * df * nq)
	width := round2(0.5 * gamma * b * nr)
	qUlt := round2(gamma*df*nq + 0.5*gamma*b*nr)
	return &core.ToolResult{
		ToolName: BearingCapacityToolName,
		Status:   core.ToolStatusOK,
		Output: map[string]any{
			"q_ultimate": qUlt,
			"inputs": map[string]any{
				"B":     b,
				"gamma": gamma,
				"Df":    df,
				"phi":   phi,
			},
			"factors": map[string]any{
				"Nc": nc,
				"Nq": nq,
				"Nr": nr,
			},
			"calculation_breakdown": map[string]any{
				"overburden_term": overburden,
				"width_term":      width,
				"total":           qUlt,
			},
			"formula": "q_ult = gamma*Df*Nq + 0.5*gamma*B*Nr",
			"units":   "kPa when gamma is in kN/m3",
		},
	}
}

// bearingFactors returns (Nc, Nq, Nr) for a friction angle inside the table
// range, interpolating linearly between the tabulated 5 degree steps.
func bearingFactors(phi float64) (float64, float64, float64) {
	if factors, ok := bearingCapacityFactors[int(phi)]; ok && phi == float64(int(phi)) {
		return factors[0], factors[1], factors[2]
	}
	angles := make([]int, 0, len(bearingCapacityFactors))
	for angle := range bearingCapacityFactors {
		angles = append(angles, angle)
	}
	sort.Ints(angles)
	lower, upper := angles[0], angles[len(angles)-1]
	for _, angle := range angles {
		if float64(angle) <= phi {
			lower = angle
		}
		if float64(angle) >= phi {
			upper = angle
			break
		}
	}
	if lower == upper {
		factors := bearingCapacityFactors[lower]
		return factors[0], factors[1], factors[2]
	}
	ratio := (phi - float64(lower)) / float64(upper-lower)
	lo := bearingCapacityFactors[lower]
	hi := bearingCapacityFactors[upper]
	return round2(lo[0] + ratio*(hi[0]-lo[0])),
		round2(lo[1] + ratio*(hi[1]-lo[1])),
		round2(lo[2] + ratio*(hi[2]-lo[2]))
}
