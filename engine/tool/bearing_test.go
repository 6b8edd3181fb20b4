package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoassist/geoassist/engine/core"
)

func TestCalculateBearingCapacity(t *testing.T) {
	t.Run("ShouldUseExactTableFactorsAtTabulatedAngles", func(t *testing.T) {
		result := CalculateBearingCapacity(2, 18, 1.5, 30)
		require.Equal(t, core.ToolStatusOK, result.Status)
		factors := result.Output["factors"].(map[string]any)
		assert.Equal(t, 37.2, factors["Nc"])
		assert.Equal(t, 22.5, factors["Nq"])
		assert.Equal(t, 19.7, factors["Nr"])
	})

	t.Run("ShouldComputeTerzaghiFormula", func(t *testing.T) {
		// phi=30: q_ult = 18*1.5*22.5 + 0.5*18*2*19.7 = 607.5 + 354.6 = 962.1
		result := CalculateBearingCapacity(2, 18, 1.5, 30)
		require.Equal(t, core.ToolStatusOK, result.Status)
		assert.InDelta(t, 962.1, result.Output["q_ultimate"], 1e-9)
		breakdown := result.Output["calculation_breakdown"].(map[string]any)
		assert.InDelta(t, 607.5, breakdown["overburden_term"], 1e-9)
		assert.InDelta(t, 354.6, breakdown["width_term"], 1e-9)
	})

	t.Run("ShouldInterpolateBetweenTabulatedAngles", func(t *testing.T) {
		// Midway between phi=30 (Nq=22.5) and phi=35 (Nq=41.4).
		_, nq, nr := bearingFactors(32.5)
		assert.InDelta(t, 31.95, nq, 0.01)
		assert.InDelta(t, 31.05, nr, 0.01)
	})

	t.Run("ShouldInterpolateMonotonically", func(t *testing.T) {
		prevNq, prevNr := -1.0, -1.0
		for phi := 0.0; phi <= 40.0; phi += 0.5 {
			_, nq, nr := bearingFactors(phi)
			assert.GreaterOrEqual(t, nq, prevNq, "Nq must not decrease at phi=%.1f", phi)
			assert.GreaterOrEqual(t, nr, prevNr, "Nr must not decrease at phi=%.1f", phi)
			prevNq, prevNr = nq, nr
		}
	})

	t.Run("ShouldRejectPhiOutsideRange", func(t *testing.T) {
		result := CalculateBearingCapacity(2, 18, 1.5, 41)
		require.Equal(t, core.ToolStatusInvalidInput, result.Status)
		assert.Contains(t, result.Detail, "phi")

		result = CalculateBearingCapacity(2, 18, 1.5, -1)
		assert.Equal(t, core.ToolStatusInvalidInput, result.Status)
	})

	t.Run("ShouldRejectInvalidGeometry", func(t *testing.T) {
		assert.Equal(t, core.ToolStatusInvalidInput, CalculateBearingCapacity(0, 18, 1.5, 30).Status)
		assert.Equal(t, core.ToolStatusInvalidInput, CalculateBearingCapacity(2, 0, 1.5, 30).Status)
		assert.Equal(t, core.ToolStatusInvalidInput, CalculateBearingCapacity(2, 18, -0.1, 30).Status)
	})

	t.Run("ShouldAllowZeroDepth", func(t *testing.T) {
		result := CalculateBearingCapacity(2, 18, 0, 30)
		require.Equal(t, core.ToolStatusOK, result.Status)
		breakdown := result.Output["calculation_breakdown"].(map[string]any)
		assert.InDelta(t, 0.0, breakdown["overburden_term"], 1e-9)
	})
}

func TestCall(t *testing.T) {
	t.Run("ShouldReportMissingParameters", func(t *testing.T) {
		result := Call(BearingCapacityToolName, map[string]float64{"B": 3})
		require.Equal(t, core.ToolStatusInvalidInput, result.Status)
		assert.Contains(t, result.Detail, "gamma")
		assert.Contains(t, result.Detail, "Df")
		assert.Contains(t, result.Detail, "phi")
	})

	t.Run("ShouldDispatchToSettlement", func(t *testing.T) {
		result := Call(SettlementToolName, map[string]float64{"load": 1000, "young_modulus": 25000})
		require.Equal(t, core.ToolStatusOK, result.Status)
		assert.InDelta(t, 0.04, result.Output["settlement"], 1e-9)
	})

	t.Run("ShouldRejectUnknownTool", func(t *testing.T) {
		result := Call("pile_driver", nil)
		assert.Equal(t, core.ToolStatusError, result.Status)
	})
}
