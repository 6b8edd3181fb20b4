package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/infra/monitoring"
)

// fakeRetriever returns canned citations or an error.
type fakeRetriever struct {
	citations []core.Citation
	err       error
	calls     int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, _ *core.Trace) ([]core.Citation, error) {
	f.calls++
	return f.citations, f.err
}

func newExecutor(t *testing.T, ret Retriever) (*Executor, *monitoring.Collector) {
	t.Helper()
	metrics := monitoring.NewCollector()
	exec, err := NewExecutor(ret, metrics)
	require.NoError(t, err)
	return exec, metrics
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("ShouldRefuseOutOfScopePlans", func(t *testing.T) {
		exec, _ := newExecutor(t, &fakeRetriever{})
		_, err := exec.Execute(context.Background(), &core.Plan{Action: core.ActionOutOfScope}, "q", nil)
		assert.Error(t, err)
	})

	t.Run("ShouldRunRetrievalOnly", func(t *testing.T) {
		ret := &fakeRetriever{citations: []core.Citation{{SourceName: "a.md", ConfidenceScore: 0.9}}}
		exec, metrics := newExecutor(t, ret)
		result, err := exec.Execute(context.Background(), &core.Plan{
			Action:      core.ActionRetrieve,
			SearchQuery: "consolidation",
		}, "q", nil)
		require.NoError(t, err)
		assert.Equal(t, core.BranchOK, result.RetrievalStatus)
		assert.Equal(t, core.BranchSkipped, result.ToolStatus)
		assert.Len(t, result.Citations, 1)
		assert.Nil(t, result.ToolResult)
		snap := metrics.Snapshot()
		assert.Equal(t, int64(1), snap.RetrievalCalls)
		assert.Zero(t, snap.ToolCalls)
	})

	t.Run("ShouldAbsorbRetrievalFailure", func(t *testing.T) {
		exec, _ := newExecutor(t, &fakeRetriever{err: errors.New("both branches down")})
		result, err := exec.Execute(context.Background(), &core.Plan{Action: core.ActionRetrieve}, "q", nil)
		require.NoError(t, err)
		assert.Equal(t, core.BranchFailed, result.RetrievalStatus)
		require.NotNil(t, result.Citations)
		assert.Empty(t, result.Citations)
	})

	t.Run("ShouldRunSettlementCalculation", func(t *testing.T) {
		exec, metrics := newExecutor(t, &fakeRetriever{})
		result, err := exec.Execute(context.Background(), &core.Plan{
			Action:     core.ActionSettlement,
			Parameters: map[string]float64{"load": 1000, "young_modulus": 25000},
		}, "q", nil)
		require.NoError(t, err)
		assert.Equal(t, core.BranchSkipped, result.RetrievalStatus)
		assert.Equal(t, core.BranchOK, result.ToolStatus)
		require.NotNil(t, result.ToolResult)
		assert.Equal(t, core.ToolStatusOK, result.ToolResult.Status)
		assert.Equal(t, 0.04, result.ToolResult.Output["settlement"])
		assert.Equal(t, int64(1), metrics.Snapshot().ToolCalls)
	})

	t.Run("ShouldShortCircuitOnMissingParametersWithoutToolCall", func(t *testing.T) {
		exec, metrics := newExecutor(t, &fakeRetriever{})
		result, err := exec.Execute(context.Background(), &core.Plan{
			Action:            core.ActionBearingCapacity,
			Parameters:        map[string]float64{"B": 2},
			MissingParameters: []string{"gamma", "Df", "phi"},
		}, "q", nil)
		require.NoError(t, err)
		assert.Equal(t, core.BranchFailed, result.ToolStatus)
		require.NotNil(t, result.ToolResult)
		assert.Equal(t, core.ToolStatusInvalidInput, result.ToolResult.Status)
		assert.Contains(t, result.ToolResult.Detail, "gamma, Df, phi")
		assert.Zero(t, metrics.Snapshot().ToolCalls, "incomplete inputs must never reach the tool")
	})

	t.Run("ShouldRunBothBranchesIndependently", func(t *testing.T) {
		ret := &fakeRetriever{err: errors.New("retrieval backend down")}
		exec, metrics := newExecutor(t, ret)
		result, err := exec.Execute(context.Background(), &core.Plan{
			Action:      core.ActionBoth,
			SearchQuery: "elastic settlement",
			Parameters:  map[string]float64{"load": 1000, "young_modulus": 50000},
		}, "q", nil)
		require.NoError(t, err)
		assert.Equal(t, core.BranchFailed, result.RetrievalStatus)
		assert.Equal(t, core.BranchOK, result.ToolStatus)
		require.NotNil(t, result.ToolResult)
		assert.Equal(t, 0.02, result.ToolResult.Output["settlement"])
		assert.Equal(t, 1, ret.calls)
		snap := metrics.Snapshot()
		assert.Equal(t, int64(1), snap.RetrievalCalls)
		assert.Equal(t, int64(1), snap.ToolCalls)
	})
}

func TestBranchStatusToStep(t *testing.T) {
	t.Run("ShouldReportDegradedWhenOneBranchFailed", func(t *testing.T) {
		status := branchStatusToStep(&core.ExecutionResult{
			RetrievalStatus: core.BranchFailed,
			ToolStatus:      core.BranchOK,
		})
		assert.Equal(t, core.StepDegraded, status)
	})

	t.Run("ShouldReportFailedWhenNothingSucceeded", func(t *testing.T) {
		status := branchStatusToStep(&core.ExecutionResult{
			RetrievalStatus: core.BranchFailed,
			ToolStatus:      core.BranchSkipped,
		})
		assert.Equal(t, core.StepFailed, status)
	})

	t.Run("ShouldReportOKWhenAllBranchesSucceeded", func(t *testing.T) {
		status := branchStatusToStep(&core.ExecutionResult{
			RetrievalStatus: core.BranchOK,
			ToolStatus:      core.BranchSkipped,
		})
		assert.Equal(t, core.StepOK, status)
	})
}
