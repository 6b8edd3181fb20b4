package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoassist/geoassist/engine/core"
)

func newSynthesizer(t *testing.T, client *scriptedClient) *Synthesizer {
	t.Helper()
	synth, err := NewSynthesizer(client, 0.1, 2048)
	require.NoError(t, err)
	return synth
}

func TestSynthesizer_Synthesize(t *testing.T) {
	t.Run("ShouldReturnModelAnswer", func(t *testing.T) {
		client := &scriptedClient{responses: []string{"Settlement is load divided by modulus."}}
		synth := newSynthesizer(t, client)
		text := synth.Synthesize(context.Background(), "How is settlement computed?", &core.ExecutionResult{
			Citations: []core.Citation{{SourceName: "theory.md", Content: "s = q/E", ConfidenceScore: 0.8}},
		})
		assert.Equal(t, "Settlement is load divided by modulus.", text)
	})

	t.Run("ShouldFallBackOnModelError", func(t *testing.T) {
		client := &scriptedClient{responses: []string{""}, errs: []error{errors.New("provider down")}}
		synth := newSynthesizer(t, client)
		text := synth.Synthesize(context.Background(), "q", &core.ExecutionResult{})
		assert.Equal(t, fallbackMessage, text)
	})
}

func TestFormatCitations(t *testing.T) {
	t.Run("ShouldReportEmptyRetrieval", func(t *testing.T) {
		assert.Equal(t, "No relevant information found.", formatCitations(nil))
	})

	t.Run("ShouldIncludeSourceAndPage", func(t *testing.T) {
		page := 12
		out := formatCitations([]core.Citation{
			{SourceName: "settle3_manual.md", PageIndex: &page, Content: "Mesh guidance."},
			{SourceName: "faq.md", Content: "Troubleshooting."},
		})
		assert.Contains(t, out, "Source: settle3_manual.md (page 12)")
		assert.Contains(t, out, "Source: faq.md\nTroubleshooting.")
		assert.Contains(t, out, "\n\n---\n\n")
	})
}

func TestFormatToolResult(t *testing.T) {
	t.Run("ShouldReportNoCalculation", func(t *testing.T) {
		assert.Equal(t, "No calculations performed.", formatToolResult(&core.ExecutionResult{}))
	})

	t.Run("ShouldRenderSuccessfulResultAsJSON", func(t *testing.T) {
		out := formatToolResult(&core.ExecutionResult{
			ToolResult: &core.ToolResult{
				ToolName: "settlement_calculator",
				Status:   core.ToolStatusOK,
				Output:   map[string]any{"settlement": 0.04},
			},
		})
		assert.Contains(t, out, "settlement_calculator result:")
		assert.Contains(t, out, `"settlement": 0.04`)
	})

	t.Run("ShouldSurfaceMissingInputDetail", func(t *testing.T) {
		out := formatToolResult(&core.ExecutionResult{
			ToolResult: &core.ToolResult{
				Status: core.ToolStatusInvalidInput,
				Detail: "missing required parameters: [phi]",
			},
		})
		assert.Equal(t, "Calculation not performed: missing required parameters: [phi]", out)
	})

	t.Run("ShouldSurfaceToolFailure", func(t *testing.T) {
		out := formatToolResult(&core.ExecutionResult{
			ToolResult: &core.ToolResult{Status: core.ToolStatusError, Detail: "unknown tool: x"},
		})
		assert.Equal(t, "Calculation failed: unknown tool: x", out)
	})
}
