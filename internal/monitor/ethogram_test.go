package monitor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
)

func TestRenderEthogram(t *testing.T) {
	t.Parallel()
	results := []behavior.FrameResult{
		{FrameIndex: 0, TimeSeconds: 0.0, Attention: behavior.AttentionGrooming},
		{FrameIndex: 1, TimeSeconds: 0.033, Attention: behavior.AttentionGrooming},
		{FrameIndex: 2, TimeSeconds: 0.066, Attention: behavior.AttentionHeadTop},
		{FrameIndex: 3, TimeSeconds: 0.1, Attention: behavior.AttentionSniffingBottom},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderEthogram(&buf, "trial_01", results))

	html := buf.String()
	assert.Contains(t, html, "trial_01")
	assert.Contains(t, html, "grooming")
	assert.Contains(t, html, "head_top")
	assert.Contains(t, html, "sniffing_bottom")
	// No frames carried this label, so it gets no series.
	assert.NotContains(t, html, "head_middle")
}

func TestRenderEthogramEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, RenderEthogram(&buf, "empty", nil))
	assert.Contains(t, buf.String(), "empty")
}
