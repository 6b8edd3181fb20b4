package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Run("ShouldReturnBuildMetadata", func(t *testing.T) {
		info := Get()
		assert.Equal(t, Version, info.Version)
		assert.Equal(t, CommitHash, info.CommitHash)
		assert.Equal(t, BuildDate, info.BuildDate)
	})

	t.Run("ShouldRenderReadableString", func(t *testing.T) {
		info := Info{Version: "v1.2.3", CommitHash: "abc123", BuildDate: "2026-01-01"}
		assert.Equal(t, "v1.2.3 (commit abc123, built 2026-01-01)", info.String())
	})
}
