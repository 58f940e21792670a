// Package cli — release_test.go contains unit tests for the pure
// formatting helpers used by the release command. These verify output
// rendering without a Docker daemon.
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// TestFormatReleaseText verifies the text rendering of a completed
// release: version tag first, aliases indented beneath it in order.
func TestFormatReleaseText(t *testing.T) {
	tests := []struct {
		name string
		rel  *model.Release
		want string
	}{
		{
			name: "version with aliases",
			rel: &model.Release{
				Repository: "getsentry/symbolserver",
				Version:    "1.4.0",
				Aliases:    []string{"1", "1.4", "latest"},
			},
			want: "Released getsentry/symbolserver:1.4.0\n" +
				"  -> getsentry/symbolserver:1\n" +
				"  -> getsentry/symbolserver:1.4\n" +
				"  -> getsentry/symbolserver:latest\n",
		},
		{
			name: "version only",
			rel: &model.Release{
				Repository: "getsentry/symbolserver",
				Version:    "2.0.0",
			},
			want: "Released getsentry/symbolserver:2.0.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatReleaseText(tt.rel))
		})
	}
}
