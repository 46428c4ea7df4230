package imaging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/imaging"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		tag  string
		want imaging.Dimensions
	}{
		{"1:1", imaging.Dimensions{Width: 768, Height: 768}},
		{"16:9", imaging.Dimensions{Width: 1024, Height: 576}},
		{"9:16", imaging.Dimensions{Width: 576, Height: 1024}},
		{"4:3", imaging.Dimensions{Width: 1024, Height: 768}},
		{"3:4", imaging.Dimensions{Width: 768, Height: 1024}},
		{" 16:9 ", imaging.Dimensions{Width: 1024, Height: 576}},
		{"", imaging.DefaultDimensions},
		{"21:9", imaging.DefaultDimensions},
		{"square", imaging.DefaultDimensions},
		{"1:1:1", imaging.DefaultDimensions},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, imaging.Resolve(tt.tag), "tag=%q", tt.tag)
	}

	assert.Equal(t, imaging.Dimensions{Width: 800, Height: 600}, imaging.DefaultDimensions)
}

func TestResolve_KnownTagsNeverFallBack(t *testing.T) {
	for _, tag := range imaging.Tags() {
		dims := imaging.Resolve(tag)
		assert.NotEqual(t, imaging.DefaultDimensions, dims, "tag=%q", tag)
		assert.Positive(t, dims.Width)
		assert.Positive(t, dims.Height)
	}
}
