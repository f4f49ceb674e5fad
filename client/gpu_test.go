package client

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPickAlphaMode(t *testing.T) {
	assert.Equal(t, wgpu.CompositeAlphaModePreMultiplied, pickAlphaMode([]wgpu.CompositeAlphaMode{
		wgpu.CompositeAlphaModeOpaque,
		wgpu.CompositeAlphaModePreMultiplied,
	}))
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, pickAlphaMode([]wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque}))
	assert.Equal(t, wgpu.CompositeAlphaModeAuto, pickAlphaMode(nil))
}

func TestGpuState_ReleasePartial(t *testing.T) {
	g := &GpuState{}
	assert.NotPanics(t, g.release)
	// Released twice, e.g. after a failed create followed by Shutdown.
	assert.NotPanics(t, g.release)
	assert.Nil(t, g.instance)
}
