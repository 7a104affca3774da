// ABOUTME: PCM conversion between a stream format and the device format
// ABOUTME: Remaps channels, resamples and repacks sample width
package output

import (
	"github.com/netradio-go/netradio/pkg/audio"
	"github.com/netradio-go/netradio/pkg/audio/resample"
)

// converter adapts PCM when a session's format differs from the device
type converter struct {
	from      audio.Format
	to        audio.Format
	resampler *resample.Resampler
}

// newConverter returns nil when no conversion is needed
func newConverter(from, to audio.Format) *converter {
	if from.SampleRate == to.SampleRate && from.Channels == to.Channels && from.BitDepth == to.BitDepth {
		return nil
	}
	c := &converter{from: from, to: to}
	if from.SampleRate != to.SampleRate {
		c.resampler = resample.New(from.SampleRate, to.SampleRate, to.Channels)
	}
	return c
}

func (c *converter) apply(p []byte) []byte {
	samples := audio.DecodePCM(p, c.from.BitDepth)
	samples = audio.RemapChannels(samples, c.from.Channels, c.to.Channels)

	if c.resampler != nil {
		out := make([]int32, c.resampler.OutputSamplesNeeded(len(samples)))
		n := c.resampler.Resample(samples, out)
		samples = out[:n]
	}

	return audio.EncodePCM(samples, c.to.BitDepth)
}
