// ABOUTME: Audio type definitions
// ABOUTME: Defines the stream format and PCM sample conversions
package audio

import (
	"encoding/binary"
	"fmt"
)

const (
	// 24-bit working range used by the sample conversions
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes a decoded PCM stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Valid reports whether the format can drive an output device. Any known
// bit depth is accepted; the device plays 8 bits as 8-bit PCM and the
// rest as 16-bit PCM.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0 && f.BitDepth > 0
}

// BytesPerFrame returns the size of one interleaved sample frame
func (f Format) BytesPerFrame() int {
	return f.Channels * (f.BitDepth / 8)
}

// String renders the format as "44100Hz Stereo 16-bit"
func (f Format) String() string {
	return fmt.Sprintf("%dHz %s %d-bit", f.SampleRate, ChannelName(f.Channels), f.BitDepth)
}

// ChannelName maps a channel count to the layout used for output.
// One channel is mono, anything else plays as stereo.
func ChannelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleToUint8 converts int32 sample to unsigned 8-bit PCM
func SampleToUint8(sample int32) uint8 {
	return uint8((sample >> 16) + 128)
}

// SampleFromUint8 converts unsigned 8-bit PCM to int32 (left-justified in 24-bit)
func SampleFromUint8(sample uint8) int32 {
	return (int32(sample) - 128) << 16
}

// DecodePCM unpacks interleaved little-endian PCM bytes into int32 samples.
// Trailing bytes that do not form a whole sample are ignored.
func DecodePCM(data []byte, bitDepth int) []int32 {
	if bitDepth == 8 {
		samples := make([]int32, len(data))
		for i, b := range data {
			samples[i] = SampleFromUint8(b)
		}
		return samples
	}

	numSamples := len(data) / 2
	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return samples
}

// EncodePCM packs int32 samples into interleaved little-endian PCM bytes
func EncodePCM(samples []int32, bitDepth int) []byte {
	if bitDepth == 8 {
		out := make([]byte, len(samples))
		for i, s := range samples {
			out[i] = SampleToUint8(s)
		}
		return out
	}

	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(SampleToInt16(s)))
	}
	return out
}

// RemapChannels converts interleaved samples between mono and stereo.
// Stereo to mono averages the pair; mono to stereo duplicates.
func RemapChannels(samples []int32, from, to int) []int32 {
	if from == to || from <= 0 || to <= 0 {
		return samples
	}

	frames := len(samples) / from
	out := make([]int32, frames*to)
	for i := 0; i < frames; i++ {
		var sum int64
		for ch := 0; ch < from; ch++ {
			sum += int64(samples[i*from+ch])
		}
		mixed := int32(sum / int64(from))
		for ch := 0; ch < to; ch++ {
			if ch < from && to > 1 && from > 1 {
				out[i*to+ch] = samples[i*from+ch]
			} else {
				out[i*to+ch] = mixed
			}
		}
	}
	return out
}
