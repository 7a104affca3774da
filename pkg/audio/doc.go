// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and PCM sample conversion functions
// Package audio provides the PCM types shared by the decoder, the output
// sink and the playback pipeline.
//
// A Format becomes known only after the decoder has seen enough of the
// compressed stream; until then callers hold it as an optional value.
//
// Example:
//
//	format := audio.Format{
//	    Codec:      "mp3",
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//
//	samples := audio.DecodePCM(chunk, format.BitDepth)
package audio
