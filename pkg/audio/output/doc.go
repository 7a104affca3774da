// ABOUTME: Audio output package for playing decoded PCM
// ABOUTME: Provides the Sink contract and the oto implementation
// Package output provides audio playback sinks.
//
// A Sink is configured once the stream format is known and accepts PCM
// through a blocking Write, which is what paces decoding to real time.
//
// Example:
//
//	factory := output.NewOto(250)
//	sink, err := factory.Configure(format)
//	_, err = sink.Write(ctx, pcm)
package output
