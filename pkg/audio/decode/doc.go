// ABOUTME: Audio decoder package for streamed compressed audio
// ABOUTME: Provides the feed-mode Codec interface and the MP3 implementation
// Package decode provides feed-mode decoders for compressed audio.
//
// A Codec accepts compressed bytes in whatever chunks the network delivers
// and produces interleaved PCM once whole frames are available. The stream
// format is learned from the first decoded frame.
//
// Example:
//
//	codec := decode.NewMP3()
//	n, err := codec.Feed(chunk, pcm)
//	if format, ok := codec.Format(); ok {
//	    // configure output
//	}
package decode
