// Package radio implements the live playback pipeline.
//
// A Player launches Sessions. Each session runs on its own goroutine: it
// connects a stream.Source, feeds what it reads to a decode.Codec, learns
// the stream format from the first decoded chunk, configures an
// output.Sink and then writes every further chunk to it. The blocking
// sink write paces the whole pipeline to playback speed.
//
// Every failure ends the session. Resources are released first, then the
// observer receives a single OnError. Stopping a session reports no error.
//
// Example:
//
//	player, err := radio.NewPlayer(radio.Config{
//		Sources: stream.HTTPFactory(stream.DefaultOptions()),
//		Codecs:  decode.MP3Factory,
//		Sinks:   output.NewOto(250),
//	})
//	session, err := player.Launch("http://example.com/live.mp3", observer)
//	defer session.Stop()
package radio
