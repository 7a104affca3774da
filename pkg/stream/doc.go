// Package stream provides network byte sources for live audio.
//
// A Source is connected once, read in small chunks through a read-ahead
// window, and disconnected when the session ends. Connect reports the
// response status and content type without judging them; the caller
// decides what it accepts.
//
// Example:
//
//	src := stream.NewHTTP(ctx, stream.DefaultOptions())
//	resp, err := src.Connect(ctx, "http://example.com/live.mp3")
//	n, err := src.Read(buf)
//	defer src.Disconnect()
package stream
