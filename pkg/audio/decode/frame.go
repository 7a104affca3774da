// ABOUTME: MPEG audio frame scanner
// ABOUTME: Splits an arbitrary byte stream into complete Layer III frames
package decode

const (
	mpeg1 = 3
	mpeg2 = 2

	headerSize = 4
	id3Size    = 10
)

var layer3Bitrates = [2][16]int{
	// MPEG-1
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	// MPEG-2
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
}

var sampleRates = [4][3]int{
	mpeg2: {22050, 24000, 16000},
	mpeg1: {44100, 48000, 32000},
}

// frameHeader is a parsed Layer III frame header
type frameHeader struct {
	version    int
	bitrate    int // kbps
	sampleRate int
	padding    bool
	channels   int
}

// parseFrameHeader validates the 4 header bytes at the start of b
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < headerSize {
		return frameHeader{}, false
	}
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}

	// go-mp3 handles MPEG-1 and MPEG-2; 2.5 and the reserved id are skipped
	version := int(b[1]>>3) & 0x3
	if version != mpeg1 && version != mpeg2 {
		return frameHeader{}, false
	}
	// Layer III only
	if (b[1]>>1)&0x3 != 0x1 {
		return frameHeader{}, false
	}

	bitrateIdx := b[2] >> 4
	rateIdx := (b[2] >> 2) & 0x3
	if rateIdx == 3 {
		return frameHeader{}, false
	}
	table := 1
	if version == mpeg1 {
		table = 0
	}
	bitrate := layer3Bitrates[table][bitrateIdx]
	if bitrate == 0 {
		// free format and the reserved index are not streamable here
		return frameHeader{}, false
	}
	if b[3]&0x3 == 0x2 {
		return frameHeader{}, false
	}

	channels := 2
	if b[3]>>6 == 0x3 {
		channels = 1
	}

	return frameHeader{
		version:    version,
		bitrate:    bitrate,
		sampleRate: sampleRates[version][rateIdx],
		padding:    (b[2]>>1)&0x1 == 1,
		channels:   channels,
	}, true
}

// size returns the total frame length including the header
func (h frameHeader) size() int {
	coef := 72
	if h.version == mpeg1 {
		coef = 144
	}
	n := coef * h.bitrate * 1000 / h.sampleRate
	if h.padding {
		n++
	}
	return n
}

// samples returns the number of samples per channel in one frame
func (h frameHeader) samples() int {
	if h.version == mpeg1 {
		return 1152
	}
	return 576
}

// compatible reports whether two headers can belong to the same stream
func (h frameHeader) compatible(o frameHeader) bool {
	return h.version == o.version && h.sampleRate == o.sampleRate
}

// frameScanner accumulates stream bytes and yields whole frames.
// Until it is locked onto the stream a candidate frame is only accepted
// when the next header follows it.
type frameScanner struct {
	pending []byte
	skip    int
	locked  bool
	last    frameHeader
	dropped int64
}

func (s *frameScanner) push(p []byte) {
	if s.skip > 0 {
		n := min(s.skip, len(p))
		s.skip -= n
		s.dropped += int64(n)
		p = p[n:]
	}
	s.pending = append(s.pending, p...)
}

// next returns the next complete frame, or false when more input is needed
func (s *frameScanner) next() ([]byte, frameHeader, bool) {
	for {
		if s.skip > 0 {
			n := min(s.skip, len(s.pending))
			s.discard(n)
			s.skip -= n
			if s.skip > 0 {
				return nil, frameHeader{}, false
			}
		}

		if !s.locked {
			found, more := s.skipID3()
			if more {
				return nil, frameHeader{}, false
			}
			if found {
				continue
			}
		}

		if len(s.pending) < headerSize {
			return nil, frameHeader{}, false
		}

		h, ok := parseFrameHeader(s.pending)
		if ok && s.locked && !h.compatible(s.last) {
			ok = false
		}
		if !ok {
			s.locked = false
			s.resync()
			continue
		}

		size := h.size()
		if !s.locked {
			// confirm the candidate with the following header
			if len(s.pending) < size+headerSize {
				return nil, frameHeader{}, false
			}
			nh, ok := parseFrameHeader(s.pending[size:])
			if !ok || !h.compatible(nh) {
				s.discard(1)
				continue
			}
			s.locked = true
		}

		if len(s.pending) < size {
			return nil, frameHeader{}, false
		}

		frame := make([]byte, size)
		copy(frame, s.pending[:size])
		s.pending = s.pending[size:]
		s.last = h
		return frame, h, true
	}
}

// skipID3 schedules a leading ID3v2 tag to be dropped. more is true while
// the pending bytes could still turn out to be a tag header.
func (s *frameScanner) skipID3() (found, more bool) {
	n := min(len(s.pending), 3)
	if string(s.pending[:n]) != "ID3"[:n] {
		return false, false
	}
	if len(s.pending) < id3Size {
		return false, true
	}
	b := s.pending[6:10]
	if b[0]&0x80 != 0 || b[1]&0x80 != 0 || b[2]&0x80 != 0 || b[3]&0x80 != 0 {
		return false, false
	}
	s.skip = id3Size + (int(b[0])<<21 | int(b[1])<<14 | int(b[2])<<7 | int(b[3]))
	return true, false
}

// resync discards bytes up to the next candidate sync word
func (s *frameScanner) resync() {
	for i := 1; i < len(s.pending); i++ {
		if s.pending[i] == 0xFF {
			s.discard(i)
			return
		}
	}
	s.discard(len(s.pending))
}

func (s *frameScanner) discard(n int) {
	s.dropped += int64(n)
	s.pending = s.pending[n:]
	if len(s.pending) == 0 {
		s.pending = nil
	}
}
