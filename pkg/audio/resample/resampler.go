// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Interpolates across chunk boundaries so streamed audio stays continuous
package resample

// Resampler performs linear interpolation to convert between sample rates.
// It carries the last input frame of each chunk into the next call.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
	last       []int32 // one sample per channel
	primed     bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		last:       make([]int32, channels),
	}
}

// Resample converts interleaved input at inputRate into interleaved output
// at outputRate and returns the number of output samples written.
func (r *Resampler) Resample(input []int32, output []int32) int {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return 0
	}

	// frame i of the virtual input; frame 0 is the carried frame once primed
	total := inputFrames
	if r.primed {
		total++
	}
	at := func(i, ch int) int32 {
		if r.primed {
			if i == 0 {
				return r.last[ch]
			}
			i--
		}
		return input[i*r.channels+ch]
	}

	outputFrames := len(output) / r.channels
	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)
		if inputIdx >= total-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			s1 := float64(at(inputIdx, ch))
			s2 := float64(at(inputIdx+1, ch))
			output[outIdx*r.channels+ch] = int32(s1*(1.0-frac) + s2*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// the last input frame becomes frame 0 of the next call
	r.position -= float64(total - 1)
	if r.position < 0 {
		r.position = 0
	}
	copy(r.last, input[(inputFrames-1)*r.channels:inputFrames*r.channels])
	r.primed = true

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
	r.primed = false
	for i := range r.last {
		r.last[i] = 0
	}
}

// OutputSamplesNeeded returns an output size large enough for one Resample call
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples/r.channels + 1
	outputFrames := int(float64(inputFrames)/r.ratio) + 1
	return outputFrames * r.channels
}
