package flo

const (
	// ChunkSize is the number of samples rendered by a single call.
	ChunkSize = 1024
	// SampleRate is the engine-wide sample rate.
	SampleRate = 44100
)

// Sample is a single stereo frame.
type Sample struct {
	L, R float64
}

// Mono returns a sample with the same value in both channels.
func Mono(v float64) Sample {
	return Sample{L: v, R: v}
}

// Add returns the sum of two samples.
func (s Sample) Add(o Sample) Sample {
	return Sample{L: s.L + o.L, R: s.R + o.R}
}

// Scale returns the sample multiplied by gain.
func (s Sample) Scale(gain float64) Sample {
	return Sample{L: s.L * gain, R: s.R * gain}
}

// Chunk is a fixed-size buffer of stereo samples.
type Chunk [ChunkSize]Sample

// Silence zeroes the chunk.
func (c *Chunk) Silence() {
	*c = Chunk{}
}

// Fill sets every sample of the chunk to s.
func (c *Chunk) Fill(s Sample) {
	for i := range c {
		c[i] = s
	}
}

// Add mixes o into the chunk.
func (c *Chunk) Add(o *Chunk) {
	for i := range c {
		c[i].L += o[i].L
		c[i].R += o[i].R
	}
}

// Scale multiplies every sample by gain.
func (c *Chunk) Scale(gain float64) {
	for i := range c {
		c[i].L *= gain
		c[i].R *= gain
	}
}
