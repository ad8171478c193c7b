// Package signal provides an API to convert rendered chunks to device and
// file formats. It allows to:
// 	- interleave stereo frames to float32 and int buffers
//	- convert interleaved data of any channel count to stereo frames
//	- convert bit depth for int signals
package signal

import (
	"math"
	"time"

	"github.com/dudk/flo"
)

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// InterInt is an interleaved int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// BitDepth contains values required for int-to-float and backward conversion.
type BitDepth int

// devider is used when int to float conversion is done.
func (bitDepth BitDepth) devider() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth24:
		return 1<<23 - 2
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// AsFrames converts interleaved int signal to stereo frames. Mono signal
// is copied to both channels, channels after the second are dropped. The
// last incomplete frame is padded with zeros.
func (ints InterInt) AsFrames() []flo.Sample {
	if ints.Data == nil || ints.NumChannels == 0 {
		return nil
	}
	size := int(math.Ceil(float64(len(ints.Data)) / float64(ints.NumChannels)))
	frames := make([]flo.Sample, size)

	// determine the devider for bit depth conversion
	devider := float64(ints.BitDepth.devider())

	right := 1
	if ints.NumChannels == 1 {
		right = 0
	}
	for i := range frames {
		pos := i * ints.NumChannels
		frames[i].L = float64(ints.Data[pos]) / devider
		if pos+right < len(ints.Data) {
			frames[i].R = float64(ints.Data[pos+right]) / devider
		}
	}
	return frames
}

// AsInterInt converts stereo frames to interleaved int signal with one or
// two channels. Mono is the average of both channels. Values are clipped
// to [-1, 1].
func AsInterInt(frames []flo.Sample, numChannels int, bitDepth BitDepth) InterInt {
	ints := InterInt{
		NumChannels: numChannels,
		BitDepth:    bitDepth,
	}
	if len(frames) == 0 || numChannels == 0 {
		return ints
	}

	// determine the multiplier for bit depth conversion
	multiplier := float64(bitDepth.multiplier())

	ints.Data = make([]int, len(frames)*numChannels)
	for i, f := range frames {
		if numChannels == 1 {
			ints.Data[i] = int(clip((f.L+f.R)/2) * multiplier)
			continue
		}
		ints.Data[i*numChannels] = int(clip(f.L) * multiplier)
		ints.Data[i*numChannels+1] = int(clip(f.R) * multiplier)
	}
	return ints
}

// Interleave32 writes the chunk into interleaved float32 stereo buffer. dst
// must have space for 2*flo.ChunkSize values.
func Interleave32(c *flo.Chunk, dst []float32) {
	for i := range c {
		dst[2*i] = float32(c[i].L)
		dst[2*i+1] = float32(c[i].R)
	}
}

// Peak returns the maximum absolute value of frames.
func Peak(frames []flo.Sample) float64 {
	var peak float64
	for _, f := range frames {
		peak = math.Max(peak, math.Max(math.Abs(f.L), math.Abs(f.R)))
	}
	return peak
}

func clip(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
