// Package wav decodes wav files into assets and renders sound results to
// wav files.
package wav

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/flo"
	"github.com/dudk/flo/asset"
	"github.com/dudk/flo/metric"
	"github.com/dudk/flo/signal"
)

// pcm is the wav audio format of integer samples.
const pcm = 1

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")
	// ErrUnsupportedChannels is returned when sink is asked for more than
	// two channels.
	ErrUnsupportedChannels = errors.New("only mono and stereo are supported")
	// ErrInvalidFile is returned when decoded file is not a valid wav.
	ErrInvalidFile = errors.New("wav is not valid")
)

// Load decodes the wav file at path into a new asset.
func Load(path string) (*asset.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", path, err)
	}
	return a, nil
}

// Decode reads the whole wav stream into a new asset. Mono files are
// copied to both channels.
func Decode(r io.ReadSeeker) (*asset.Asset, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if !supported(signal.BitDepth(decoder.BitDepth)) {
		return nil, ErrUnsupportedBitDepth
	}

	ib, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	return &asset.Asset{
		SampleRate: int(decoder.SampleRate),
		Frames: signal.InterInt{
			Data:        ib.Data,
			NumChannels: int(decoder.NumChans),
			BitDepth:    signal.BitDepth(decoder.BitDepth),
		}.AsFrames(),
	}, nil
}

func supported(bitDepth signal.BitDepth) bool {
	switch bitDepth {
	case signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
		return true
	}
	return false
}

// Option configures sink.
type Option func(*Sink)

// WithBitDepth sets bit depth of the written file. Default is 16.
func WithBitDepth(bitDepth signal.BitDepth) Option {
	return func(s *Sink) {
		s.bitDepth = bitDepth
	}
}

// WithChannels sets the number of written channels. Mono is the average of
// both channels. Default is 2.
func WithChannels(numChannels int) Option {
	return func(s *Sink) {
		s.numChannels = numChannels
	}
}

// Sink writes rendered chunks to wav file. It must be closed to flush the
// header.
type Sink struct {
	bitDepth    signal.BitDepth
	numChannels int
	file        *os.File
	encoder     *wav.Encoder
	buffer      *audio.IntBuffer
}

// NewSink creates the file at path and a sink writing to it.
func NewSink(path string, options ...Option) (*Sink, error) {
	s := &Sink{
		bitDepth:    signal.BitDepth16,
		numChannels: 2,
	}
	for _, option := range options {
		option(s)
	}
	if !supported(s.bitDepth) {
		return nil, ErrUnsupportedBitDepth
	}
	if s.numChannels != 1 && s.numChannels != 2 {
		return nil, ErrUnsupportedChannels
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s.file = f
	s.encoder = wav.NewEncoder(f, flo.SampleRate, int(s.bitDepth), s.numChannels, pcm)
	s.buffer = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: s.numChannels,
			SampleRate:  flo.SampleRate,
		},
		SourceBitDepth: int(s.bitDepth),
	}
	return s, nil
}

// Write encodes frames into the file.
func (s *Sink) Write(frames []flo.Sample) error {
	s.buffer.Data = signal.AsInterInt(frames, s.numChannels, s.bitDepth).Data
	return s.encoder.Write(s.buffer)
}

// Close flushes the encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.encoder.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// Render writes d of the result's output to the wav file at path. The
// duration is rounded up to whole chunks.
func Render(g *flo.Graph, r *flo.SoundResult, path string, d time.Duration, options ...Option) error {
	s, err := NewSink(path, options...)
	if err != nil {
		return err
	}
	chunks := int(math.Ceil(d.Seconds() * flo.SampleRate / flo.ChunkSize))
	meter := metric.NewMeter(s, flo.SampleRate)
	meter.Start()

	var c flo.Chunk
	for i := 0; i < chunks; i++ {
		if err := g.Render(r, &c); err != nil {
			meter.Failure()
			s.Close()
			return fmt.Errorf("render chunk %d: %w", i, err)
		}
		if err := s.Write(c[:]); err != nil {
			s.Close()
			return err
		}
		meter.Chunk(flo.ChunkSize)
	}
	return s.Close()
}
