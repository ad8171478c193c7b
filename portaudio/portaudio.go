// Package portaudio plays sound results on the default output device.
package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/dudk/flo"
	"github.com/dudk/flo/log"
	"github.com/dudk/flo/metric"
	"github.com/dudk/flo/signal"
)

const numChannels = 2

// Player renders a result from the device callback. Every callback
// renders exactly one chunk, so the graph lock is held by the audio thread
// for at most one chunk.
type Player struct {
	graph  *flo.Graph
	result *flo.SoundResult
	stream *portaudio.Stream
	meter  *metric.Meter
	log    logrus.FieldLogger
	chunk  flo.Chunk
}

// Option configures player.
type Option func(*Player)

// WithLogger sets the logger of failed chunks.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Player) {
		p.log = l
	}
}

// NewPlayer returns a player of the result rendered with graph.
func NewPlayer(g *flo.Graph, r *flo.SoundResult, options ...Option) *Player {
	p := &Player{
		graph:  g,
		result: r,
		log:    log.GetLogger(),
	}
	for _, option := range options {
		option(p)
	}
	p.log = log.WithNode(p.log, r.ID(), "player")
	p.meter = metric.NewMeter(p, flo.SampleRate)
	return p
}

// Start initializes portaudio and starts the default output stream.
func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, numChannels, flo.SampleRate, flo.ChunkSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open stream: %w", err)
	}
	p.meter.Start()
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start stream: %w", err)
	}
	p.stream = stream
	p.log.Debug("started")
	return nil
}

// Stop stops the stream and terminates portaudio.
func (p *Player) Stop() error {
	if p.stream == nil {
		return nil
	}
	defer func() {
		p.stream = nil
		p.log.Debug("stopped")
	}()
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

// Play plays the result until context is done.
func (p *Player) Play(ctx context.Context) error {
	if err := p.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return p.Stop()
}

func (p *Player) process(out []float32) {
	if err := p.graph.Render(p.result, &p.chunk); err != nil {
		p.meter.Failure()
		p.log.WithError(err).Warn("chunk replaced with silence")
	}
	signal.Interleave32(&p.chunk, out)
	p.meter.Chunk(flo.ChunkSize)
}
