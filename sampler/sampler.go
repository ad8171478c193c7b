// Package sampler provides a sound source which plays an asset. Assets are
// loaded on background goroutines and the sampler is silent until the
// asset is available.
package sampler

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dudk/flo"
	"github.com/dudk/flo/asset"
	"github.com/dudk/flo/mp3"
	"github.com/dudk/flo/wav"
)

// ErrUnsupportedFormat is returned when file extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

type playhead struct {
	pos float64
}

func (p *playhead) Reset() {
	p.pos = 0
}

// Sampler plays its asset from the beginning for every state. Playback
// speed is relative to the asset sample rate.
type Sampler struct {
	*flo.SoundSource
	Speed *flo.NumberInput
	// Position is the playhead of the current state in seconds of the
	// asset.
	Position *flo.SoundNumberSource

	loop    bool
	asset   atomic.Pointer[asset.Asset]
	loading atomic.Int32
	wg      sync.WaitGroup
}

// Option provides a way to set functional parameters to sampler.
type Option func(*Sampler)

// WithLoop makes the sampler wrap around at the end of the asset.
func WithLoop() Option {
	return func(s *Sampler) {
		s.loop = true
	}
}

// WithAsset sets the initial asset.
func WithAsset(a *asset.Asset) Option {
	return func(s *Sampler) {
		s.asset.Store(a)
	}
}

// New returns a sampler without asset.
func New(options ...Option) *Sampler {
	s := &Sampler{}
	s.SoundSource = flo.NewSoundSource("sampler", s, func() flo.StateData {
		return &playhead{}
	})
	s.Speed = flo.NewNumberInput(s, 1)
	s.Position = flo.NewSoundNumberSource(s, "position", s.position)
	for _, option := range options {
		option(s)
	}
	return s
}

// Asset returns the asset being played or nil.
func (s *Sampler) Asset() *asset.Asset {
	return s.asset.Load()
}

// SetAsset replaces the asset. Playheads are kept.
func (s *Sampler) SetAsset(a *asset.Asset) {
	s.asset.Store(a)
}

// Loading returns true while any load is in progress.
func (s *Sampler) Loading() bool {
	return s.loading.Load() > 0
}

// Load calls fn on a new goroutine and sets the returned asset. Returned
// channel receives the error of fn or the context and is closed when the
// load is done. The asset is not replaced if context is done first.
func (s *Sampler) Load(ctx context.Context, fn func(context.Context) (*asset.Asset, error)) <-chan error {
	errc := make(chan error, 1)
	s.loading.Add(1)
	s.wg.Add(1)
	go func() {
		defer close(errc)
		defer s.wg.Done()
		defer s.loading.Add(-1)
		a, err := fn(ctx)
		if err != nil {
			errc <- err
			return
		}
		if err := ctx.Err(); err != nil {
			errc <- err
			return
		}
		s.asset.Store(a)
	}()
	return errc
}

// LoadFile loads the file at path in background.
func (s *Sampler) LoadFile(ctx context.Context, path string) <-chan error {
	return s.Load(ctx, func(context.Context) (*asset.Asset, error) {
		return LoadFile(path)
	})
}

// Wait blocks until all loads are done.
func (s *Sampler) Wait() {
	s.wg.Wait()
}

func (s *Sampler) position(st, _ *flo.State) float64 {
	a := s.asset.Load()
	if a == nil || a.SampleRate == 0 {
		return 0
	}
	return flo.DataOf[*playhead](st).pos / float64(a.SampleRate)
}

// RenderChunk implements flo.Renderer.
func (s *Sampler) RenderChunk(c *flo.Chunk, st *flo.State) {
	a := s.asset.Load()
	if a == nil || a.Len() == 0 {
		c.Silence()
		return
	}
	p := flo.DataOf[*playhead](st)
	ratio := float64(a.SampleRate) / flo.SampleRate
	n := float64(a.Len())
	for i := range c {
		if s.loop {
			p.pos = math.Mod(p.pos, n)
			if p.pos < 0 {
				p.pos += n
			}
		}
		j, frac := math.Modf(p.pos)
		c[i] = a.At(int(j)).Scale(1 - frac).Add(a.At(int(j) + 1).Scale(frac))
		p.pos += s.Speed.Evaluate(st) * ratio
		st.Advance(1)
	}
}

// LoadFile decodes a wav or mp3 file into a new asset.
func LoadFile(path string) (*asset.Asset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Load(path)
	case ".mp3":
		return mp3.Load(path)
	}
	return nil, ErrUnsupportedFormat
}

// LoadFiles decodes files concurrently. The first error cancels remaining
// loads.
func LoadFiles(ctx context.Context, paths ...string) ([]*asset.Asset, error) {
	assets := make([]*asset.Asset, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := LoadFile(path)
			if err != nil {
				return err
			}
			assets[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}
