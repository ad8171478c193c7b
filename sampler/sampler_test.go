package sampler_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/dudk/flo"
	"github.com/dudk/flo/asset"
	"github.com/dudk/flo/internal/mock"
	"github.com/dudk/flo/sampler"
	"github.com/dudk/flo/signal"
	"github.com/dudk/flo/wav"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func frames(sampleRate int, values ...float64) *asset.Asset {
	a := &asset.Asset{SampleRate: sampleRate}
	for _, v := range values {
		a.Frames = append(a.Frames, flo.Mono(v))
	}
	return a
}

func TestSilentWhileLoading(t *testing.T) {
	g := flo.New()
	r := flo.NewSoundResult()
	s := sampler.New()
	assert.NoError(t, g.ConnectSound(r.Input, s))

	release := make(chan struct{})
	errc := s.Load(context.Background(), func(context.Context) (*asset.Asset, error) {
		<-release
		return frames(flo.SampleRate, 1, 1, 1), nil
	})
	assert.True(t, s.Loading())

	var c flo.Chunk
	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Chunk{}, c)

	close(release)
	assert.NoError(t, <-errc)
	s.Wait()
	assert.False(t, s.Loading())

	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Mono(1), c[0])
	assert.Equal(t, flo.Mono(1), c[2])
	assert.Equal(t, flo.Sample{}, c[3])
}

func TestLoadErrors(t *testing.T) {
	s := sampler.New()
	errLoad := errors.New("load failed")
	errc := s.Load(context.Background(), func(context.Context) (*asset.Asset, error) {
		return nil, errLoad
	})
	assert.ErrorIs(t, <-errc, errLoad)
	assert.Nil(t, s.Asset())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	errc = s.Load(ctx, func(context.Context) (*asset.Asset, error) {
		return frames(flo.SampleRate, 1), nil
	})
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.Nil(t, s.Asset())

	errc = s.LoadFile(context.Background(), "sample.flac")
	assert.ErrorIs(t, <-errc, sampler.ErrUnsupportedFormat)
	s.Wait()
}

func TestPlayback(t *testing.T) {
	tests := []struct {
		asset    *asset.Asset
		options  []sampler.Option
		expected []float64
	}{
		{
			asset:    frames(flo.SampleRate, 0.1, 0.2, 0.3),
			expected: []float64{0.1, 0.2, 0.3, 0, 0},
		},
		{
			asset:    frames(flo.SampleRate, 0.1, 0.2, 0.3),
			options:  []sampler.Option{sampler.WithLoop()},
			expected: []float64{0.1, 0.2, 0.3, 0.1, 0.2},
		},
		{
			asset:    frames(flo.SampleRate/2, 0, 1, 0),
			expected: []float64{0, 0.5, 1, 0.5, 0},
		},
	}
	for _, test := range tests {
		r := flo.NewSoundResult()
		s := sampler.New(append(test.options, sampler.WithAsset(test.asset))...)
		assert.NoError(t, r.Input.SetSource(s))

		var c flo.Chunk
		r.NextChunk(&c)
		for i, v := range test.expected {
			assert.InDelta(t, v, c[i].L, 1e-9, "sample %d", i)
		}
	}
}

func TestPosition(t *testing.T) {
	r := flo.NewSoundResult()
	s := sampler.New(sampler.WithAsset(frames(flo.SampleRate, make([]float64, 4*flo.ChunkSize)...)))
	assert.NoError(t, r.Input.SetSource(s))

	var c flo.Chunk
	r.NextChunk(&c)
	pos := s.Position.Evaluate(s.StateTable().State(0))
	assert.InDelta(t, float64(flo.ChunkSize)/flo.SampleRate, pos, 1e-9)

	r.Reset()
	assert.Equal(t, 0.0, s.Position.Evaluate(s.StateTable().State(0)))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "1.wav"), filepath.Join(dir, "2.wav")}
	for i, path := range paths {
		g := flo.New()
		r := flo.NewSoundResult()
		assert.NoError(t, g.ConnectSound(r.Input, mock.NewSource(0.5)))
		d := signal.DurationOf(flo.SampleRate, int64((i+1)*flo.ChunkSize))
		assert.NoError(t, wav.Render(g, r, path, d))
	}

	assets, err := sampler.LoadFiles(context.Background(), paths...)
	assert.NoError(t, err)
	assert.Equal(t, flo.ChunkSize, assets[0].Len())
	assert.Equal(t, 2*flo.ChunkSize, assets[1].Len())

	_, err = sampler.LoadFiles(context.Background(), append(paths, filepath.Join(dir, "3.ogg"))...)
	assert.ErrorIs(t, err, sampler.ErrUnsupportedFormat)
}
