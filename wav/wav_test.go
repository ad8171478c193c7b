package wav_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flo"
	"github.com/dudk/flo/internal/mock"
	"github.com/dudk/flo/signal"
	"github.com/dudk/flo/wav"
)

func TestRenderLoad(t *testing.T) {
	tests := []struct {
		options  []wav.Option
		chunks   int
		messages int
	}{
		{
			chunks:   2,
			messages: 2,
		},
		{
			options:  []wav.Option{wav.WithBitDepth(signal.BitDepth24)},
			chunks:   1,
			messages: 1,
		},
		{
			options:  []wav.Option{wav.WithBitDepth(signal.BitDepth32), wav.WithChannels(1)},
			chunks:   3,
			messages: 3,
		},
	}
	for i, test := range tests {
		path := filepath.Join(t.TempDir(), "out.wav")
		g := flo.New()
		r := flo.NewSoundResult()
		src := mock.NewSource(0.5)
		assert.NoError(t, g.ConnectSound(r.Input, src))

		d := signal.DurationOf(flo.SampleRate, int64(test.chunks*flo.ChunkSize))
		assert.NoError(t, wav.Render(g, r, path, d, test.options...))
		messages, _ := src.Count()
		assert.Equal(t, test.messages, messages, "test %d", i)

		a, err := wav.Load(path)
		assert.NoError(t, err)
		assert.Equal(t, flo.SampleRate, a.SampleRate)
		assert.Equal(t, test.chunks*flo.ChunkSize, a.Len())
		for _, f := range a.Frames {
			assert.InDelta(t, 0.5, f.L, 1e-4)
			assert.InDelta(t, 0.5, f.R, 1e-4)
		}
	}
}

func TestSinkOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	_, err := wav.NewSink(path, wav.WithBitDepth(signal.BitDepth8))
	assert.ErrorIs(t, err, wav.ErrUnsupportedBitDepth)
	_, err = wav.NewSink(path, wav.WithChannels(3))
	assert.ErrorIs(t, err, wav.ErrUnsupportedChannels)
}

func TestLoadErrors(t *testing.T) {
	_, err := wav.Load(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	_, err = wav.Decode(bytes.NewReader([]byte("not a wav file")))
	assert.ErrorIs(t, err, wav.ErrInvalidFile)
}
