package asset_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flo"
	"github.com/dudk/flo/asset"
	"github.com/dudk/flo/internal/mock"
)

func TestRecord(t *testing.T) {
	tests := []struct {
		value    float64
		chunks   int
		messages int
	}{
		{
			value:    0.5,
			chunks:   10,
			messages: 10,
		},
		{
			value:    0.7,
			chunks:   1,
			messages: 1,
		},
		{
			value: 1,
		},
	}
	for _, test := range tests {
		g := flo.New()
		r := flo.NewSoundResult()
		src := mock.NewSource(test.value)
		assert.NoError(t, g.ConnectSound(r.Input, src))

		a, err := asset.Record(g, r, test.chunks)
		assert.NoError(t, err)
		messages, samples := src.Count()
		assert.Equal(t, test.messages, messages)
		assert.Equal(t, test.chunks*flo.ChunkSize, samples)
		assert.Equal(t, test.chunks*flo.ChunkSize, a.Len())
		for _, f := range a.Frames {
			assert.Equal(t, flo.Mono(test.value), f)
		}
	}
}

func TestAsset(t *testing.T) {
	a := asset.New()
	assert.Equal(t, flo.SampleRate, a.SampleRate)
	assert.Equal(t, time.Duration(0), a.Duration())

	var c flo.Chunk
	c.Fill(flo.Mono(1))
	a.Append(&c)
	assert.Equal(t, flo.ChunkSize, a.Len())
	assert.Equal(t, flo.Mono(1), a.At(0))
	assert.Equal(t, flo.Sample{}, a.At(-1))
	assert.Equal(t, flo.Sample{}, a.At(flo.ChunkSize))

	a.SampleRate = flo.ChunkSize
	assert.Equal(t, time.Second, a.Duration())
}

func TestClip(t *testing.T) {
	a := &asset.Asset{
		SampleRate: flo.SampleRate,
		Frames:     []flo.Sample{flo.Mono(1), flo.Mono(2), flo.Mono(3), flo.Mono(4)},
	}
	c := a.Clip(1, 2)
	assert.Equal(t, flo.Mono(2), c.Frame(0))
	assert.Equal(t, flo.Mono(3), c.Frame(1))
	assert.Equal(t, flo.Sample{}, c.Frame(2))
	assert.Equal(t, flo.Sample{}, c.Frame(-1))

	// clip can't reach beyond the asset.
	c = a.Clip(3, 2)
	assert.Equal(t, flo.Mono(4), c.Frame(0))
	assert.Equal(t, flo.Sample{}, c.Frame(1))
}
