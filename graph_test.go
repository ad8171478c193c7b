package flo_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flo"
	"github.com/dudk/flo/internal/mock"
)

type panicRenderer struct{}

func (panicRenderer) RenderChunk(*flo.Chunk, *flo.State) {
	panic("broken renderer")
}

type testLogger struct {
	debug []interface{}
}

func (l *testLogger) Debug(args ...interface{}) {
	l.debug = append(l.debug, args...)
}

func (l *testLogger) Info(args ...interface{}) {}

func TestGraphConnect(t *testing.T) {
	logger := &testLogger{}
	g := flo.New(flo.WithName("test"), flo.WithLogger(logger))
	assert.Equal(t, "test", g.Name())
	assert.NotEmpty(t, g.ID())

	r := flo.NewSoundResult()
	p := mock.NewProcessor()
	assert.NoError(t, g.ConnectSound(r.Input, p))
	assert.NoError(t, g.ConnectSound(p.Input, mock.NewSource(0.5)))
	assert.NoError(t, g.ConnectNumber(p.Gain, constant(2)))
	assert.Len(t, logger.debug, 3)

	var c flo.Chunk
	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Mono(1), c[0])

	assert.NoError(t, g.DisconnectNumber(p.Gain))
	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Mono(0.5), c[0])

	assert.NoError(t, g.DisconnectSound(p.Input))
	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Sample{}, c[0])
}

func TestGraphErrors(t *testing.T) {
	g := flo.New()
	r := flo.NewSoundResult()
	p := mock.NewProcessor()
	assert.NoError(t, g.ConnectSound(r.Input, p))

	err := g.ConnectSound(p.Input, p)
	assert.ErrorIs(t, err, flo.ErrCycle)
	assert.True(t, flo.IsRejected(err))
	var ce *flo.ConnectionError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "connect sound", ce.Op)
	assert.Contains(t, err.Error(), flo.ErrCycle.Error())

	err = g.DisconnectSound(p.Input)
	assert.ErrorIs(t, err, flo.ErrNotConnected)
	err = g.DisconnectNumber(p.Gain)
	assert.ErrorIs(t, err, flo.ErrNotConnected)

	res := flo.NewNumberResult(0)
	err = g.ConnectNumber(res.Input, p.Time)
	assert.ErrorIs(t, err, flo.ErrUnsafeSource)
	assert.Nil(t, res.Input.Source())
	assert.Equal(t, 0.0, g.Evaluate(res))

	assert.False(t, flo.IsRejected(errors.New("other")))
}

func TestGraphConnectNil(t *testing.T) {
	g := flo.New()
	r := flo.NewSoundResult()
	p := mock.NewProcessor()
	assert.NoError(t, g.ConnectSound(r.Input, p))
	assert.NoError(t, g.ConnectNumber(p.Gain, p.Time))

	tests := []struct {
		description string
		connect     func() error
	}{
		{
			description: "sound",
			connect:     func() error { return g.ConnectSound(r.Input, nil) },
		},
		{
			description: "number",
			connect:     func() error { return g.ConnectNumber(p.Gain, nil) },
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			err := test.connect()
			assert.ErrorIs(t, err, flo.ErrNotConnected)
			var ce *flo.ConnectionError
			assert.True(t, errors.As(err, &ce))
			assert.Empty(t, ce.Src)
		})
	}
	// existing connections are kept.
	assert.Equal(t, p.SoundSource, r.Input.Source())
	assert.NotNil(t, p.Gain.Source())
}

func TestGraphRenderPanic(t *testing.T) {
	g := flo.New()
	r := flo.NewSoundResult()
	assert.NoError(t, g.ConnectSound(r.Input, flo.NewSoundSource("broken", panicRenderer{}, nil)))

	c := flo.Chunk{}
	c.Fill(flo.Mono(1))
	err := g.Render(r, &c)
	assert.Error(t, err)
	assert.Equal(t, flo.Sample{}, c[0])
}

func TestGraphConcurrentEdits(t *testing.T) {
	g := flo.New()
	r := flo.NewSoundResult()
	v := mock.NewVoices()
	assert.NoError(t, g.ConnectSound(r.Input, v))
	assert.NoError(t, g.ConnectSound(v.Input, mock.NewSource(1)))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			g.Edit(func() { v.Input.AddKey(i) })
		}
	}()
	go func() {
		defer wg.Done()
		var c flo.Chunk
		for i := 0; i < 100; i++ {
			assert.NoError(t, g.Render(r, &c))
		}
	}()
	wg.Wait()

	var c flo.Chunk
	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Mono(100), c[0])

	g.Reset(r)
	g.Destroy(v)
	assert.NoError(t, g.Render(r, &c))
	assert.Equal(t, flo.Sample{}, c[0])
}
