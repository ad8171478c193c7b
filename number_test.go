package flo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flo"
	"github.com/dudk/flo/internal/mock"
)

func constant(v float64) *flo.Function {
	return flo.NewFunction("constant", func(*flo.State) float64 { return v })
}

func sum() (*flo.Function, *flo.NumberInput, *flo.NumberInput) {
	var a, b *flo.NumberInput
	f := flo.NewFunction("sum", func(ctx *flo.State) float64 {
		return a.Evaluate(ctx) + b.Evaluate(ctx)
	})
	a, b = f.NewInput(0), f.NewInput(0)
	return f, a, b
}

// voices returns result -> voices -> processor -> source(1) with two keys.
func voices(t *testing.T) (*flo.SoundResult, *mock.Voices, *mock.Processor) {
	t.Helper()
	r := flo.NewSoundResult()
	v := mock.NewVoices()
	p := mock.NewProcessor()
	assert.NoError(t, r.Input.SetSource(v))
	assert.NoError(t, v.Input.SetSource(p))
	assert.NoError(t, p.Input.SetSource(mock.NewSource(1)))
	v.Input.AddKey(1)
	v.Input.AddKey(2)
	return r, v, p
}

func TestNumberInputDefault(t *testing.T) {
	res := flo.NewNumberResult(3)
	assert.Equal(t, 3.0, res.Evaluate())
	res.Input.SetDefault(4)
	assert.Equal(t, 4.0, res.Input.Default())
	assert.Equal(t, 4.0, res.Evaluate())
}

func TestStatelessSource(t *testing.T) {
	res := flo.NewNumberResult(0)
	f, a, b := sum()
	assert.NoError(t, a.SetSource(constant(2)))
	b.SetDefault(3)

	assert.True(t, res.Input.IsSafeSource(f))
	assert.NoError(t, res.Input.SetSource(f))
	assert.Equal(t, 5.0, res.Evaluate())

	assert.ErrorIs(t, a.SetSource(f), flo.ErrCycle)
	assert.NoError(t, res.Input.SetSource(nil))
	assert.Nil(t, res.Input.Source())
}

func TestVoiceStateToGlobal(t *testing.T) {
	_, v, _ := voices(t)
	res := flo.NewNumberResult(0)

	assert.False(t, res.Input.IsSafeSource(v.Key))
	assert.ErrorIs(t, res.Input.SetSource(v.Key), flo.ErrUnsafeSource)
	assert.Nil(t, res.Input.Source())

	// through a function
	f, a, _ := sum()
	assert.NoError(t, res.Input.SetSource(f))
	assert.ErrorIs(t, a.SetSource(v.Key), flo.ErrUnsafeSource)
	assert.Nil(t, a.Source())
}

func TestVoiceStateBelowVoice(t *testing.T) {
	r, v, p := voices(t)
	assert.True(t, p.Gain.IsSafeSource(v.Key))
	assert.NoError(t, p.Gain.SetSource(v.Key))

	var c flo.Chunk
	r.NextChunk(&c)
	assert.Equal(t, flo.Mono(3), c[0])
	assert.Equal(t, flo.Mono(3), c[flo.ChunkSize-1])

	// processor would be reachable without a voice.
	other := flo.NewSoundResult()
	assert.False(t, other.Input.CanSetSource(p))
	assert.ErrorIs(t, other.Input.SetSource(p), flo.ErrUnsafeSource)
	assert.Nil(t, other.Input.Source())

	// processor would lose the voice.
	assert.ErrorIs(t, v.Input.SetSource(nil), flo.ErrStrandsState)
	assert.Same(t, p.SoundSource, v.Input.Source())

	assert.NoError(t, p.Gain.SetSource(nil))
	assert.NoError(t, other.Input.SetSource(p))
}

func TestVoiceStateAboveVoice(t *testing.T) {
	r, v, _ := voices(t)
	q := mock.NewProcessor()
	assert.NoError(t, r.Input.SetSource(q))
	assert.NoError(t, q.Input.SetSource(v))

	assert.False(t, q.Gain.IsSafeSource(v.Key))
	assert.ErrorIs(t, q.Gain.SetSource(v.Key), flo.ErrUnsafeSource)
}

func TestOwnState(t *testing.T) {
	r := flo.NewSoundResult()
	p := mock.NewProcessor()
	src := mock.NewSource(1)
	assert.NoError(t, r.Input.SetSource(p))
	assert.NoError(t, p.Input.SetSource(src))

	assert.NoError(t, p.Gain.SetSource(p.Time))
	var c flo.Chunk
	r.NextChunk(&c)
	assert.Equal(t, 0.0, c[0].L)
	assert.Equal(t, 1.0/flo.SampleRate, c[1].L)
	r.NextChunk(&c)
	assert.Equal(t, float64(flo.ChunkSize)/flo.SampleRate, c[0].L)

	// state of a source below is not reachable.
	assert.ErrorIs(t, p.Gain.SetSource(src.Time), flo.ErrUnsafeSource)
	assert.ErrorIs(t, p.Gain.SetSource(src.Rendered), flo.ErrUnsafeSource)
}

func TestBorrowing(t *testing.T) {
	r := flo.NewSoundResult()
	p := mock.NewProcessor()
	assert.NoError(t, r.Input.SetSource(p))
	assert.NoError(t, p.Input.SetSource(mock.NewSource(1)))

	b := mock.NewBorrower()
	assert.Nil(t, b.Host())
	assert.NoError(t, p.Gain.SetSource(b))
	assert.Equal(t, p.Node, b.Host())
	assert.Equal(t, 1, p.StateTable().NumBorrowers())

	var c flo.Chunk
	r.NextChunk(&c)
	assert.Equal(t, flo.Mono(1), c[0])
	assert.Equal(t, flo.Mono(flo.ChunkSize), c[flo.ChunkSize-1])
	r.NextChunk(&c)
	assert.Equal(t, flo.Mono(flo.ChunkSize+1), c[0])

	r.Reset()
	r.NextChunk(&c)
	assert.Equal(t, flo.Mono(1), c[0])

	// the second host is rejected.
	q := mock.NewProcessor()
	assert.False(t, q.Gain.IsSafeSource(b))
	assert.ErrorIs(t, q.Gain.SetSource(b), flo.ErrUnsafeSource)
	assert.ErrorIs(t, flo.NewNumberResult(0).Input.SetSource(b), flo.ErrUnsafeSource)

	assert.NoError(t, p.Gain.SetSource(nil))
	assert.Nil(t, b.Host())
	assert.Equal(t, 0, p.StateTable().NumBorrowers())
	assert.NoError(t, q.Gain.SetSource(b))
	assert.Equal(t, q.Node, b.Host())
}

func TestBorrowingPerVoice(t *testing.T) {
	r, _, p := voices(t)
	b := mock.NewBorrower()
	f, in, _ := sum()
	assert.NoError(t, in.SetSource(b))
	assert.NoError(t, p.Gain.SetSource(f))
	assert.Equal(t, p.Node, b.Host())

	var c flo.Chunk
	r.NextChunk(&c)
	// both voices count their own evaluations.
	assert.Equal(t, flo.Mono(2), c[0])
	assert.Equal(t, flo.Mono(2*flo.ChunkSize), c[flo.ChunkSize-1])
}
