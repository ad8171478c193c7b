package track_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flo"
	"github.com/dudk/flo/asset"
	"github.com/dudk/flo/resampler"
	"github.com/dudk/flo/track"
)

func constant(v float64, n int) *asset.Asset {
	a := asset.New()
	for i := 0; i < n; i++ {
		a.Frames = append(a.Frames, flo.Mono(v))
	}
	return a
}

var (
	asset1 = constant(1, 10)
	asset2 = constant(2, 10)

	overlapTests = []struct {
		clips  []asset.Clip
		pos    []int64
		result []float64
		msg    string
	}{
		{
			clips:  []asset.Clip{asset1.Clip(3, 1), asset2.Clip(5, 3)},
			pos:    []int64{3, 4},
			result: []float64{0, 0, 0, 1, 2, 2, 2, 0},
			msg:    "Sequence",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 1), asset2.Clip(5, 3)},
			pos:    []int64{2, 3},
			result: []float64{0, 0, 1, 2, 2, 2},
			msg:    "Sequence shifted left",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 1), asset2.Clip(5, 3)},
			pos:    []int64{2, 4},
			result: []float64{0, 0, 1, 0, 2, 2, 2, 0},
			msg:    "Sequence with interval",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 3), asset2.Clip(5, 2)},
			pos:    []int64{3, 2},
			result: []float64{0, 0, 2, 2, 1, 1},
			msg:    "Overlap previous",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 3), asset2.Clip(5, 2)},
			pos:    []int64{2, 4},
			result: []float64{0, 0, 1, 1, 2, 2},
			msg:    "Overlap next",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 5), asset2.Clip(5, 2)},
			pos:    []int64{2, 4},
			result: []float64{0, 0, 1, 1, 2, 2, 1, 0},
			msg:    "Overlap single in the middle",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 2), asset1.Clip(3, 2), asset2.Clip(5, 2)},
			pos:    []int64{2, 5, 4},
			result: []float64{0, 0, 1, 1, 2, 2, 1, 0},
			msg:    "Overlap two in the middle",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 2), asset1.Clip(5, 2), asset2.Clip(3, 2)},
			pos:    []int64{2, 5, 3},
			result: []float64{0, 0, 1, 2, 2, 1, 1, 0},
			msg:    "Overlap two in the middle shifted",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 2), asset2.Clip(3, 5)},
			pos:    []int64{2, 2},
			result: []float64{0, 0, 2, 2, 2, 2, 2, 0},
			msg:    "Overlap single completely",
		},
		{
			clips:  []asset.Clip{asset1.Clip(3, 2), asset1.Clip(5, 2), asset2.Clip(1, 8)},
			pos:    []int64{2, 5, 1},
			result: []float64{0, 2, 2, 2, 2, 2, 2, 2, 2, 0},
			msg:    "Overlap two completely",
		},
	}
)

func TestClipOverlaps(t *testing.T) {
	for _, test := range overlapTests {
		r := flo.NewSoundResult()
		tr := track.New()
		assert.NoError(t, r.Input.SetSource(tr))
		for i, c := range test.clips {
			tr.AddClip(test.pos[i], c)
		}

		var c flo.Chunk
		r.NextChunk(&c)
		for i, v := range test.result {
			assert.Equal(t, flo.Mono(v), c[i], "%v: sample %d", test.msg, i)
		}
	}
}

func TestClipsAcrossChunks(t *testing.T) {
	r := flo.NewSoundResult()
	tr := track.New()
	assert.NoError(t, r.Input.SetSource(tr))
	long := constant(1, 2*flo.ChunkSize)
	tr.AddClip(flo.ChunkSize/2, long.Clip(0, flo.ChunkSize))
	tr.AddClip(3*flo.ChunkSize, asset2.Clip(0, 1))
	assert.Equal(t, int64(3*flo.ChunkSize+1), tr.Len())

	var c flo.Chunk
	r.NextChunk(&c)
	assert.Equal(t, flo.Sample{}, c[flo.ChunkSize/2-1])
	assert.Equal(t, flo.Mono(1), c[flo.ChunkSize/2])
	r.NextChunk(&c)
	assert.Equal(t, flo.Mono(1), c[flo.ChunkSize/2-1])
	assert.Equal(t, flo.Sample{}, c[flo.ChunkSize/2])
	r.NextChunk(&c)
	r.NextChunk(&c)
	assert.Equal(t, flo.Mono(2), c[0])
	assert.Equal(t, flo.Sample{}, c[1])

	tr.Clear()
	assert.Equal(t, int64(0), tr.Len())
	r.Reset()
	r.NextChunk(&c)
	assert.Equal(t, flo.Chunk{}, c)
}

func TestTrackSpeed(t *testing.T) {
	r := flo.NewSoundResult()
	rs := resampler.New()
	rs.Speed.SetDefault(2)
	tr := track.New()
	assert.NoError(t, r.Input.SetSource(rs))
	assert.NoError(t, rs.Input.SetSource(tr))
	tr.AddClip(flo.ChunkSize, constant(1, flo.ChunkSize).Clip(0, flo.ChunkSize))

	var c flo.Chunk
	r.NextChunk(&c)
	// the clip starts in the middle of the first output chunk.
	assert.Equal(t, flo.Sample{}, c[flo.ChunkSize/2-1])
	assert.Equal(t, flo.Mono(1), c[flo.ChunkSize/2+1])
}
