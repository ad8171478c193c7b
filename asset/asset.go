// Package asset provides in-memory sound buffers. Assets are loaded from
// files for playback and recorded from rendered graphs.
package asset

import (
	"time"

	"github.com/dudk/flo"
	"github.com/dudk/flo/signal"
)

// Asset is a stereo sound stored in memory. It must not be modified once
// it's shared with a rendering node.
type Asset struct {
	SampleRate int
	Frames     []flo.Sample
}

// New returns an empty asset with engine sample rate.
func New() *Asset {
	return &Asset{SampleRate: flo.SampleRate}
}

// Append adds the chunk to the end of asset.
func (a *Asset) Append(c *flo.Chunk) {
	a.Frames = append(a.Frames, c[:]...)
}

// Len returns number of frames.
func (a *Asset) Len() int {
	return len(a.Frames)
}

// Duration returns the duration of asset.
func (a *Asset) Duration() time.Duration {
	return signal.DurationOf(a.SampleRate, int64(len(a.Frames)))
}

// At returns the frame at position i or silence if it's out of range.
func (a *Asset) At(i int) flo.Sample {
	if i < 0 || i >= len(a.Frames) {
		return flo.Sample{}
	}
	return a.Frames[i]
}

// Record renders chunks from the result into a new asset.
func Record(g *flo.Graph, r *flo.SoundResult, chunks int) (*Asset, error) {
	a := New()
	a.Frames = make([]flo.Sample, 0, chunks*flo.ChunkSize)
	var c flo.Chunk
	for i := 0; i < chunks; i++ {
		if err := g.Render(r, &c); err != nil {
			return nil, err
		}
		a.Append(&c)
	}
	return a, nil
}

// Clip is a range of asset frames.
type Clip struct {
	*Asset
	Start int
	Len   int
}

// Clip returns a range of len frames starting at start.
func (a *Asset) Clip(start, len int) Clip {
	return Clip{
		Asset: a,
		Start: start,
		Len:   len,
	}
}

// Frame returns the frame at position i of the clip or silence if it's
// out of range.
func (c Clip) Frame(i int) flo.Sample {
	if i < 0 || i >= c.Len {
		return flo.Sample{}
	}
	return c.Asset.At(c.Start + i)
}
