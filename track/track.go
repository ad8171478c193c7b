// Package track provides a sound source which plays asset clips placed on
// a timeline.
package track

import (
	"cmp"
	"slices"

	"github.com/dudk/flo"
	"github.com/dudk/flo/asset"
)

// Track is a sequence of clips which don't overlap. Clip positions are
// samples of the track's own time, so the same track plays independently
// in every context. Clips must be edited through the graph which renders
// the track.
type Track struct {
	*flo.SoundSource
	clips []clip
}

// clip is a clip placed in the track.
type clip struct {
	pos int64
	asset.Clip
}

// end returns the position right after the last frame of clip.
func (c clip) end() int64 {
	return c.pos + int64(c.Len)
}

// trim returns the part of clip in [from, to) range.
func (c clip) trim(from, to int64) clip {
	c.Start += int(from - c.pos)
	c.Len = int(to - from)
	c.pos = from
	return c
}

// New returns an empty track.
func New() *Track {
	t := &Track{}
	t.SoundSource = flo.NewSoundSource("track", t, nil)
	return t
}

// AddClip places the clip at pos. Parts of other clips covered by the new
// one are removed.
func (t *Track) AddClip(pos int64, c asset.Clip) {
	if c.Len <= 0 {
		return
	}
	added := clip{pos: pos, Clip: c}
	clips := make([]clip, 0, len(t.clips)+2)
	for _, old := range t.clips {
		if old.end() <= added.pos || old.pos >= added.end() {
			clips = append(clips, old)
			continue
		}
		if old.pos < added.pos {
			clips = append(clips, old.trim(old.pos, added.pos))
		}
		if old.end() > added.end() {
			clips = append(clips, old.trim(added.end(), old.end()))
		}
	}
	clips = append(clips, added)
	slices.SortFunc(clips, func(a, b clip) int {
		return cmp.Compare(a.pos, b.pos)
	})
	t.clips = clips
}

// Clear removes all clips.
func (t *Track) Clear() {
	t.clips = nil
}

// Len returns the position right after the last clip.
func (t *Track) Len() int64 {
	if len(t.clips) == 0 {
		return 0
	}
	return t.clips[len(t.clips)-1].end()
}

// RenderChunk implements flo.Renderer.
func (t *Track) RenderChunk(c *flo.Chunk, s *flo.State) {
	pos := s.Samples()
	// first clip which isn't over yet.
	i, _ := slices.BinarySearchFunc(t.clips, pos, func(c clip, pos int64) int {
		if c.end() <= pos {
			return -1
		}
		return 1
	})
	for j := range c {
		for i < len(t.clips) && pos >= t.clips[i].end() {
			i++
		}
		c[j] = flo.Sample{}
		if i < len(t.clips) && pos >= t.clips[i].pos {
			c[j] = t.clips[i].Frame(int(pos - t.clips[i].pos))
		}
		pos++
	}
}
