// Package mp3 decodes mp3 files into assets.
package mp3

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/dudk/flo/asset"
	"github.com/dudk/flo/signal"
)

// Load decodes the mp3 file at path into a new asset.
func Load(path string) (*asset.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", path, err)
	}
	return a, nil
}

// Decode reads the whole mp3 stream into a new asset.
func Decode(r io.Reader) (*asset.Asset, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	// decoder always provides 16 bit little endian stereo.
	b, err := io.ReadAll(d)
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(b)/2)
	for i := range ints {
		ints[i] = int(int16(binary.LittleEndian.Uint16(b[2*i:])))
	}
	return &asset.Asset{
		SampleRate: d.SampleRate(),
		Frames: signal.InterInt{
			Data:        ints,
			NumChannels: 2,
			BitDepth:    signal.BitDepth16,
		}.AsFrames(),
	}, nil
}
