package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dudk/flo"
	"github.com/dudk/flo/ensemble"
	"github.com/dudk/flo/filter"
	"github.com/dudk/flo/mixer"
	"github.com/dudk/flo/number"
	"github.com/dudk/flo/sampler"
	"github.com/dudk/flo/track"
	"github.com/dudk/flo/wave"
)

// stringList is a flag of semicolon separated values.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ";")
}

func (l *stringList) Set(value string) error {
	for _, v := range strings.Split(value, ";") {
		if v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

var waveforms = map[string]wave.Waveform{
	"sine":     wave.Sine,
	"saw":      wave.Saw,
	"square":   wave.Square,
	"triangle": wave.Triangle,
}

// patch is an ensemble of oscillators going through a low-pass filter,
// mixed with samples and a track of sample clips:
//
//	result <- mixer <- lowpass <- ensemble <- oscillator
//	             ^---- track
//	             ^---- sampler
type patch struct {
	waveform  string
	frequency float64
	amplitude float64
	voices    int
	spread    float64
	cutoff    float64
	speed     float64
	samples   stringList

	result     *flo.SoundResult
	oscillator *wave.Oscillator
	ensemble   *ensemble.Ensemble
	lowpass    *filter.Lowpass
	mixer      *mixer.Mixer
	track      *track.Track
	level      *number.Smoother
	samplers   []*sampler.Sampler
}

func (p *patch) register(fs *flag.FlagSet) {
	fs.StringVar(&p.waveform, "wave", "saw", "oscillator waveform: sine, saw, square or triangle")
	fs.Float64Var(&p.frequency, "freq", 220, "frequency in Hz")
	fs.Float64Var(&p.amplitude, "amp", 0.3, "oscillator amplitude")
	fs.IntVar(&p.voices, "voices", 3, "number of ensemble voices")
	fs.Float64Var(&p.spread, "spread", 0.01, "relative frequency spread of voices")
	fs.Float64Var(&p.cutoff, "cutoff", 2000, "low-pass cutoff in Hz")
	fs.Float64Var(&p.speed, "speed", 1, "playback speed of samples")
	fs.Var(&p.samples, "sample", "semicolon separated wav or mp3 files mixed into the output")
}

// build creates nodes and wires them with g. Samplers are created without
// assets.
func (p *patch) build(g *flo.Graph) (*flo.SoundResult, error) {
	w, ok := waveforms[p.waveform]
	if !ok {
		return nil, fmt.Errorf("unknown waveform: %v", p.waveform)
	}
	if p.voices < 0 {
		return nil, fmt.Errorf("negative number of voices: %v", p.voices)
	}
	p.result = flo.NewSoundResult()
	p.oscillator = wave.New(wave.WithWaveform(w))
	p.ensemble = ensemble.New(ensemble.WithVoices(p.voices))
	p.ensemble.Frequency.SetDefault(p.frequency)
	p.ensemble.Spread.SetDefault(p.spread)
	p.lowpass = filter.NewLowpass()
	p.lowpass.Cutoff.SetDefault(p.cutoff)
	p.mixer = mixer.New(mixer.WithInputs(2))
	p.track = track.New()
	p.level = number.NewSmoother()
	p.level.Input.SetDefault(p.amplitude)

	sounds := []struct {
		in  flo.SoundInput
		src flo.Source
	}{
		{p.result.Input, p.mixer},
		{p.mixer.Inputs()[0], p.lowpass},
		{p.mixer.Inputs()[1], p.track},
		{p.lowpass.Input, p.ensemble},
		{p.ensemble.Input, p.oscillator},
	}
	for range p.samples {
		s := sampler.New()
		s.Speed.SetDefault(p.speed)
		p.samplers = append(p.samplers, s)
		sounds = append(sounds, struct {
			in  flo.SoundInput
			src flo.Source
		}{p.mixer.AddInput(), s})
	}
	for _, w := range sounds {
		if err := g.ConnectSound(w.in, w.src); err != nil {
			return nil, err
		}
	}

	numbers := []struct {
		in  *flo.NumberInput
		src flo.NumberSource
	}{
		{p.oscillator.Frequency, p.ensemble.VoiceFrequency},
		{p.oscillator.Amplitude, p.level},
	}
	for _, w := range numbers {
		if err := g.ConnectNumber(w.in, w.src); err != nil {
			return nil, err
		}
	}
	return p.result, nil
}

// load decodes all samples and blocks until they're set.
func (p *patch) load(ctx context.Context) error {
	assets, err := sampler.LoadFiles(ctx, p.samples...)
	if err != nil {
		return err
	}
	for i, a := range assets {
		p.samplers[i].SetAsset(a)
	}
	return nil
}

// loadAsync starts loading of all samples. Samplers are silent until their
// files are decoded.
func (p *patch) loadAsync(ctx context.Context, l logrus.FieldLogger) {
	for i, path := range p.samples {
		watch(p.samplers[i].LoadFile(ctx, path), l.WithField("sample", path))
	}
}

func watch(errc <-chan error, l logrus.FieldLogger) {
	go func() {
		if err := <-errc; err != nil {
			l.WithError(err).Warn("load failed")
			return
		}
		l.Debug("loaded")
	}()
}
