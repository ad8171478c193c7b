package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"github.com/dudk/flo"
	"github.com/dudk/flo/metric"
	"github.com/dudk/flo/portaudio"
	"github.com/dudk/flo/sampler"
)

type replCommand struct {
	patch patch
}

func (cmd *replCommand) Name() string {
	return "repl"
}

func (cmd *replCommand) Help() string {
	return "Play the patch and edit it interactively"
}

func (cmd *replCommand) Register(fs *flag.FlagSet) {
	cmd.patch.register(fs)
}

func (cmd *replCommand) Run(config *config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := config.log.WithField("command", cmd.Name())
	g := flo.New(flo.WithLogger(l), flo.WithName(cmd.Name()))
	r, err := cmd.patch.build(g)
	if err != nil {
		return err
	}
	cmd.patch.loadAsync(ctx, l)

	player := portaudio.NewPlayer(g, r, portaudio.WithLogger(l))
	if err := player.Start(); err != nil {
		return err
	}
	defer player.Stop()

	rl, err := readline.New("flo> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	e := &env{ctx: ctx, graph: g, patch: &cmd.patch, log: l}
	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Fprintln(config.stdout, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := e.eval(line)
		if err == errQuit {
			return nil
		}
		if err != nil {
			fmt.Fprintln(config.stdout, err)
			continue
		}
		if result != "" {
			fmt.Fprintln(config.stdout, result)
		}
	}
}

var errQuit = errors.New("quit")

type env struct {
	ctx   context.Context
	graph *flo.Graph
	patch *patch
	log   logrus.FieldLogger
}

type replFunc struct {
	name  string
	help  string
	arity int
	run   func(*env, []string) (string, error)
}

var replFuncs = []replFunc{
	{"freq", "set center frequency in Hz", 1, func(e *env, args []string) (string, error) {
		return "", e.setDefault(e.patch.ensemble.Frequency, args[0])
	}},
	{"amp", "set oscillator amplitude", 1, func(e *env, args []string) (string, error) {
		return "", e.setDefault(e.patch.level.Input, args[0])
	}},
	{"cutoff", "set low-pass cutoff in Hz", 1, func(e *env, args []string) (string, error) {
		return "", e.setDefault(e.patch.lowpass.Cutoff, args[0])
	}},
	{"spread", "set relative spread of voices", 1, func(e *env, args []string) (string, error) {
		return "", e.setDefault(e.patch.ensemble.Spread, args[0])
	}},
	{"speed", "set playback speed of samples", 1, func(e *env, args []string) (string, error) {
		for _, s := range e.patch.samplers {
			if err := e.setDefault(s.Speed, args[0]); err != nil {
				return "", err
			}
		}
		return "", nil
	}},
	{"voices", "set number of voices", 1, voicesFunc},
	{"load", "mix a wav or mp3 file into the output", 1, loadFunc},
	{"clip", "place loaded sample <n> on the track at <seconds>", 2, clipFunc},
	{"reset", "restart every node from the beginning", 0, func(e *env, _ []string) (string, error) {
		e.graph.Reset(e.patch.result)
		return "", nil
	}},
	{"states", "print number of states per node", 0, statesFunc},
	{"stats", "print rendering metrics", 0, statsFunc},
	{"quit", "stop playback and exit", 0, func(*env, []string) (string, error) {
		return "", errQuit
	}},
}

func (e *env) eval(line string) (string, error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	if name == "help" {
		return usage(), nil
	}
	for _, f := range replFuncs {
		if f.name != name {
			continue
		}
		if len(args) != f.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v", name, f.arity, len(args))
		}
		result, err := f.run(e, args)
		if err != nil && err != errQuit {
			return result, fmt.Errorf("%s error: %w", name, err)
		}
		return result, err
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func (e *env) setDefault(in *flo.NumberInput, arg string) error {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return err
	}
	e.graph.Edit(func() {
		in.SetDefault(v)
	})
	return nil
}

func voicesFunc(e *env, args []string) (string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("negative number of voices: %v", n)
	}
	e.graph.Edit(func() {
		e.patch.ensemble.SetVoices(n)
	})
	return "", nil
}

// loadFunc adds a new sampler to the mixer. It's silent until the file
// is decoded.
func loadFunc(e *env, args []string) (string, error) {
	s := sampler.New()
	s.Speed.SetDefault(e.patch.speed)
	var err error
	e.graph.Edit(func() {
		err = e.patch.mixer.AddInput().SetSource(s)
	})
	if err != nil {
		return "", err
	}
	e.patch.samples = append(e.patch.samples, args[0])
	e.patch.samplers = append(e.patch.samplers, s)
	watch(s.LoadFile(e.ctx, args[0]), e.log.WithField("sample", args[0]))
	return fmt.Sprintf("loading %v", args[0]), nil
}

func clipFunc(e *env, args []string) (string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	at, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return "", err
	}
	if n < 0 || n >= len(e.patch.samplers) {
		return "", fmt.Errorf("no sample %d", n)
	}
	a := e.patch.samplers[n].Asset()
	if a == nil {
		return "", fmt.Errorf("sample %d is not loaded", n)
	}
	if at < 0 {
		return "", fmt.Errorf("negative position: %v", at)
	}
	e.graph.Edit(func() {
		e.patch.track.AddClip(int64(at*flo.SampleRate), a.Clip(0, a.Len()))
	})
	return "", nil
}

func statesFunc(e *env, _ []string) (string, error) {
	var b strings.Builder
	e.graph.Edit(func() {
		for _, n := range e.patch.result.AllDependencies() {
			fmt.Fprintf(&b, "%s\t%d\n", n.Name(), n.StateTable().NumSlots())
		}
	})
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func statsFunc(*env, []string) (string, error) {
	all := metric.GetAll()
	components := make([]string, 0, len(all))
	for c := range all {
		components = append(components, c)
	}
	sort.Strings(components)
	var b strings.Builder
	for _, c := range components {
		fmt.Fprintf(&b, "%s:", c)
		counters := all[c]
		names := make([]string, 0, len(counters))
		for n := range counters {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&b, " %s=%s", n, counters[n])
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func usage() string {
	var b strings.Builder
	for _, f := range replFuncs {
		fmt.Fprintf(&b, "%s\t%s\n", f.name, f.help)
	}
	b.WriteString("help\tprint this message")
	return b.String()
}
