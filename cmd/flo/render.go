package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dudk/flo"
	"github.com/dudk/flo/signal"
	"github.com/dudk/flo/wav"
)

type renderCommand struct {
	patch    patch
	out      string
	duration time.Duration
	bitDepth int
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render the patch to wav file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	cmd.patch.register(fs)
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.DurationVar(&cmd.duration, "duration", 5*time.Second, "rendered duration")
	fs.IntVar(&cmd.bitDepth, "bitdepth", 16, "bit depth of output: 16, 24 or 32")
}

func (cmd *renderCommand) Run(config *config) error {
	if cmd.out == "" {
		return fmt.Errorf("missing -out required flag")
	}
	l := config.log.WithField("command", cmd.Name())
	g := flo.New(flo.WithLogger(l), flo.WithName(cmd.Name()))
	r, err := cmd.patch.build(g)
	if err != nil {
		return err
	}
	if err := cmd.patch.load(context.Background()); err != nil {
		return err
	}
	if err := wav.Render(g, r, cmd.out, cmd.duration, wav.WithBitDepth(signal.BitDepth(cmd.bitDepth))); err != nil {
		return err
	}
	fmt.Fprintf(config.stdout, "Rendered %v to %v\n", cmd.duration, cmd.out)
	return nil
}
