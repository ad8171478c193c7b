package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/dudk/flo"
	"github.com/dudk/flo/portaudio"
)

type playCommand struct {
	patch    patch
	duration time.Duration
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play the patch on default device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	cmd.patch.register(fs)
	fs.DurationVar(&cmd.duration, "duration", 0, "playback duration, interrupt to stop if not set")
}

func (cmd *playCommand) Run(config *config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cmd.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.duration)
		defer cancel()
	}

	l := config.log.WithField("command", cmd.Name())
	g := flo.New(flo.WithLogger(l), flo.WithName(cmd.Name()))
	r, err := cmd.patch.build(g)
	if err != nil {
		return err
	}
	cmd.patch.loadAsync(ctx, l)
	return portaudio.NewPlayer(g, r, portaudio.WithLogger(l)).Play(ctx)
}
