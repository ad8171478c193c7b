package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dudk/flo/log"
)

type config struct {
	args   []string
	stdout io.Writer
	log    *logrus.Logger
}

type command interface {
	Name() string
	Help() string
	Run(*config) error
	Register(*flag.FlagSet)
}

func (config *config) run() int {
	cmdName, args := parseArgs(config.args)
	if cmdName == "" {
		config.printUsage()
		return errorExitCode
	}

	for _, cmd := range commands() {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		flags.SetOutput(config.stdout)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if err := cmd.Run(config); err != nil {
			fmt.Fprintf(config.stdout, "Command failed: %v\n", err)
			return errorExitCode
		}
		return successExitCode
	}
	fmt.Fprintf(config.stdout, "Unknown command: %v\n", cmdName)
	config.printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
)

func commands() []command {
	return []command{
		&renderCommand{},
		&playCommand{},
		&replCommand{},
	}
}

func main() {
	c := config{
		args:   os.Args,
		stdout: os.Stdout,
		log:    log.GetLogger(),
	}
	os.Exit(c.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func (config *config) printUsage() {
	fmt.Fprintln(config.stdout, "Flo renders a synthesizer patch")
	fmt.Fprintln(config.stdout)
	fmt.Fprintln(config.stdout, "Usage: flo <command> [flags]")
	fmt.Fprintln(config.stdout)
	fmt.Fprintln(config.stdout, "Commands:")
	for _, cmd := range commands() {
		fmt.Fprintf(config.stdout, "\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}
