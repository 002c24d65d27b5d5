package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"steamledger/internal/di"
	"steamledger/internal/structures"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func parseFlags(args []string) (*structures.CliFlags, error) {
	flags := &structures.CliFlags{}
	fs := pflag.NewFlagSet("steamledger", pflag.ContinueOnError)
	fs.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the config file")
	fs.BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console at debug level")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: steamledger [flags] [%s|%s|%s]\n",
			structures.CommandRun, structures.CommandUploadAll, structures.CommandServe)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
		flags.Command = structures.CommandRun
	case 1:
		flags.Command = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one command, got %d", fs.NArg())
	}
	switch flags.Command {
	case structures.CommandRun, structures.CommandUploadAll, structures.CommandServe:
	default:
		return nil, fmt.Errorf("unknown command %q", flags.Command)
	}
	return flags, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	stderr := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		stderr.Error().Err(err).Msg("invalid arguments")
		return 1
	}

	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		stderr.Error().Err(err).Msg("unable to start")
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flags.Command == structures.CommandServe {
		// Serve installs its own signal handling for graceful shutdown.
		stop()
	}
	if err := app.Execute(ctx, flags.Command); err != nil {
		return 1
	}
	return 0
}
