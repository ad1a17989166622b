package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envshare/internal/app"
	"github.com/allisson/envshare/internal/config"
)

func getCommands(version string) []*cli.Command {
	return append(getSystemCommands(version), getAPIKeyCommands()...)
}

// withContainer gives an action a container built from the environment and shuts it down
// once the action returns.
func withContainer(action func(ctx context.Context, cmd *cli.Command, container *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() { _ = container.Shutdown(context.Background()) }()

		return action(ctx, cmd, container)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "output format, text or json",
	}
}
