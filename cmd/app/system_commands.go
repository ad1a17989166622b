package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envshare/cmd/app/commands"
	"github.com/allisson/envshare/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Serve the vault API until interrupted",
			Action: func(ctx context.Context, _ *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply SQL migrations for the configured store driver",
			Action: withContainer(func(_ context.Context, _ *cli.Command, container *app.Container) error {
				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), cfg.StoreDriver, cfg.DBConnectionString)
			}),
		},
		{
			Name:  "sweep-expired",
			Usage: "Delete every secret whose time to live has passed",
			Flags: []cli.Flag{formatFlag()},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				useCase, err := container.VaultUseCase()
				if err != nil {
					return err
				}
				return commands.RunSweepExpired(ctx, useCase, container.Logger(), os.Stdout, cmd.String("format"))
			}),
		},
	}
}
