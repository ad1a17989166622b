package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envshare/cmd/app/commands"
	"github.com/allisson/envshare/internal/app"
)

func getAPIKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-api-key",
			Usage: "Issue an API key for the secret endpoints",
			Flags: []cli.Flag{formatFlag()},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				useCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}
				return commands.RunCreateAPIKey(ctx, useCase, container.Logger(), os.Stdout, cmd.String("format"))
			}),
		},
		{
			Name:  "revoke-api-key",
			Usage: "Revoke an API key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "raw API key to revoke",
				},
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				useCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}
				return commands.RunRevokeAPIKey(ctx, useCase, container.Logger(), os.Stdout, cmd.String("key"))
			}),
		},
	}
}
