package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/resumes/cmd/app/commands"
	"github.com/allisson/resumes/internal/app"
	"github.com/allisson/resumes/internal/config"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "healthcheck",
			Usage: "Check database and blob storage connectivity",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunHealthcheck(ctx)
			},
		},
	}
}
