package main

import "github.com/urfave/cli/v2"

// NewApp creates an app with sane defaults.
func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Card Lottery"
	s.app.Usage = "Pay-to-play card lottery engine"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "Path to the toml config file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves every lottery, prize pool and admin api.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Used to start worker that reveals lottery requests from randomness fulfillments.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to refresh the cached native price and the lottery gauges periodically.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "down",
					Usage: "Revert the last migration instead",
				},
			},
		},
		{
			Action:    s.generateToken,
			Name:      "token",
			Usage:     "Generate an access token",
			ArgsUsage: "<identity>",
			Category:  "Tool",
		},
	}
}
