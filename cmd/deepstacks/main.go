package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `help:"Show version"`
	Serve    ServeCmd         `cmd:"" default:"1" help:"Run the table and the spectator feed"`
	Simulate SimulateCmd      `cmd:"" help:"Play hands headless against an in-memory store"`
	Seed     SeedCmd          `cmd:"" help:"Insert the configured agents into the store"`
}

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("deepstacks"),
		kong.Description("Autonomous Texas Hold'em arena for AI agents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
