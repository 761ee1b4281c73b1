package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	ConfigPath *string
	LogLevel   *string

	// tui command
	TuiUsed *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// interactive command
	InteractiveUsed *bool

	// colors command
	ColorsUsed *bool
	ColorsJSON *bool

	// config command
	ConfigUsed     *bool
	ConfigShowPath *bool

	// version command
	VersionUsed *bool
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("tally")
	cmd.SetDescription("Keep count of things, in the terminal or the browser")

	ctx.ConfigPath, _ = ra.NewString("config").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Path to config file (default ~/.config/tally/config.toml)").
		Register(cmd, ra.WithGlobal(true))

	ctx.LogLevel, _ = ra.NewString("log-level").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Override the configured log level (debug, info, warn, error)").
		Register(cmd, ra.WithGlobal(true))

	registerTui(cmd, ctx)
	registerServe(cmd, ctx)
	registerInteractive(cmd, ctx)
	registerColors(cmd, ctx)
	registerConfig(cmd, ctx)
	registerVersion(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx)
}

func executeCommand(ctx *CommandContext) {
	global := AppOptions{
		ConfigPath: *ctx.ConfigPath,
		LogLevel:   *ctx.LogLevel,
	}

	switch {
	case *ctx.ServeUsed:
		runServe(global, *ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.InteractiveUsed:
		runInteractive(global)

	case *ctx.ColorsUsed:
		runColors(global, *ctx.ColorsJSON)

	case *ctx.ConfigUsed:
		runConfig(global, *ctx.ConfigShowPath)

	case *ctx.VersionUsed:
		runVersion()

	default:
		// tui is also what a bare `tally` runs.
		runTui(global)
	}
}
