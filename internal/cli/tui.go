package cli

import (
	"github.com/amterp/ra"

	"github.com/amterp/tally/internal/tui"
)

func registerTui(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("tui")
	cmd.SetDescription("Start the terminal interface (default)")

	ctx.TuiUsed, _ = parent.RegisterCmd(cmd)
}

func runTui(global AppOptions) {
	global.OwnsTerminal = true
	app, err := NewApp(global)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	if err := tui.Run(app.Session, app.Config.ResolvedPalette()); err != nil {
		Fatal(err)
	}
}
