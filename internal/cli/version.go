package cli

import (
	"fmt"

	"github.com/amterp/ra"

	"github.com/amterp/tally/internal/version"
)

func registerVersion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("version")
	cmd.SetDescription("Print version information")

	ctx.VersionUsed, _ = parent.RegisterCmd(cmd)
}

func runVersion() {
	fmt.Println(version.Info())
	fmt.Println(RenderMuted("config schema: " + version.CurrentConfigSchema()))
}
