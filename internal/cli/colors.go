package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"

	"github.com/amterp/tally/internal/model"
)

func registerColors(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("colors")
	cmd.SetDescription("Show the counter color palette")

	ctx.ColorsJSON, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ColorsUsed, _ = parent.RegisterCmd(cmd)
}

func runColors(global AppOptions, jsonOutput bool) {
	app, err := NewApp(global)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	if err := printPalette(os.Stdout, app.Config.ResolvedPalette(), jsonOutput); err != nil {
		Fatal(err)
	}
}

// paletteEntry is one row of `tally colors --json`.
type paletteEntry struct {
	Key   int    `json:"key"` // filter toggle key in the terminal UI
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Usage string `json:"usage,omitempty"`
}

func printPalette(w io.Writer, palette model.Palette, jsonOutput bool) error {
	entries := make([]paletteEntry, 0, len(model.AllColors()))
	for i, c := range model.AllColors() {
		e := paletteEntry{Key: i + 1, Name: c.String(), Hex: palette.Hex(c)}
		if e.Hex == "" {
			e.Usage = "terminal default"
		}
		entries = append(entries, e)
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		hex := e.Hex
		if hex == "" {
			hex = RenderMuted(e.Usage)
		}
		fmt.Fprintf(w, "%d %s %s\n", e.Key, ColorSwatch(e.Hex), LabelValue(e.Name, hex, 8))
	}
	return nil
}
