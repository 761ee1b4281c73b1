package cli

import (
	"fmt"
	"os"

	"github.com/amterp/ra"

	"github.com/amterp/tally/internal/config"
	"github.com/amterp/tally/internal/editor"
)

func registerConfig(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("config")
	cmd.SetDescription("Open the config file in your editor")

	ctx.ConfigShowPath, _ = ra.NewBool("path").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print the config file path instead of editing").
		Register(cmd)

	ctx.ConfigUsed, _ = parent.RegisterCmd(cmd)
}

func runConfig(global AppOptions, showPath bool) {
	path := config.ResolvePath(global.ConfigPath)

	if showPath {
		fmt.Println(path)
		return
	}

	created, err := ensureConfigFile(path)
	if err != nil {
		Fatal(err)
	}
	if created {
		PrintInfo("Created %s with defaults", path)
	}

	// A broken file must still be editable, so only the editor key is read here.
	cfg, _ := config.Load(path)
	var configured string
	if cfg != nil {
		configured = cfg.Editor
	}

	if err := editor.NewEditor(configured).EditFile(path); err != nil {
		Fatal(err)
	}

	if _, err := config.Load(path); err != nil {
		PrintError("Config has errors: %v", err)
		os.Exit(1)
	}
	PrintSuccess("Config saved. A running `tally serve` picks it up automatically.")
}

// ensureConfigFile writes the defaults to path if nothing is there yet.
func ensureConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return false, fmt.Errorf("create config: %w", err)
	}
	return true, nil
}
