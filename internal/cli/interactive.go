package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/amterp/ra"
	"github.com/charmbracelet/huh"

	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/prompt"
	"github.com/amterp/tally/internal/service"
)

func registerInteractive(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("interactive")
	cmd.SetDescription("Manage counters through a guided prompt loop")

	ctx.InteractiveUsed, _ = parent.RegisterCmd(cmd)
}

func runInteractive(global AppOptions) {
	global.Interactive = true
	app, err := NewApp(global)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	loop := &interactiveLoop{
		session:  app.Session,
		prompter: app.Prompter,
		palette:  app.Config.ResolvedPalette(),
		out:      os.Stdout,
	}
	if err := loop.Run(); err != nil {
		Fatal(err)
	}
}

// Actions offered by the interactive loop.
const (
	actionAdd          = "add"
	actionIncrement    = "increment"
	actionDecrement    = "decrement"
	actionRename       = "rename"
	actionSetValue     = "set value"
	actionSetColor     = "set color"
	actionMove         = "move"
	actionDelete       = "delete"
	actionFilterColors = "filter colors"
	actionFilterText   = "filter text"
	actionToggleFilter = "toggle filter"
	actionList         = "list"
	actionQuit         = "quit"
)

var interactiveActions = []string{
	actionIncrement, actionDecrement, actionAdd, actionRename, actionSetValue,
	actionSetColor, actionMove, actionDelete, actionFilterColors, actionFilterText,
	actionToggleFilter, actionList, actionQuit,
}

var moveDirections = []string{"up", "down", "top", "bottom"}

// errNoCounters skips an action that needs a counter when none are shown.
var errNoCounters = errors.New("no counters to choose from")

type interactiveLoop struct {
	session  *service.Session
	prompter prompt.Prompter
	palette  model.Palette
	out      io.Writer
}

// Run prompts for actions until the user quits or aborts.
func (l *interactiveLoop) Run() error {
	for {
		action, err := l.prompter.Select("What next?", prompt.Options(interactiveActions...))
		if isAbort(err) || action == actionQuit {
			return nil
		}
		if err != nil {
			return err
		}

		err = l.do(action)
		switch {
		case isAbort(err):
			// Escaping a follow-up prompt returns to the action menu.
		case errors.Is(err, errNoCounters):
			PrintInfo("No counters shown. Add one or change the filter.")
		case err != nil:
			PrintError("%v", err)
		}
	}
}

func isAbort(err error) bool {
	return errors.Is(err, huh.ErrUserAborted) || errors.Is(err, prompt.ErrNonInteractive)
}

func (l *interactiveLoop) do(action string) error {
	switch action {
	case actionAdd:
		return l.add()
	case actionIncrement:
		return l.withCounter("Increment which counter?", func(c model.Counter) error {
			if !c.CanIncrement() {
				return nil
			}
			return l.session.Increment(c.ID)
		})
	case actionDecrement:
		return l.withCounter("Decrement which counter?", func(c model.Counter) error {
			if !c.CanDecrement() {
				return nil
			}
			return l.session.Decrement(c.ID)
		})
	case actionRename:
		return l.withCounter("Rename which counter?", func(c model.Counter) error {
			title, err := l.prompter.Input("New title", c.Title)
			if err != nil {
				return err
			}
			return l.session.SetTitle(c.ID, title)
		})
	case actionSetValue:
		return l.withCounter("Set which counter?", func(c model.Counter) error {
			value, err := l.prompter.Count("New value", c.Count)
			if err != nil {
				return err
			}
			return l.session.SetValue(c.ID, value)
		})
	case actionSetColor:
		return l.withCounter("Recolor which counter?", func(c model.Counter) error {
			color, err := l.prompter.Color("Color", c.Color)
			if err != nil {
				return err
			}
			return l.session.SetColor(c.ID, color)
		})
	case actionMove:
		return l.withCounter("Move which counter?", l.move)
	case actionDelete:
		return l.withCounter("Delete which counter?", func(c model.Counter) error {
			ok, err := l.prompter.Confirm(fmt.Sprintf("Delete %q?", c.Title), false)
			if err != nil || !ok {
				return err
			}
			return l.session.Delete(c.ID)
		})
	case actionFilterColors:
		return l.filterColors()
	case actionFilterText:
		text, err := l.prompter.Input("Show titles containing", l.session.FilterText())
		if err != nil {
			return err
		}
		l.session.SetFilterText(text)
	case actionToggleFilter:
		l.session.ToggleFilterPanel()
		if l.session.FilterVisible() {
			PrintInfo("Filter on")
		} else {
			PrintInfo("Filter off")
		}
	case actionList:
		// Printed below.
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	l.printCounters()
	return nil
}

func (l *interactiveLoop) add() error {
	title, err := l.prompter.Input("Title", l.session.DefaultTitle())
	if err != nil {
		return err
	}
	color, err := l.prompter.Color("Color", model.ColorSystem)
	if err != nil {
		return err
	}
	c := l.session.Add(title, color)
	PrintSuccess("Added %s %s", RenderBold(c.Title), RenderID(c.ID))
	l.printCounters()
	return nil
}

// withCounter asks for one of the visible counters and applies fn to it.
func (l *interactiveLoop) withCounter(title string, fn func(model.Counter) error) error {
	visible := l.session.Visible()
	if len(visible) == 0 {
		return errNoCounters
	}

	options := make([]prompt.Option, len(visible))
	for i, c := range visible {
		options[i] = prompt.Option{
			Label: fmt.Sprintf("%s (%d)", c.Title, c.Count),
			Value: c.ID,
		}
	}

	id, err := l.prompter.Select(title, options)
	if err != nil {
		return err
	}
	c, err := l.session.Get(id)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}

	l.printCounters()
	return nil
}

func (l *interactiveLoop) move(c model.Counter) error {
	dir, err := l.prompter.Select("Move where?", prompt.Options(moveDirections...))
	if err != nil {
		return err
	}
	switch dir {
	case "up":
		return l.session.MoveUp(c.ID)
	case "down":
		return l.session.MoveDown(c.ID)
	case "top":
		return l.session.MoveTop(c.ID)
	case "bottom":
		return l.session.MoveBottom(c.ID)
	}
	return fmt.Errorf("unknown direction %q", dir)
}

// filterColors lets the user pick the full selection and toggles the
// difference against the current one.
func (l *interactiveLoop) filterColors() error {
	var current []string
	for _, c := range model.AllColors() {
		if l.session.IsFilterColorSelected(c) {
			current = append(current, c.String())
		}
	}

	chosen, err := l.prompter.MultiSelect("Show colors", prompt.Options(model.ColorNames()...), current)
	if err != nil {
		return err
	}

	for _, c := range model.AllColors() {
		if slices.Contains(chosen, c.String()) != l.session.IsFilterColorSelected(c) {
			l.session.ToggleFilterColor(c)
		}
	}
	if !l.session.FilterVisible() {
		PrintInfo("Filter is off; choose %q to apply it", actionToggleFilter)
	}
	return nil
}

func (l *interactiveLoop) printCounters() {
	printCounters(l.out, l.session.Visible(), l.palette)
}

func printCounters(w io.Writer, counters []model.Counter, palette model.Palette) {
	if len(counters) == 0 {
		fmt.Fprintln(w, RenderMuted("  (no counters)"))
		return
	}
	for _, c := range counters {
		fmt.Fprintf(w, "  %s %-24s %s\n",
			ColorSwatch(palette.Hex(c.Color)),
			c.Title,
			StyleCount.Render(strconv.FormatUint(c.Count, 10)),
		)
	}
}
