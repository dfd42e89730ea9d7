package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/editor"
	"github.com/aidanlsb/gmedit/internal/events"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var eventsCmd = &cobra.Command{
	Use:   "events <object>",
	Short: "List an object's events",
	Long: `Lists the events attached to an object with their labels and script files.

Examples:
  gme events obj_player
  gme events obj_player --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		rec, obj, err := lookupObject(proj, args[0])
		if err != nil {
			return handleErr(err, "")
		}

		evs := obj.Events()
		items := make([]EventJSON, len(evs))
		for i, ev := range evs {
			items[i] = eventJSON(i, ev)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"object": resourceJSON(rec),
				"items":  items,
			}, warnings, &Meta{Count: len(items)})
			return nil
		}

		printWarnings(warnings)
		if len(items) == 0 {
			fmt.Printf("%s has no events\n", ui.Resource(rec.Name(), "object"))
			return nil
		}
		t := ui.NewTable(3)
		for _, item := range items {
			t.AddRow(ui.Muted.Render(strconv.Itoa(item.Index)), ui.Bold.Render(item.Label), ui.FilePath(item.Script))
		}
		fmt.Print(t.String())
		return nil
	},
}

var eventCmd = &cobra.Command{
	Use:   "event <object> <type> <number>",
	Short: "Print or replace an event script",
	Long: `Prints the GML code of one event. With --set the code is read from stdin and
saved through the object editor: only that event's script file changes.

Types are written as in script file names: Create, Destroy, Alarm, Step,
Collision, Keyboard, Mouse, Other, Draw, KeyPress, KeyRelease, CleanUp, Gesture.

Examples:
  gme event obj_player Step 0
  echo 'hp -= 1;' | gme event obj_player Step 0 --set`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _ := cmd.Flags().GetBool("set")

		typ, ok := events.ParseType(args[1])
		if !ok {
			n, err := strconv.Atoi(args[1])
			if err != nil || !events.Known(events.Type(n)) {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown event type %q", args[1]), "Use a name such as Create, Step or Draw")
			}
			typ = events.Type(n)
		}
		number, err := strconv.Atoi(args[2])
		if err != nil {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid event number %q", args[2]), "")
		}

		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		rec, obj, err := lookupObject(proj, args[0])
		if err != nil {
			return handleErr(err, "")
		}
		i, ok := obj.FindEvent(typ, number)
		if !ok {
			return handleErrorMsg(ErrEventNotFound,
				fmt.Sprintf("%s has no %s event", rec.Name(), events.Name(typ, number)),
				fmt.Sprintf("Run 'gme events %s' to list its events", rec.Name()))
		}

		ws := editor.NewWorkspace(proj)
		opened, err := ws.Open(rec)
		if err != nil {
			return handleErr(err, "")
		}
		ed := opened.(*editor.ObjectEditor)
		ev := ed.Events()[i]

		if set {
			code, err := io.ReadAll(os.Stdin)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			if err := ed.SetEventCode(i, string(code)); err != nil {
				return handleErr(err, "")
			}
			changed := ed.Dirty()
			if changed {
				if err := ws.SaveAll(); err != nil {
					return handleError(ErrFileWriteError, err, "")
				}
			}
			if isJSONOutput() {
				outputSuccessWithWarnings(map[string]interface{}{
					"object":  resourceJSON(rec),
					"event":   eventJSON(i, ev),
					"changed": changed,
				}, warnings, nil)
				return nil
			}
			printWarnings(warnings)
			if !changed {
				fmt.Println(ui.Info("No changes to " + ev.Script))
				return nil
			}
			fmt.Println(ui.Success("Saved " + ui.FilePath(ev.Script)))
			return nil
		}

		code, err := ed.EventCode(i)
		if err != nil {
			return handleErr(err, "")
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"object": resourceJSON(rec),
				"event":  eventJSON(i, ev),
				"code":   code,
			}, warnings, nil)
			return nil
		}
		printWarnings(warnings)
		fmt.Print(code)
		return nil
	},
}

func init() {
	eventCmd.Flags().Bool("set", false, "Replace the event code with stdin")
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(eventCmd)
}
