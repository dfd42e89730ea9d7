package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/editor"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/slugs"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var setCmd = &cobra.Command{
	Use:   "set <ref> <field> <value>",
	Short: "Change a resource field",
	Long: `Changes one field of a resource through its editor and saves it.

Fields:
  name     any resource with an editor (objects, scripts, rooms, sprites...)
  parent   objects; the value is an object, or "none" to clear it
  sprite   objects; the value is a sprite, or "none"
  mask     objects; the value is a sprite, or "none"

A parent that would make an object its own ancestor is refused.

Examples:
  gme set obj_boss parent obj_enemy
  gme set obj_boss sprite spr_boss
  gme set obj_boss mask none
  gme set scr_move name scr_walk`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, field, value := args[0], args[1], args[2]

		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		rec, err := lookup(proj, ref)
		if err != nil {
			return handleErr(err, "Run 'gme ls' to see resource names")
		}
		ws := editor.NewWorkspace(proj)
		ed, err := ws.Open(rec)
		if err != nil {
			return handleErr(err, "")
		}
		if ed == nil {
			return handleErrorMsg(ErrUnsupportedKind, fmt.Sprintf("%s is a folder and has no editable fields", rec.DisplayName()), "")
		}

		if err := applyField(proj, ed, field, value); err != nil {
			if code := errorCode(err); code != ErrInternal {
				return handleError(code, err, "")
			}
			return handleError(ErrInvalidInput, err, "")
		}

		changed := len(ws.DirtyEditors()) > 0
		if changed {
			if err := ws.SaveAll(); err != nil {
				return handleErr(err, "")
			}
			refreshIndex(proj, rec)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"resource": resourceJSON(rec),
				"field":    field,
				"changed":  changed,
			}, warnings, nil)
			return nil
		}
		printWarnings(warnings)
		if !changed {
			fmt.Println(ui.Info(fmt.Sprintf("%s already has that %s", rec.DisplayName(), field)))
			return nil
		}
		fmt.Println(ui.Successf("Set %s of %s", field, ui.Resource(rec.DisplayName(), rec.Kind().Short())))
		return nil
	},
}

// nameSetter is implemented by every editor.
type nameSetter interface {
	SetName(string)
}

func applyField(proj *project.Project, ed editor.Editor, field, value string) error {
	if field == "name" {
		if !slugs.ValidResourceName(value) {
			return fmt.Errorf("%w: %q", project.ErrInvalidName, value)
		}
		ns, ok := ed.(nameSetter)
		if !ok {
			return fmt.Errorf("%s cannot be renamed", ed.Record().Kind().Short())
		}
		ns.SetName(value)
		return nil
	}

	obj, ok := ed.(*editor.ObjectEditor)
	if !ok {
		return fmt.Errorf("unknown field %q for a %s", field, ed.Record().Kind().Short())
	}
	id, err := lookupOptional(proj, value)
	if err != nil {
		return err
	}
	switch field {
	case "parent":
		return obj.SetParent(id)
	case "sprite":
		return obj.SetSprite(id)
	case "mask":
		return obj.SetMask(id)
	default:
		return fmt.Errorf("unknown field %q; use name, parent, sprite or mask", field)
	}
}

func init() {
	rootCmd.AddCommand(setCmd)
}
