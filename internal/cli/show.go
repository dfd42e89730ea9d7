package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/ui"
)

// EventJSON is the JSON representation of an object event.
type EventJSON struct {
	Index  int    `json:"index"`
	Type   string `json:"type"`
	Number int    `json:"number"`
	Label  string `json:"label"`
	Script string `json:"script"`
}

func eventJSON(i int, ev resource.Event) EventJSON {
	return EventJSON{
		Index:  i,
		Type:   ev.Type.String(),
		Number: ev.Number,
		Label:  ev.Label,
		Script: ev.Script,
	}
}

// ShowJSON is the JSON representation of `gme show`.
type ShowJSON struct {
	ResourceJSON
	Fields map[string]interface{} `json:"fields,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show a resource",
	Long: `Shows one resource with its kind-specific fields. References are resolved
to names; dangling ones are shown by id.

Examples:
  gme show obj_player
  gme show 2a0c2c6b-5a53-4d4c-9a3e-8a3e5c1a6f10 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		rec, err := lookup(proj, args[0])
		if err != nil {
			return handleErr(err, "Run 'gme ls' to see resource names")
		}

		fields := resourceFields(proj, rec)
		if isJSONOutput() {
			outputSuccessWithWarnings(ShowJSON{ResourceJSON: resourceJSON(rec), Fields: fields}, warnings, nil)
			return nil
		}

		printWarnings(warnings)
		fmt.Println(ui.Resource(rec.DisplayName(), rec.Kind().Short()))
		t := ui.NewTable(2)
		t.AddRow(ui.Hint("id"), string(rec.ID()))
		t.AddRow(ui.Hint("file"), ui.FilePath(rec.Path()))
		for _, key := range fieldOrder(rec) {
			if v, ok := fields[key]; ok {
				t.AddRow(ui.Hint(key), formatField(v))
			}
		}
		fmt.Print(t.String())
		return nil
	},
}

// resourceFields returns the kind-specific fields of rec for display.
func resourceFields(proj *project.Project, rec *resource.Record) map[string]interface{} {
	res := proj.Resolver()
	ref := func(rec *resource.Record) interface{} {
		if rec == nil {
			return nil
		}
		return resourceJSON(rec)
	}

	fields := map[string]interface{}{}
	switch p := rec.Payload().(type) {
	case *resource.Object:
		fields["parent"] = ref(res.Object(p.Parent()))
		fields["sprite"] = ref(res.Sprite(p.Sprite()))
		fields["mask"] = ref(res.Sprite(p.Mask()))
		fields["children"] = describeIDs(proj, res.Children(rec.ID()))
		evs := p.Events()
		out := make([]EventJSON, len(evs))
		for i, ev := range evs {
			out[i] = eventJSON(i, ev)
		}
		fields["events"] = out
		fields["persistent"] = p.Persistent()
		fields["solid"] = p.Solid()
		fields["visible"] = p.Visible()
	case *resource.Room:
		w, h := p.Size()
		fields["size"] = fmt.Sprintf("%dx%d", w, h)
		layers := make([]string, len(p.Layers()))
		for i, l := range p.Layers() {
			layers[i] = l.Name
		}
		fields["layers"] = layers
		fields["instances"] = describeInstances(proj, rec)
	case *resource.Sprite:
		w, h := p.Size()
		fields["size"] = fmt.Sprintf("%dx%d", w, h)
		fields["frames"] = len(p.Frames())
	case *resource.Folder:
		fields["filter"] = p.Filter().Short()
		fields["folder_name"] = p.FolderName()
		fields["default_view"] = p.IsDefaultView()
		fields["children"] = describeIDs(proj, p.Children())
	case *resource.Script:
		fields["source"] = p.Source()
	case *resource.Instance:
		x, y := p.Position()
		fields["position"] = fmt.Sprintf("%d,%d", x, y)
		fields["object"] = ref(res.InstanceObject(rec.ID()))
		fields["room"] = ref(res.Resolve(p.RoomID()))
	case *resource.Options:
		settings := map[string]string{}
		for _, s := range p.Settings() {
			settings[s.Key] = string(s.Value)
		}
		fields["settings"] = settings
	case *resource.IncludedFile:
		fields["file_name"] = p.FileName()
		fields["file_path"] = p.FilePath()
	case *resource.Generic:
	}
	return fields
}

// InstanceJSON describes an object instance placed in a room.
type InstanceJSON struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func describeInstances(proj *project.Project, room *resource.Record) []InstanceJSON {
	var out []InstanceJSON
	for _, sub := range room.SubRecords() {
		inst, ok := sub.Instance()
		if !ok {
			continue
		}
		x, y := inst.Position()
		name := string(inst.ObjectID())
		if obj := proj.Resolver().Object(inst.ObjectID()); obj != nil {
			name = obj.Name()
		}
		out = append(out, InstanceJSON{ID: string(sub.ID()), Object: name, X: x, Y: y})
	}
	return out
}

func fieldOrder(rec *resource.Record) []string {
	switch rec.Kind() {
	case resource.KindObject:
		return []string{"parent", "sprite", "mask", "persistent", "solid", "visible", "children", "events"}
	case resource.KindRoom:
		return []string{"size", "layers", "instances"}
	case resource.KindSprite:
		return []string{"size", "frames"}
	case resource.KindFolder:
		return []string{"filter", "folder_name", "default_view", "children"}
	case resource.KindScript:
		return []string{"source"}
	case resource.KindObjectInstance:
		return []string{"room", "object", "position"}
	case resource.KindIncludedFile:
		return []string{"file_name", "file_path"}
	default:
		if rec.Kind().IsOptions() {
			return []string{"settings"}
		}
		return nil
	}
}

func formatField(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ui.Hint("none")
	case ResourceJSON:
		return v.Name
	case []ResourceJSON:
		if len(v) == 0 {
			return ui.Hint("none")
		}
		s := ""
		for i, r := range v {
			if i > 0 {
				s += ", "
			}
			s += r.Name
		}
		return s
	case []EventJSON:
		if len(v) == 0 {
			return ui.Hint("none")
		}
		s := ""
		for i, ev := range v {
			if i > 0 {
				s += ", "
			}
			s += ev.Label
		}
		return s
	case []InstanceJSON:
		return fmt.Sprintf("%d", len(v))
	case []string:
		return fmt.Sprintf("%v", v)
	case map[string]string:
		return fmt.Sprintf("%d settings", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
