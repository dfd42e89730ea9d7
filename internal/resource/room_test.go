package resource

import (
	"errors"
	"strings"
	"testing"

	"github.com/aidanlsb/gmedit/internal/yy"
)

const roomYY = `{
    "id": "r1",
    "modelName": "GMRoom",
    "name": "room_main",
    "instanceCreationOrderIDs": ["i1", "i2"],
    "layers": [
        {
            "__type": "GMRInstanceLayer_Model:#YoYoStudio.MVCFormat",
            "name": "Instances",
            "id": "l1",
            "depth": 0,
            "modelName": "GMRInstanceLayer",
            "instances": [
                {"name": "inst_A", "id": "i1", "modelName": "GMRInstance", "objId": "o1", "x": 32, "y": 64},
                {"name": "inst_B", "id": "i2", "modelName": "GMRInstance", "objId": "00000000-0000-0000-0000-000000000000", "x": 0, "y": 0}
            ],
            "layers": [
                {
                    "name": "Nested",
                    "id": "l2",
                    "depth": 100,
                    "modelName": "GMRInstanceLayer",
                    "instances": [
                        {"name": "inst_C", "id": "i3", "modelName": "GMRInstance", "objId": "o2", "x": 1.5, "y": 2}
                    ]
                }
            ]
        },
        {
            "name": "Background",
            "id": "l3",
            "depth": 200,
            "modelName": "GMRBackgroundLayer"
        }
    ],
    "roomSettings": {"Width": 1024, "Height": 768}
}`

func TestLoadRoom(t *testing.T) {
	r := loadRecord(t, KindRoom, "rooms/room_main/room_main.yy", roomYY)

	room, ok := r.Room()
	if !ok {
		t.Fatal("expected room payload")
	}
	if w, h := room.Size(); w != 1024 || h != 768 {
		t.Errorf("Size = %dx%d", w, h)
	}
	if len(room.Layers()) != 2 {
		t.Fatalf("expected 2 top-level layers, got %d", len(room.Layers()))
	}
	if got := room.Layers()[0].Layers[0].Name; got != "Nested" {
		t.Errorf("nested layer name = %q", got)
	}

	ids := room.InstanceIDs()
	if len(ids) != 3 || ids[0] != "i1" || ids[2] != "i3" {
		t.Errorf("InstanceIDs = %v", ids)
	}

	subs := r.SubRecords()
	if len(subs) != 3 {
		t.Fatalf("expected 3 instance records, got %d", len(subs))
	}
	inst, ok := subs[0].Instance()
	if !ok {
		t.Fatal("expected instance payload")
	}
	if x, y := inst.Position(); x != 32 || y != 64 {
		t.Errorf("Position = %d,%d", x, y)
	}
	if inst.ObjectID() != "o1" || inst.RoomID() != "r1" {
		t.Errorf("instance object=%q room=%q", inst.ObjectID(), inst.RoomID())
	}
	if second, _ := subs[1].Instance(); second.ObjectID() != "" {
		t.Errorf("null objId should be unset, got %q", second.ObjectID())
	}
	if subs[2].Kind() != KindObjectInstance {
		t.Errorf("sub-record kind = %v", subs[2].Kind())
	}
}

func TestLoadRoomNullInstanceID(t *testing.T) {
	content := strings.Replace(roomYY, `"id": "i2"`, `"id": "00000000-0000-0000-0000-000000000000"`, 1)
	doc, err := yy.Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = New(KindRoom, "rooms/room_main/room_main.yy").Load(doc)
	if !errors.Is(err, ErrNullID) {
		t.Fatalf("expected ErrNullID, got %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) || !strings.HasPrefix(pe.Field, "layers[0].instances[1]") {
		t.Errorf("expected ParseError on the second instance, got %v", err)
	}
}

func TestLoadFolderAndSprite(t *testing.T) {
	f := loadRecord(t, KindFolder, "views/f1.yy", `{
    "id": "f1",
    "modelName": "GMFolder",
    "name": "f1",
    "children": ["o1", "o2"],
    "filterType": "GMObject",
    "folderName": "objects",
    "isDefaultView": false
}`)
	folder, ok := f.Folder()
	if !ok {
		t.Fatal("expected folder payload")
	}
	if folder.Filter() != KindObject || folder.FolderName() != "objects" {
		t.Errorf("folder = %v %q", folder.Filter(), folder.FolderName())
	}
	if f.DisplayName() != "objects" {
		t.Errorf("DisplayName = %q", f.DisplayName())
	}
	folder.AddChild("o2")
	if f.Modified() {
		t.Error("adding an existing child should not modify the folder")
	}
	folder.AddChild("o3")
	if !f.Modified() || len(folder.Children()) != 3 {
		t.Error("expected new child to be appended")
	}

	s := loadRecord(t, KindSprite, "sprites/spr_a/spr_a.yy", `{
    "id": "s1",
    "modelName": "GMSprite",
    "name": "spr_a",
    "frames": [
        {"id": "fr1", "compositeImage": {"id": "ci1"}},
        {"id": "fr2", "compositeImage": {"id": "ci2"}}
    ],
    "width": 16,
    "height": 24
}`)
	sprite, _ := s.Sprite()
	if len(sprite.Frames()) != 2 || sprite.Frames()[1].CompositeImage != "ci2" {
		t.Errorf("frames = %+v", sprite.Frames())
	}
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"GMObject", KindObject},
		{"GMiOSOptions", KindIOSOptions},
		{"root", KindRoot},
		{"GMSomethingNew", KindUnknown},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if KindUnknown.String() != "Unknown" {
		t.Errorf("KindUnknown.String() = %q", KindUnknown.String())
	}
	if ParseKindLoose("object") != KindObject || ParseKindLoose("Sprite") != KindSprite {
		t.Error("ParseKindLoose failed for short names")
	}
	if KindObject.Short() != "object" {
		t.Errorf("Short = %q", KindObject.Short())
	}
}
