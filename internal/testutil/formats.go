package testutil

import (
	"encoding/json"
	"strings"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/resource"
)

type yypFile struct {
	ID        string     `json:"id"`
	ModelName string     `json:"modelName"`
	MVC       string     `json:"mvc"`
	Configs   []string   `json:"configs"`
	Resources []yypEntry `json:"resources"`
	Tutorial  string     `json:"tutorial"`
}

type yypEntry struct {
	Key   string   `json:"Key"`
	Value yypValue `json:"Value"`
}

type yypValue struct {
	ID           string `json:"id"`
	ResourcePath string `json:"resourcePath"`
	ResourceType string `json:"resourceType"`
}

type orderedObject struct {
	ID             string         `json:"id"`
	ModelName      string         `json:"modelName"`
	MVC            string         `json:"mvc"`
	Name           string         `json:"name"`
	EventList      []orderedEvent `json:"eventList"`
	MaskSpriteID   string         `json:"maskSpriteId"`
	Overridden     any            `json:"overriddenProperties"`
	ParentObjectID string         `json:"parentObjectId"`
	Persistent     bool           `json:"persistent"`
	Solid          bool           `json:"solid"`
	SpriteID       string         `json:"spriteId"`
	Visible        bool           `json:"visible"`
}

type orderedEvent struct {
	ID                string `json:"id"`
	ModelName         string `json:"modelName"`
	MVC               string `json:"mvc"`
	IsDnD             bool   `json:"IsDnD"`
	CollisionObjectID string `json:"collisionObjectId"`
	Enumb             int    `json:"enumb"`
	EventType         int    `json:"eventtype"`
	Owner             string `json:"m_owner"`
}

type orderedFolder struct {
	ID            string   `json:"id"`
	ModelName     string   `json:"modelName"`
	MVC           string   `json:"mvc"`
	Name          string   `json:"name"`
	Children      []string `json:"children"`
	FilterType    string   `json:"filterType"`
	FolderName    string   `json:"folderName"`
	IsDefaultView bool     `json:"isDefaultView"`
	Localised     string   `json:"localisedFolderName"`
}

type orderedSprite struct {
	ID        string        `json:"id"`
	ModelName string        `json:"modelName"`
	MVC       string        `json:"mvc"`
	Name      string        `json:"name"`
	Frames    []orderedItem `json:"frames"`
	Height    int           `json:"height"`
	Width     int           `json:"width"`
}

type orderedItem struct {
	ID               string `json:"id"`
	ModelName        string `json:"modelName"`
	CompositeImageID string `json:"compositeImageId,omitempty"`
	SpriteID         string `json:"SpriteId,omitempty"`
}

type orderedScript struct {
	ID        string `json:"id"`
	ModelName string `json:"modelName"`
	MVC       string `json:"mvc"`
	Name      string `json:"name"`
	IsCompat  bool   `json:"IsCompatibility"`
	IsDnD     bool   `json:"IsDnD"`
}

type orderedRoom struct {
	ID            string         `json:"id"`
	ModelName     string         `json:"modelName"`
	MVC           string         `json:"mvc"`
	Name          string         `json:"name"`
	CreationOrder []string       `json:"instanceCreationOrderIDs"`
	Layers        []orderedLayer `json:"layers"`
	Settings      roomSettings   `json:"roomSettings"`
}

type orderedLayer struct {
	Type      string            `json:"__type"`
	ID        string            `json:"id"`
	ModelName string            `json:"modelName"`
	MVC       string            `json:"mvc"`
	LayerName string            `json:"name"`
	Depth     int               `json:"depth"`
	Instances []orderedInstance `json:"instances"`
	Layers    []orderedLayer    `json:"layers"`
	Visible   bool              `json:"visible"`
}

type orderedInstance struct {
	Name      string  `json:"name"`
	ID        string  `json:"id"`
	ModelName string  `json:"modelName"`
	MVC       string  `json:"mvc"`
	ObjID     string  `json:"objId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type roomSettings struct {
	ID        string `json:"id"`
	ModelName string `json:"modelName"`
	Height    int    `json:"Height"`
	Width     int    `json:"Width"`
}

// marshal encodes v the way the IDE writes .yy files: four-space indent, CRLF.
func marshal(v any) string {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		panic(err)
	}
	return strings.ReplaceAll(string(data), "\n", "\r\n")
}

func orNull(id string) string {
	return string(ident.OrNull(ident.ID(id)))
}

// ObjectJSON renders an object .yy file.
func ObjectJSON(o ObjectSpec) string {
	evs := make([]orderedEvent, 0, len(o.Events))
	for _, ev := range o.Events {
		evs = append(evs, orderedEvent{
			ID:                string(ident.Generate()),
			ModelName:         "GMEvent",
			MVC:               "1.0",
			CollisionObjectID: string(ident.Null),
			Enumb:             ev.Number,
			EventType:         int(ev.Type),
			Owner:             o.ID,
		})
	}
	return marshal(orderedObject{
		ID:             o.ID,
		ModelName:      resource.KindObject.String(),
		MVC:            "1.0",
		Name:           o.Name,
		EventList:      evs,
		MaskSpriteID:   orNull(o.Mask),
		ParentObjectID: orNull(o.Parent),
		SpriteID:       orNull(o.Sprite),
		Visible:        true,
	})
}

// FolderJSON renders a folder (view) .yy file.
func FolderJSON(id, folderName string, filter resource.Kind, children ...string) string {
	if children == nil {
		children = []string{}
	}
	return marshal(orderedFolder{
		ID:         id,
		ModelName:  resource.KindFolder.String(),
		MVC:        "1.1",
		Name:       id,
		Children:   children,
		FilterType: filter.String(),
		FolderName: folderName,
	})
}

// SpriteJSON renders a sprite .yy file with one frame.
func SpriteJSON(id, name string, width, height int) string {
	return marshal(orderedSprite{
		ID:        id,
		ModelName: resource.KindSprite.String(),
		MVC:       "1.12",
		Name:      name,
		Frames: []orderedItem{{
			ID:               string(ident.Generate()),
			ModelName:        "GMSpriteFrame",
			CompositeImageID: string(ident.Generate()),
			SpriteID:         id,
		}},
		Height: height,
		Width:  width,
	})
}

// RoomJSON renders a room .yy file with a single instance layer.
func RoomJSON(id, name string, instances ...InstanceSpec) string {
	insts := make([]orderedInstance, 0, len(instances))
	order := make([]string, 0, len(instances))
	for _, in := range instances {
		insts = append(insts, orderedInstance{
			Name:      in.Name,
			ID:        in.ID,
			ModelName: resource.KindObjectInstance.String(),
			MVC:       "1.0",
			ObjID:     orNull(in.Object),
			X:         float64(in.X),
			Y:         float64(in.Y),
		})
		order = append(order, in.ID)
	}
	return marshal(orderedRoom{
		ID:            id,
		ModelName:     resource.KindRoom.String(),
		MVC:           "1.0",
		Name:          name,
		CreationOrder: order,
		Layers: []orderedLayer{{
			Type:      "GMRInstanceLayer_Model:#YoYoStudio.MVCFormat",
			ID:        string(ident.Generate()),
			ModelName: "GMRInstanceLayer",
			MVC:       "1.0",
			LayerName: "Instances",
			Instances: insts,
			Layers:    []orderedLayer{},
			Visible:   true,
		}},
		Settings: roomSettings{
			ID:        string(ident.Generate()),
			ModelName: "GMRoomSettings",
			Height:    768,
			Width:     1024,
		},
	})
}
