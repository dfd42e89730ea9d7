// Package events maps GameMaker object event (type, number) pairs to display labels
// and to the names of their backing script files.
package events

import (
	"fmt"
	"path"
)

// Type is the event category stored in an object's eventList as "eventtype".
type Type int

const (
	Create Type = iota
	Destroy
	Alarm
	Step
	Collision
	Keyboard
	Mouse
	Other
	Draw
	KeyPress
	KeyRelease
	Async
	CleanUp
	Gesture
	typeCount
)

// ScriptExt is the extension of event script files.
const ScriptExt = ".gml"

var fileNames = [typeCount]string{
	"Create",
	"Destroy",
	"Alarm",
	"Step",
	"Collision",
	"Keyboard",
	"Mouse",
	"Other",
	"Draw",
	"KeyPress",
	"KeyRelease",
	"Trigger",
	"CleanUp",
	"Gesture",
}

var names = [typeCount]map[int]string{
	Create:    {0: "Create"},
	Destroy:   {0: "Destroy"},
	Alarm:     {0: "Alarm"},
	Step:      {0: "Step", 1: "Begin Step", 2: "End Step"},
	Collision: {0: "Collision"},
	Keyboard:  {0: "Keyboard"},
	Mouse:     {0: "Mouse"},
	Other: {
		0: "Outside Room", 1: "Intersect Boundary", 2: "Game Start", 3: "Game End",
		4: "Room Start", 5: "Room End", 6: "No lives(?)", 7: "Animation End",
		8: "Path Ended", 9: "No health(?)",
		10: "User Event 0", 11: "User Event 1", 12: "User Event 2", 13: "User Event 3",
		14: "User Event 4", 15: "User Event 5", 16: "User Event 6", 17: "User Event 7",
		18: "User Event 8", 19: "User Event 9", 20: "User Event 10", 21: "User Event 11",
		22: "User Event 12", 23: "User Event 13", 24: "User Event 14", 25: "User Event 15",
		30: "Close button(?)",
		40: "Intersect View 0 Boundary", 41: "Intersect View 1 Boundary",
		42: "Intersect View 2 Boundary", 43: "Intersect View 3 Boundary",
		44: "Intersect View 4 Boundary", 45: "Intersect View 5 Boundary",
		46: "Intersect View 6 Boundary", 47: "Intersect View 7 Boundary",
		50: "Boundary View 0", 51: "Boundary View 1", 52: "Boundary View 2", 53: "Boundary View 3",
		54: "Boundary View 4", 55: "Boundary View 5", 56: "Boundary View 6", 57: "Boundary View 7",
		58: "Animation Update",
		60: "Image Loaded", 61: "Sound Loaded", 62: "Async(?)", 63: "Dialog",
		66: "In-App Purchase", 67: "Cloud", 68: "Networking", 69: "Steam", 70: "Social",
		71: "Push Notification", 72: "Save/Load", 73: "Audio Recording", 74: "Audio Playback",
		75: "System",
	},
	Draw: {
		0: "Draw", 64: "Draw GUI", 65: "Window Resize", 72: "Draw Begin", 73: "Draw End",
		74: "Draw GUI Begin", 75: "Draw GUI End", 76: "Pre-Draw", 77: "Post-Draw",
	},
	KeyPress:   {0: "Key Press"},
	KeyRelease: {0: "Key Release"},
	Async:      {0: "Trigger"},
	CleanUp:    {0: "Clean Up"},
	// 64..76 are the global variants of 0..12.
	Gesture: {
		0: "Tap", 1: "Double tap", 2: "Drag start", 3: "Drag move", 4: "Drag end",
		5: "Flick", 6: "Pinch start", 7: "Pinch in", 8: "Pinch out", 9: "Pinch end",
		10: "Rotate start", 11: "Rotating", 12: "Rotate end",
	},
}

// Known reports whether t is a recognised event type.
func Known(t Type) bool {
	return t >= 0 && t < typeCount
}

// Name returns the human-readable label for an event.
func Name(t Type, number int) string {
	if Known(t) {
		table := names[t]
		switch t {
		case Alarm:
			return fmt.Sprintf("%s %d", table[0], number)
		case Keyboard, KeyPress, KeyRelease:
			return fmt.Sprintf("%s - %d", table[0], number)
		case Async:
			if name, ok := table[number]; ok {
				return "Async - " + name
			}
		case Gesture:
			prefix := ""
			n := number
			if n > 60 {
				prefix = "Global "
				n -= 64
			}
			if name, ok := table[n]; ok {
				return prefix + name
			}
		default:
			if name, ok := table[number]; ok {
				return name
			}
		}
	}
	return fmt.Sprintf("Invalid %d %d", int(t), number)
}

// FileName returns the base name (without extension) of an event's script file.
func FileName(t Type, number int) string {
	if Known(t) {
		return fmt.Sprintf("%s_%d", fileNames[t], number)
	}
	return fmt.Sprintf("invalid_%d_%d", int(t), number)
}

// ScriptPath joins a resource directory with an event's script file name.
func ScriptPath(dir string, t Type, number int) string {
	return path.Join(dir, FileName(t, number)+ScriptExt)
}

// ParseType maps a type name as written by FileName ("Step", "KeyPress") back to a Type.
func ParseType(name string) (Type, bool) {
	for i, n := range fileNames {
		if n == name {
			return Type(i), true
		}
	}
	return 0, false
}

// String returns the type's file name stem ("Step"), or "Invalid" for unknown types.
func (t Type) String() string {
	if !Known(t) {
		return "Invalid"
	}
	return fileNames[t]
}
