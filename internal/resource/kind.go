package resource

import "strings"

// Kind is the closed set of resource types found in a project.
type Kind int

const (
	KindUnknown Kind = iota
	KindFolder
	KindObject
	KindRoom
	KindSprite
	KindScript
	KindFont
	KindSound
	KindIncludedFile
	KindMainOptions
	KindWindowsOptions
	KindMacOptions
	KindLinuxOptions
	KindAndroidOptions
	KindIOSOptions
	KindAmazonFireOptions
	KindConfig
	KindTileSet
	KindPath
	KindNotes
	KindExtension
	KindTimeline
	KindOptions
	KindShader
	KindRoot
	KindObjectInstance
)

var kindModelNames = map[Kind]string{
	KindFolder:            "GMFolder",
	KindObject:            "GMObject",
	KindRoom:              "GMRoom",
	KindSprite:            "GMSprite",
	KindScript:            "GMScript",
	KindFont:              "GMFont",
	KindSound:             "GMSound",
	KindIncludedFile:      "GMIncludedFile",
	KindMainOptions:       "GMMainOptions",
	KindWindowsOptions:    "GMWindowsOptions",
	KindMacOptions:        "GMMacOptions",
	KindLinuxOptions:      "GMLinuxOptions",
	KindAndroidOptions:    "GMAndroidOptions",
	KindIOSOptions:        "GMiOSOptions",
	KindAmazonFireOptions: "GMAmazonFireOptions",
	KindConfig:            "GMConfig",
	KindTileSet:           "GMTileSet",
	KindPath:              "GMPath",
	KindNotes:             "GMNotes",
	KindExtension:         "GMExtension",
	KindTimeline:          "GMTimeline",
	KindOptions:           "GMOptions",
	KindShader:            "GMShader",
	KindRoot:              "root",
	KindObjectInstance:    "GMRInstance",
}

var kindsByModelName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindModelNames))
	for k, name := range kindModelNames {
		m[name] = k
	}
	return m
}()

// String returns the model name the project format uses for the kind.
func (k Kind) String() string {
	if name, ok := kindModelNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKind maps a model name ("GMObject") to a Kind. Unrecognised names map to
// KindUnknown.
func ParseKind(modelName string) Kind {
	if k, ok := kindsByModelName[modelName]; ok {
		return k
	}
	return KindUnknown
}

// ParseKindLoose accepts either a model name or a short lowercase form such as
// "object" or "sprite".
func ParseKindLoose(s string) Kind {
	if k := ParseKind(s); k != KindUnknown {
		return k
	}
	short := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindModelNames {
		if strings.ToLower(strings.TrimPrefix(name, "GM")) == short {
			return k
		}
	}
	switch short {
	case "instance":
		return KindObjectInstance
	case "ios", "iosoptions":
		return KindIOSOptions
	}
	return KindUnknown
}

// Short returns the lowercase form used on the command line ("object").
func (k Kind) Short() string {
	if k == KindObjectInstance {
		return "instance"
	}
	return strings.ToLower(strings.TrimPrefix(k.String(), "GM"))
}

// Kinds returns every known kind, KindUnknown excluded, in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(KindObjectInstance))
	for k := KindFolder; k <= KindObjectInstance; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsOptions reports whether k is one of the per-platform option sets.
func (k Kind) IsOptions() bool {
	switch k {
	case KindMainOptions, KindWindowsOptions, KindMacOptions, KindLinuxOptions,
		KindAndroidOptions, KindIOSOptions, KindAmazonFireOptions, KindOptions:
		return true
	}
	return false
}
