package plugin

import (
	"errors"
	"fmt"
)

// Category classifies a plugin for host browsers.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryEffect
	CategorySynth
	CategoryAnalysis
	CategoryMastering
	CategorySpatializer
	CategoryRoomFx
	CategorySurroundFx
	CategoryRestoration
	CategoryOfflineProcess
	CategoryGenerator
)

var categoryNames = map[Category]string{
	CategoryUnknown:        "Unknown",
	CategoryEffect:         "Effect",
	CategorySynth:          "Synth",
	CategoryAnalysis:       "Analysis",
	CategoryMastering:      "Mastering",
	CategorySpatializer:    "Spatializer",
	CategoryRoomFx:         "RoomFx",
	CategorySurroundFx:     "SurroundFx",
	CategoryRestoration:    "Restoration",
	CategoryOfflineProcess: "OfflineProcess",
	CategoryGenerator:      "Generator",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Category(%d)", int(c))
}

// Direction is the data direction of a bus.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// Bus describes a group of adjacent channels.
type Bus struct {
	Name      string
	Direction Direction
	Channels  int
	Aux       bool
}

// Info is the static metadata a host surfaces for a plugin.
type Info struct {
	Name       string
	Vendor     string
	Version    string
	Category   Category
	UniqueID   int32
	Inputs     int
	Outputs    int
	Parameters int
	Buses      []Bus
}

// Validate checks that the metadata is complete and that the bus layout
// accounts for exactly Inputs and Outputs channels.
func (i Info) Validate() error {
	if i.Name == "" {
		return errors.New("plugin name is empty")
	}

	if i.Inputs < 0 || i.Outputs < 0 || i.Parameters < 0 {
		return fmt.Errorf("%s: negative channel or parameter count", i.Name)
	}

	if len(i.Buses) == 0 {
		return nil
	}

	var in, out int
	for _, b := range i.Buses {
		if b.Channels <= 0 {
			return fmt.Errorf("%s: bus %q has no channels", i.Name, b.Name)
		}

		if b.Direction == DirectionInput {
			in += b.Channels
		} else {
			out += b.Channels
		}
	}

	if in != i.Inputs || out != i.Outputs {
		return fmt.Errorf("%s: buses declare %d in / %d out, info declares %d / %d",
			i.Name, in, out, i.Inputs, i.Outputs)
	}

	return nil
}

// ChannelOffset returns the first channel index of the named bus within its
// direction, or -1 if there is no such bus.
func (i Info) ChannelOffset(name string) int {
	offsets := [2]int{}
	for _, b := range i.Buses {
		if b.Name == name {
			return offsets[b.Direction]
		}
		offsets[b.Direction] += b.Channels
	}

	return -1
}
