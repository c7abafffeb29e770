package plugin

// CanDo is a capability a host may ask a plugin about.
// Unknown host strings are carried as-is.
type CanDo string

const (
	CanDoSendEvents       CanDo = "sendEvents"
	CanDoSendMidiEvent    CanDo = "sendMidiEvent"
	CanDoReceiveEvents    CanDo = "receiveEvents"
	CanDoReceiveMidiEvent CanDo = "receiveMidiEvent"
	CanDoReceiveTimeInfo  CanDo = "receiveTimeInfo"
	CanDoOffline          CanDo = "offline"
	CanDoMidiProgramNames CanDo = "midiProgramNames"
	CanDoBypass           CanDo = "bypass"
)

var knownCanDos = map[CanDo]struct{}{
	CanDoSendEvents:       {},
	CanDoSendMidiEvent:    {},
	CanDoReceiveEvents:    {},
	CanDoReceiveMidiEvent: {},
	CanDoReceiveTimeInfo:  {},
	CanDoOffline:          {},
	CanDoMidiProgramNames: {},
	CanDoBypass:           {},
}

// ParseCanDo converts a host capability string. ok is false when the string
// is not one of the predefined capabilities; the returned value is still
// usable as an opaque capability.
func ParseCanDo(s string) (c CanDo, ok bool) {
	c = CanDo(s)
	_, ok = knownCanDos[c]

	return c, ok
}

// Supported is a plugin's answer to a capability query. Maybe means neither
// confirmed nor denied; hosts must not rely on the capability.
type Supported int

const (
	No    Supported = -1
	Maybe Supported = 0
	Yes   Supported = 1
)

func (s Supported) String() string {
	switch s {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "maybe"
	}
}
