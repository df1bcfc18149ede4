package tabfile

// Mode is the operational state of a Session. Exactly one value is active
// at a time; modes do not combine.
type Mode int

const (
	ModeUnset Mode = iota
	ModeRead
	ModeWrite
)

// String returns the mode name for log output.
func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return "invalid"
	}
}
