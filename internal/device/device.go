package device

import (
	"github.com/Galtar27/PSMoveService/internal/tracking"
)

// Type classifies the kinds of peripherals the service manages.
type Type int

const (
	TypeHMD Type = iota
	TypeController
	TypeTracker
)

func (t Type) String() string {
	switch t {
	case TypeHMD:
		return "hmd"
	case TypeController:
		return "controller"
	case TypeTracker:
		return "tracker"
	}
	return "unknown"
}

// PollResult summarizes one invocation of a driver's bounded drain loop.
type PollResult int

const (
	PollFailure PollResult = iota
	PollNoData
	PollNewData
)

func (r PollResult) String() string {
	switch r {
	case PollNoData:
		return "no_data"
	case PollNewData:
		return "new_data"
	}
	return "failure"
}

// Enumerator is one candidate device produced by an enumeration pass.
// Drivers consume it during Open and Matches and cache nothing beyond the
// resulting path strings.
type Enumerator interface {
	IsValid() bool
	Path() string
	InterfacePath(i int) string
	DeviceType() Type
}

// State is one immutable polling result recorded in a driver's history.
type State interface {
	Sequence() int64
	DeviceType() Type
}

// Device is the capability set shared by every device variant. Each
// concrete variant owns its own packet layout and calibration constants;
// the owning manager composes devices through this interface rather than
// a type hierarchy.
//
// A device instance has exactly one logical owner which serializes calls;
// drivers perform no internal locking.
type Device interface {
	Open(enum Enumerator) error
	Close()
	Matches(enum Enumerator) bool
	IsOpen() bool
	IsReadyToPoll() bool
	Poll() PollResult
	State(lookback int) (State, bool)
	MaxPollFailureCount() int
	TrackingColorID() tracking.ColorID
	TrackingShape() tracking.Shape
	Identifier() string
	Type() Type
}
