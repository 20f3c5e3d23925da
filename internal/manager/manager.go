package manager

import "github.com/Galtar27/PSMoveService/internal/device"

// Manager owns a set of device driver instances of one type: it
// enumerates hardware, opens drivers, runs the poll daemon, enforces each
// device's consecutive-poll-failure budget and exposes decoded state.
type Manager interface {
	Start() error
	Stop() error
	Restart() error
	Running() bool
	ManuallyStopped() bool
	Faulted() bool
	ListDev() ([]string, error)
	ProbeDev() ([]string, error)
	State(id string, lookback int) (device.State, error)
}
