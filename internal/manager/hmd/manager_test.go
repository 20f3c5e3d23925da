package hmd

import (
	"testing"

	"github.com/Galtar27/PSMoveService/internal/config"
	"github.com/Galtar27/PSMoveService/internal/device"
	"github.com/Galtar27/PSMoveService/internal/tracking"
)

type fakeEnumerator struct{ path string }

func (e *fakeEnumerator) IsValid() bool              { return true }
func (e *fakeEnumerator) Path() string               { return e.path }
func (e *fakeEnumerator) InterfacePath(i int) string { return e.path }
func (e *fakeEnumerator) DeviceType() device.Type    { return device.TypeHMD }

// fakeDevice returns scripted poll results, then PollNoData forever.
type fakeDevice struct {
	id      string
	results []device.PollResult
	budget  int
	open    bool
	closed  int
}

func (d *fakeDevice) Open(e device.Enumerator) error {
	d.id = e.Path()
	d.open = true
	return nil
}

func (d *fakeDevice) Close() {
	d.open = false
	d.closed++
}

func (d *fakeDevice) Matches(e device.Enumerator) bool { return d.id == e.Path() }
func (d *fakeDevice) IsOpen() bool                     { return d.open }
func (d *fakeDevice) IsReadyToPoll() bool              { return d.open }

func (d *fakeDevice) Poll() device.PollResult {
	if len(d.results) == 0 {
		return device.PollNoData
	}
	res := d.results[0]
	d.results = d.results[1:]
	return res
}

func (d *fakeDevice) State(lookback int) (device.State, bool) { return nil, false }
func (d *fakeDevice) MaxPollFailureCount() int                { return d.budget }
func (d *fakeDevice) TrackingColorID() tracking.ColorID       { return tracking.ColorBlue }
func (d *fakeDevice) TrackingShape() tracking.Shape           { return tracking.Shape{} }
func (d *fakeDevice) Identifier() string                      { return d.id }
func (d *fakeDevice) Type() device.Type                       { return device.TypeHMD }

func newTestManager(dev *fakeDevice) *hmdManager {
	opt := config.NewPSMSOpt()
	return &hmdManager{
		opt:      &opt,
		devices:  map[string]device.Device{dev.id: dev},
		failures: make(map[string]int),
	}
}

func TestFailureBudgetDropsDevice(t *testing.T) {
	dev := &fakeDevice{
		id:      "hmd-0",
		open:    true,
		budget:  3,
		results: []device.PollResult{device.PollFailure, device.PollFailure, device.PollFailure},
	}
	m := newTestManager(dev)

	if !m.pollOnce() || !m.pollOnce() {
		t.Fatalf("device must survive below the failure budget")
	}
	if m.pollOnce() {
		t.Fatalf("manager should report no devices after the budget is hit")
	}
	if dev.open {
		t.Fatalf("dropped device must be closed")
	}
	if !m.faulted {
		t.Fatalf("manager with no devices must be faulted")
	}
}

func TestNonFailureResetsBudget(t *testing.T) {
	dev := &fakeDevice{
		id:     "hmd-0",
		open:   true,
		budget: 2,
		results: []device.PollResult{
			device.PollFailure,
			device.PollNewData, // resets the consecutive count
			device.PollFailure,
		},
	}
	m := newTestManager(dev)

	for i := 0; i < 3; i++ {
		if !m.pollOnce() {
			t.Fatalf("device dropped despite non-consecutive failures")
		}
	}
	if !dev.open {
		t.Fatalf("device should remain open")
	}
	if m.failures[dev.id] != 1 {
		t.Fatalf("expected failure count 1, got %d", m.failures[dev.id])
	}
}

func TestStartAdoptsKnownDevices(t *testing.T) {
	dev := &fakeDevice{budget: 3}
	created := 0
	opt := config.NewPSMSOpt()
	m := &hmdManager{
		opt:      &opt,
		failures: make(map[string]int),
		enumerate: func() ([]device.Enumerator, error) {
			return []device.Enumerator{&fakeEnumerator{path: "hmd-0"}}, nil
		},
		newDevice: func(configPath string) device.Device {
			created++
			return dev
		},
	}

	if err := m.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !m.Running() {
		t.Fatalf("manager should be running")
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !m.ManuallyStopped() || m.Running() {
		t.Fatalf("manager should be stopped")
	}

	// A second start re-associates the known device instead of creating
	// a new driver instance.
	if err := m.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	defer func() { _ = m.Stop() }()
	if created != 1 {
		t.Fatalf("expected one driver instance, got %d", created)
	}

	ids, err := m.ListDev()
	if err != nil || len(ids) != 1 || ids[0] != "hmd-0" {
		t.Fatalf("unexpected device list: %v %v", ids, err)
	}
}
