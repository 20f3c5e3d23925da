package hmd

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Galtar27/PSMoveService/internal/config"
	"github.com/Galtar27/PSMoveService/internal/device"
	devicehmd "github.com/Galtar27/PSMoveService/internal/device/hmd"
	"github.com/Galtar27/PSMoveService/internal/manager"
)

// hmdManager drives every attached headset: one poll goroutine ticks all
// open devices, counts consecutive poll failures per device and drops a
// device once it exhausts its configured failure budget. Consumers read
// decoded state through the manager, which serializes access against the
// poll goroutine.
type hmdManager struct {
	opt      *config.PSMSOpt
	devices  map[string]device.Device
	failures map[string]int
	known    []device.Device
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lock     sync.RWMutex

	manuallyStopped bool
	faulted         bool

	enumerate func() ([]device.Enumerator, error)
	newDevice func(configPath string) device.Device
}

func NewManager(opt *config.PSMSOpt) manager.Manager {
	return &hmdManager{
		opt:       opt,
		devices:   nil,
		failures:  make(map[string]int),
		enumerate: device.HMDEnumerators,
		newDevice: func(configPath string) device.Device {
			return devicehmd.New(configPath)
		},
	}
}

// configPathFor maps a device identity path to its per-device config file.
func (m *hmdManager) configPathFor(devPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_").Replace(devPath)
	return path.Join(m.opt.Poll.DeviceConfigDir, "hmd_"+name+".yaml")
}

// adopt returns the known driver instance matching the enumerator entry,
// or creates a new one. Reuse keeps the device identity (and its config)
// stable across enumeration passes.
func (m *hmdManager) adopt(e device.Enumerator) device.Device {
	for _, d := range m.known {
		if d.Matches(e) {
			return d
		}
	}
	d := m.newDevice(m.configPathFor(e.Path()))
	m.known = append(m.known, d)
	return d
}

// Start enumerates attached headsets and launches the poll daemon.
func (m *hmdManager) Start() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	log.Infof("hmd manager started")

	if m.devices == nil {
		enums, err := m.enumerate()
		if err != nil {
			return err
		}
		if len(enums) == 0 {
			return errors.New("no hmd devices found")
		}

		devices := make(map[string]device.Device)
		for _, e := range enums {
			d := m.adopt(e)
			if err := d.Open(e); err != nil {
				log.Errorln(err)
				continue
			}
			devices[d.Identifier()] = d
		}
		if len(devices) == 0 {
			return errors.New("failed to open any hmd device")
		}

		m.devices = devices
		m.failures = make(map[string]int)
		m.faulted = false
		m.ctx, m.cancel = context.WithCancel(context.Background())
		m.wg.Add(1)
		go m.updateAll()
	}
	m.manuallyStopped = false
	return nil
}

// Stop halts the poll daemon and closes every open device.
func (m *hmdManager) Stop() error {
	m.lock.Lock()
	if m.devices == nil {
		m.manuallyStopped = true
		m.lock.Unlock()
		return nil
	}
	cancel := m.cancel
	m.lock.Unlock()

	cancel()
	m.wg.Wait()

	m.lock.Lock()
	defer m.lock.Unlock()
	log.Infof("hmd manager stopped")
	for _, d := range m.devices {
		d.Close()
	}
	m.devices = nil
	m.failures = make(map[string]int)
	m.manuallyStopped = true
	return nil
}

func (m *hmdManager) Restart() error {
	if err := m.Stop(); err != nil {
		return err
	}
	return m.Start()
}

func (m *hmdManager) Running() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.devices != nil && !m.faulted
}

func (m *hmdManager) ManuallyStopped() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.manuallyStopped
}

func (m *hmdManager) Faulted() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.faulted
}

// ListDev returns the identifiers of the open devices.
func (m *hmdManager) ListDev() ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	res := make([]string, 0, len(m.devices))
	for id := range m.devices {
		res = append(res, id)
	}
	return res, nil
}

// ProbeDev scans the HID bus for candidate headsets without opening them.
func (m *hmdManager) ProbeDev() ([]string, error) {
	enums, err := m.enumerate()
	if err != nil {
		return nil, err
	}
	if len(enums) == 0 {
		return nil, errors.New("no hmd devices found")
	}
	paths := make([]string, 0, len(enums))
	for _, e := range enums {
		paths = append(paths, e.Path())
	}
	return paths, nil
}

// State returns the device's state entry at the given lookback offset
// (0 = newest).
func (m *hmdManager) State(id string, lookback int) (device.State, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	d, ok := m.devices[id]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", id)
	}
	st, ok := d.State(lookback)
	if !ok {
		return nil, fmt.Errorf("no state at lookback %d", lookback)
	}
	return st, nil
}

// pollOnce ticks every open device once and applies the failure budget.
// Returns false once no devices remain open.
func (m *hmdManager) pollOnce() bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	for id, d := range m.devices {
		switch d.Poll() {
		case device.PollFailure:
			m.failures[id]++
			if budget := d.MaxPollFailureCount(); m.failures[id] >= budget {
				log.Errorf("hmd %s exceeded poll failure budget (%d), dropping", id, budget)
				d.Close()
				delete(m.devices, id)
				delete(m.failures, id)
			}
		default:
			m.failures[id] = 0
		}
	}

	if len(m.devices) == 0 {
		m.faulted = true
		return false
	}
	return true
}

func (m *hmdManager) updateAll() {
	defer m.wg.Done()
	ticker := time.NewTicker(time.Duration(m.opt.Poll.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
		}
		if !m.pollOnce() {
			log.Errorln("all hmd devices dropped, manager faulted")
			return
		}
	}
}

// Daemon supervises a manager: a faulted manager is stopped and, unless it
// was stopped manually, started again on the next pass (re-enumerating and
// re-associating devices).
func Daemon(m manager.Manager) {
	for {
		if m.Faulted() {
			log.Infoln("status is faulted, restarting")
			if err := m.Restart(); err != nil {
				log.Errorln(err)
			}
		} else if !m.Running() && !m.ManuallyStopped() {
			if err := m.Start(); err != nil {
				log.Errorln(err)
				time.Sleep(time.Second * 1)
				continue
			}
		}
		time.Sleep(time.Second * 1)
	}
}
