package hmd

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Galtar27/PSMoveService/internal/device"
	"github.com/Galtar27/PSMoveService/internal/hid"
	"github.com/Galtar27/PSMoveService/internal/tracking"
)

const (
	// HID interface numbers on the headset breakout box.
	sensorInterface  = 4
	commandInterface = 5

	stateBufferMax    = 4
	maxPollIterations = 32

	trackingPointCount = 7
)

// hidDetails holds the transport handles of one open headset. The device
// is open only while both channel handles are non-nil; a single missing
// handle ties the lifecycle to closed so no partially usable state is
// observable.
type hidDetails struct {
	identifier  string
	sensorPath  string
	sensor      hid.Channel
	commandPath string
	command     hid.Channel
}

func (d *hidDetails) reset() {
	d.identifier = ""
	d.sensorPath = ""
	d.sensor = nil
	d.commandPath = ""
	d.command = nil
}

// HMD drives one Morpheus headset over its sensor and command HID
// channels. A single logical owner serializes Open/Poll/Close; the driver
// itself performs no locking.
type HMD struct {
	cfg              *Config
	details          hidDetails
	nextPollSequence int64
	history          *device.History
	packet           [InputReportSize]byte

	open hid.Opener
}

func New(configPath string) *HMD {
	return &HMD{
		cfg:     DefaultConfig(configPath),
		history: device.NewHistory(stateBufferMax),
		open:    hid.OpenPath,
	}
}

// Open resolves the sensor and command interface paths from the
// enumerator entry and opens both channels non-blocking. Idempotent:
// opening an already-open device succeeds without reopening. If either
// channel cannot be opened the other is closed before returning, leaving
// the device fully closed.
func (h *HMD) Open(enum device.Enumerator) error {
	if enum == nil || !enum.IsValid() {
		return errors.New("hmd: invalid enumerator")
	}
	devPath := enum.Path()

	if h.IsOpen() {
		log.Warnf("hmd %s already open, ignoring request", devPath)
		return nil
	}
	log.Infof("opening hmd %s", devPath)

	if err := h.cfg.Load(); err != nil {
		log.Warnf("hmd %s config unreadable, using defaults: %v", devPath, err)
	}

	h.details.identifier = devPath
	h.details.sensorPath = enum.InterfacePath(sensorInterface)
	if ch, err := h.open(h.details.sensorPath); err == nil {
		h.details.sensor = ch
	}
	h.details.commandPath = enum.InterfacePath(commandInterface)
	if ch, err := h.open(h.details.commandPath); err == nil {
		h.details.command = ch
	}

	if !h.IsOpen() {
		log.Errorf("failed to open hmd %s", devPath)
		h.Close()
		return fmt.Errorf("hmd: failed to open %s", devPath)
	}

	// Save the config back out so defaulted-in values become durable.
	if err := h.cfg.Save(); err != nil {
		log.Warnf("unable to persist hmd config: %v", err)
	}
	h.nextPollSequence = 0
	return nil
}

// Close is idempotent; it releases any open channels, resets transport
// state and clears the decoded history.
func (h *HMD) Close() {
	if h.details.sensor == nil && h.details.command == nil {
		log.Infoln("hmd already closed, ignoring request")
		return
	}
	if h.details.sensor != nil {
		log.Infof("closing hmd sensor channel %s", h.details.sensorPath)
		_ = h.details.sensor.Close()
	}
	if h.details.command != nil {
		log.Infof("closing hmd command channel %s", h.details.commandPath)
		_ = h.details.command.Close()
	}
	h.details.reset()
	h.history.Clear()
}

// Matches reports whether the enumerator entry refers to this device
// instance. Used by the owning manager to re-associate a known device
// across enumeration passes.
func (h *HMD) Matches(enum device.Enumerator) bool {
	if enum == nil || enum.DeviceType() != device.TypeHMD {
		return false
	}
	if runtime.GOOS == "windows" {
		// Windows device paths carry no case significance.
		return strings.EqualFold(h.details.identifier, enum.Path())
	}
	return h.details.identifier == enum.Path()
}

func (h *HMD) IsOpen() bool {
	return h.details.sensor != nil && h.details.command != nil
}

func (h *HMD) IsReadyToPoll() bool {
	return h.IsOpen()
}

// Poll drains buffered sensor reports in bounded iterations. Each
// iteration reads at most one report; the loop stops on the first empty
// read, the first transport error, or after maxPollIterations.
func (h *HMD) Poll() device.PollResult {
	if !h.IsOpen() {
		return device.PollFailure
	}

	result := device.PollFailure
	for iteration := 0; iteration < maxPollIterations; iteration++ {
		n, err := h.details.sensor.Read(h.packet[:])
		if err != nil {
			log.Errorf("hid read error on %s: %v", h.details.sensorPath, err)
			result = device.PollFailure
			break
		}
		if n == 0 {
			// No more data buffered.
			if iteration == 0 {
				result = device.PollNoData
			} else {
				result = device.PollNewData
			}
			break
		}

		result = device.PollNewData
		state, err := decodeInputReport(h.cfg, h.packet[:n])
		if err != nil {
			log.Debugln(err)
			continue
		}
		state.Seq = h.nextPollSequence
		h.nextPollSequence++
		h.history.Push(state)
	}
	return result
}

// State returns the entry at the given lookback offset from the most
// recent poll result (0 = newest).
func (h *HMD) State(lookback int) (device.State, bool) {
	return h.history.Lookback(lookback)
}

// MaxPollFailureCount exposes the configured consecutive-failure budget.
// Counting failures and dropping the device is the owning manager's
// responsibility.
func (h *HMD) MaxPollFailureCount() int {
	return h.cfg.MaxPollFailureCount
}

// TODO: return cfg.TrackingColorID() once the tracker pipeline confirms
// it handles non-blue HMD bulbs.
func (h *HMD) TrackingColorID() tracking.ColorID {
	return tracking.ColorBlue
}

// TrackingShape describes the headset's LED geometry to the pose
// pipeline. Point positions are not measured yet.
func (h *HMD) TrackingShape() tracking.Shape {
	return tracking.Shape{
		Type:   tracking.ShapePointCloud,
		Points: make([][3]float32, trackingPointCount),
	}
}

func (h *HMD) Identifier() string { return h.details.identifier }

func (h *HMD) Type() device.Type { return device.TypeHMD }

// USBDevicePath returns the path of the sensor channel.
func (h *HMD) USBDevicePath() string { return h.details.sensorPath }

// Config exposes the device configuration loaded at open time.
func (h *HMD) Config() *Config { return h.cfg }

var _ device.Device = (*HMD)(nil)
