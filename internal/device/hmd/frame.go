package hmd

import (
	"fmt"

	"github.com/Galtar27/PSMoveService/internal/device"
)

// Sensor input report layout. The hardware transmits a fixed 64-byte
// report; fields below are decoded by explicit byte offset, never by
// overlaying a struct on the buffer.
const (
	InputReportSize = 64

	offButtons      = 0
	offVolume       = 2
	offStatusFlags  = 8
	offFrameCounter = 18
	offIMUFrame0    = 20
	offIMUFrame1    = 36
	imuFrameLen     = 12
)

// Button bits, byte 0.
const (
	ButtonVolumePlus  = 0x02
	ButtonVolumeMinus = 0x04
	ButtonMicMute     = 0x08
)

// Headset status bits, byte 8.
const (
	StatusOnHead           = 0x01
	StatusDisplayOn        = 0x02
	StatusHDMIDisconnected = 0x04
	StatusMicMuted         = 0x08
	StatusHeadphones       = 0x10
)

// SensorFrame is one IMU sub-frame: raw signed 16-bit samples kept
// verbatim for diagnostics, plus the calibrated floating-point samples
// produced by the configured per-class gains. Calibration here is a pure
// scale transform; drift, variance and bias parameters ride in the device
// configuration for the downstream fusion stage.
type SensorFrame struct {
	RawAccel        [3]int32   `json:"raw_accel"`
	RawGyro         [3]int32   `json:"raw_gyro"`
	CalibratedAccel [3]float32 `json:"calibrated_accel"`
	CalibratedGyro  [3]float32 `json:"calibrated_gyro"`
}

// parse decodes one 12-byte IMU sub-frame: accelerometer X,Y,Z then
// gyroscope X,Y,Z, each a little-endian int16.
func (f *SensorFrame) parse(cfg *Config, p []byte) {
	for axis := 0; axis < 3; axis++ {
		a := i2(p[axis*2:])
		g := i2(p[6+axis*2:])
		f.RawAccel[axis] = int32(a)
		f.RawGyro[axis] = int32(g)
		f.CalibratedAccel[axis] = float32(a) * cfg.Calibration.Accel.Gain
		f.CalibratedGyro[axis] = float32(g) * cfg.Calibration.Gyro.Gain
	}
}

// State is one polling result. Created only inside the poll loop and
// immutable afterwards.
type State struct {
	Seq          int64          `json:"seq"`
	FrameCounter uint16         `json:"frame_counter"`
	Buttons      byte           `json:"buttons"`
	Volume       byte           `json:"volume"`
	StatusFlags  byte           `json:"status_flags"`
	Frames       [2]SensorFrame `json:"frames"`
}

func (s *State) Sequence() int64         { return s.Seq }
func (s *State) DeviceType() device.Type { return device.TypeHMD }

func (s *State) OnHead() bool           { return s.StatusFlags&StatusOnHead != 0 }
func (s *State) DisplayOn() bool        { return s.StatusFlags&StatusDisplayOn != 0 }
func (s *State) HDMIDisconnected() bool { return s.StatusFlags&StatusHDMIDisconnected != 0 }
func (s *State) MicMuted() bool         { return s.StatusFlags&StatusMicMuted != 0 }
func (s *State) HeadphonesPresent() bool {
	return s.StatusFlags&StatusHeadphones != 0
}

// decodeInputReport interprets one sensor input report. The report carries
// two IMU sub-frames per read.
func decodeInputReport(cfg *Config, p []byte) (*State, error) {
	if len(p) < offIMUFrame1+imuFrameLen {
		return nil, fmt.Errorf("short sensor input report: %d bytes", len(p))
	}
	s := &State{
		FrameCounter: u2(p[offFrameCounter:]),
		Buttons:      p[offButtons],
		Volume:       p[offVolume],
		StatusFlags:  p[offStatusFlags],
	}
	s.Frames[0].parse(cfg, p[offIMUFrame0:offIMUFrame0+imuFrameLen])
	s.Frames[1].parse(cfg, p[offIMUFrame1:offIMUFrame1+imuFrameLen])
	return s, nil
}

func u2(p []byte) uint16 {
	return (uint16(p[1]) << 8) + uint16(p[0])
}

func i2(p []byte) int16 {
	return (int16(p[1]) << 8) + int16(p[0])
}
