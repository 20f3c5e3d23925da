package hmd

import (
	"math"
	"testing"
)

// testPacket returns a zeroed sensor input report.
func testPacket() []byte {
	return make([]byte, InputReportSize)
}

func putI16(p []byte, off int, v int16) {
	p[off] = byte(v)
	p[off+1] = byte(v >> 8)
}

func TestDecodeLittleEndianReassembly(t *testing.T) {
	cfg := DefaultConfig("")
	cfg.Calibration.Accel.Gain = 1
	cfg.Calibration.Gyro.Gain = 1

	p := testPacket()
	// Accel X of the first IMU sub-frame, low byte first.
	p[offIMUFrame0] = 0x34
	p[offIMUFrame0+1] = 0x12

	s, err := decodeInputReport(cfg, p)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Frames[0].RawAccel[0] != 0x1234 {
		t.Fatalf("expected 4660, got %d", s.Frames[0].RawAccel[0])
	}
}

func TestDecodeSignedSamples(t *testing.T) {
	cfg := DefaultConfig("")
	p := testPacket()
	putI16(p, offIMUFrame0+6, -32768) // gyro X
	putI16(p, offIMUFrame1+4, -1)     // accel Z, second sub-frame

	s, err := decodeInputReport(cfg, p)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Frames[0].RawGyro[0] != -32768 {
		t.Fatalf("expected -32768, got %d", s.Frames[0].RawGyro[0])
	}
	if s.Frames[1].RawAccel[2] != -1 {
		t.Fatalf("expected -1, got %d", s.Frames[1].RawAccel[2])
	}
}

func TestDecodeCalibrationGain(t *testing.T) {
	cfg := DefaultConfig("")
	cfg.Calibration.Accel.Gain = 0.5
	cfg.Calibration.Gyro.Gain = 0.25

	p := testPacket()
	putI16(p, offIMUFrame0, 4660)  // accel X
	putI16(p, offIMUFrame0+8, 100) // gyro Y

	s, err := decodeInputReport(cfg, p)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got, want := s.Frames[0].CalibratedAccel[0], float32(4660)*0.5; math.Abs(float64(got-want)) > 1e-6 {
		t.Fatalf("calibrated accel: expected %f, got %f", want, got)
	}
	if got, want := s.Frames[0].CalibratedGyro[1], float32(100)*0.25; math.Abs(float64(got-want)) > 1e-6 {
		t.Fatalf("calibrated gyro: expected %f, got %f", want, got)
	}
	// Raw samples stay verbatim.
	if s.Frames[0].RawAccel[0] != 4660 {
		t.Fatalf("raw accel mutated: %d", s.Frames[0].RawAccel[0])
	}
}

func TestDecodeFieldOffsets(t *testing.T) {
	cfg := DefaultConfig("")
	p := testPacket()
	p[0] = ButtonVolumePlus | ButtonMicMute
	p[2] = 42
	p[8] = StatusOnHead | StatusDisplayOn
	p[18] = 0xCD
	p[19] = 0xAB

	s, err := decodeInputReport(cfg, p)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Buttons != ButtonVolumePlus|ButtonMicMute {
		t.Fatalf("buttons: got %#x", s.Buttons)
	}
	if s.Volume != 42 {
		t.Fatalf("volume: got %d", s.Volume)
	}
	if !s.OnHead() || !s.DisplayOn() || s.MicMuted() || s.HDMIDisconnected() || s.HeadphonesPresent() {
		t.Fatalf("status flags decoded incorrectly: %#x", s.StatusFlags)
	}
	if s.FrameCounter != 0xABCD {
		t.Fatalf("frame counter: got %#x", s.FrameCounter)
	}
}

func TestDecodeShortReport(t *testing.T) {
	cfg := DefaultConfig("")
	if _, err := decodeInputReport(cfg, make([]byte, 32)); err == nil {
		t.Fatalf("expected error for short report")
	}
}
