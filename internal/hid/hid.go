package hid

import (
	hidapi "github.com/sstallion/go-hid"
)

// Channel is one logical HID endpoint to a physical device. A device may
// expose several channels (e.g. a high-rate sensor interface and a low-rate
// command interface) that are opened and closed independently.
type Channel interface {
	// Read performs a non-blocking read of one input report. It returns
	// (0, nil) when no report is buffered and a non-nil error on a
	// transport fault.
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	Path() string
}

// Info describes one enumerated HID interface.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Serial       string
	Product      string
	InterfaceNbr int
}

// Opener opens a channel by platform path. The device drivers hold an
// Opener so tests can substitute a mock transport.
type Opener func(path string) (Channel, error)

type channel struct {
	dev  *hidapi.Device
	path string
}

// Init initializes the underlying hidapi library. Safe to call more than
// once.
func Init() error { return hidapi.Init() }

// Exit releases the underlying hidapi library.
func Exit() error { return hidapi.Exit() }

// OpenPath opens the HID interface at path in non-blocking mode.
func OpenPath(path string) (Channel, error) {
	dev, err := hidapi.OpenPath(path)
	if err != nil {
		return nil, err
	}
	if err := dev.SetNonblock(true); err != nil {
		_ = dev.Close()
		return nil, err
	}
	return &channel{dev: dev, path: path}, nil
}

// Enumerate lists HID interfaces matching the given vendor/product pair.
// A zero value matches any.
func Enumerate(vid, pid uint16) ([]Info, error) {
	var infos []Info
	err := hidapi.Enumerate(vid, pid, func(info *hidapi.DeviceInfo) error {
		infos = append(infos, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Serial:       info.SerialNbr,
			Product:      info.ProductStr,
			InterfaceNbr: info.InterfaceNbr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (c *channel) Read(p []byte) (int, error)  { return c.dev.Read(p) }
func (c *channel) Write(p []byte) (int, error) { return c.dev.Write(p) }
func (c *channel) Close() error                { return c.dev.Close() }
func (c *channel) Path() string                { return c.path }
