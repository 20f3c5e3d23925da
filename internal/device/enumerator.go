package device

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/Galtar27/PSMoveService/internal/hid"
)

const (
	SonyVendorID      = 0x054C
	MorpheusProductID = 0x09AF
)

// hidEnumerator groups the HID interfaces of one physical device into a
// single enumerator entry. The identity path is the path of the
// lowest-numbered interface.
type hidEnumerator struct {
	path       string
	devType    Type
	ifacePaths map[int]string
}

func (e *hidEnumerator) IsValid() bool { return e.path != "" }

func (e *hidEnumerator) Path() string { return e.path }

func (e *hidEnumerator) InterfacePath(i int) string { return e.ifacePaths[i] }

func (e *hidEnumerator) DeviceType() Type { return e.devType }

// HMDEnumerators scans the HID bus for attached Morpheus headsets. Each
// result represents one physical device with its per-interface paths
// resolved.
func HMDEnumerators() ([]Enumerator, error) {
	if err := hid.Init(); err != nil {
		return nil, err
	}
	infos, err := hid.Enumerate(SonyVendorID, MorpheusProductID)
	if err != nil {
		return nil, err
	}
	return groupByDevice(infos, TypeHMD), nil
}

func groupByDevice(infos []hid.Info, devType Type) []Enumerator {
	// hidapi reports one entry per interface; interfaces of the same
	// physical device share a serial number (possibly empty).
	groups := make(map[string][]hid.Info)
	var serials []string
	for _, info := range infos {
		if _, ok := groups[info.Serial]; !ok {
			serials = append(serials, info.Serial)
		}
		groups[info.Serial] = append(groups[info.Serial], info)
	}
	sort.Strings(serials)

	var enums []Enumerator
	for _, serial := range serials {
		group := groups[serial]
		e := &hidEnumerator{devType: devType, ifacePaths: make(map[int]string, len(group))}
		lowest := -1
		for _, info := range group {
			e.ifacePaths[info.InterfaceNbr] = info.Path
			if lowest < 0 || info.InterfaceNbr < lowest {
				lowest = info.InterfaceNbr
				e.path = info.Path
			}
		}
		log.Debugf("enumerated %s device %s with %d interfaces", devType, e.path, len(e.ifacePaths))
		enums = append(enums, e)
	}
	return enums
}
