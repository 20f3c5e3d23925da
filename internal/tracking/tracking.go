package tracking

import "strings"

// ColorID identifies the bulb color assigned to a device for optical
// tracking. Values match the wire enumeration used by the tracker pipeline.
type ColorID int

const (
	ColorMagenta ColorID = iota
	ColorCyan
	ColorYellow
	ColorRed
	ColorGreen
	ColorBlue
	MaxColorTypes
)

const ColorNone ColorID = -1

var colorNames = [MaxColorTypes]string{
	"Magenta", "Cyan", "Yellow", "Red", "Green", "Blue",
}

// ColorName returns the display name for a tracking color.
func ColorName(id ColorID) string {
	if id < 0 || id >= MaxColorTypes {
		return "None"
	}
	return colorNames[id]
}

// ColorFromName resolves a display name back to its ColorID.
// Matching is case-insensitive.
func ColorFromName(name string) (ColorID, bool) {
	for id, n := range colorNames {
		if strings.EqualFold(n, name) {
			return ColorID(id), true
		}
	}
	return ColorNone, false
}

// ShapeType describes the geometry class the tracker fits against.
type ShapeType int

const (
	ShapeSphere ShapeType = iota
	ShapeLightBar
	ShapePointCloud
)

// Shape is the static tracking geometry a device exposes to the
// pose-computation pipeline.
type Shape struct {
	Type   ShapeType
	Points [][3]float32
}
