package annotation

import (
	"encoding/json"
	"fmt"

	"annoexport/internal/geometry"
	"annoexport/internal/rle"
)

// Object is the closed set of drawable image annotations. Exporters switch
// over the concrete types; the unexported method keeps the set sealed.
type Object interface {
	ObjectLabel() string
	kind() string
}

// Bbox is an axis-aligned box in pixel coordinates.
type Bbox struct {
	Label  string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Polygon is a closed ordered vertex list.
type Polygon struct {
	Label  string
	Points []geometry.Point
}

// Freeform is a hand-drawn outline; geometrically it behaves like a polygon.
type Freeform struct {
	Label  string
	Points []geometry.Point
}

// Landmark is a single labeled keypoint.
type Landmark struct {
	Label string
	X     float64
	Y     float64
}

// Mask is a run-length encoded region in the platform's native row-major
// convention.
type Mask struct {
	Label string
	RLE   rle.Mask
}

func (b Bbox) ObjectLabel() string     { return b.Label }
func (p Polygon) ObjectLabel() string  { return p.Label }
func (f Freeform) ObjectLabel() string { return f.Label }
func (l Landmark) ObjectLabel() string { return l.Label }
func (m Mask) ObjectLabel() string     { return m.Label }

func (Bbox) kind() string     { return "bbox" }
func (Polygon) kind() string  { return "polygon" }
func (Freeform) kind() string { return "freeform" }
func (Landmark) kind() string { return "landmark" }
func (Mask) kind() string     { return "mask" }

// ObjectList decodes the polymorphic JSON objects the platform stores, keyed
// by their "type" field.
type ObjectList []Object

type objectJSON struct {
	Type   string           `json:"type"`
	Label  string           `json:"label"`
	X      float64          `json:"x"`
	Y      float64          `json:"y"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Points []geometry.Point `json:"points"`
	Mask   *rle.Mask        `json:"mask"`
}

func (l *ObjectList) UnmarshalJSON(data []byte) error {
	var raws []objectJSON
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	objects := make([]Object, 0, len(raws))
	for _, raw := range raws {
		obj, err := raw.object()
		if err != nil {
			return err
		}
		objects = append(objects, obj)
	}
	*l = objects
	return nil
}

func (o objectJSON) object() (Object, error) {
	switch o.Type {
	case "bbox":
		return Bbox{Label: o.Label, X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}, nil
	case "polygon":
		return Polygon{Label: o.Label, Points: o.Points}, nil
	case "freeform":
		return Freeform{Label: o.Label, Points: o.Points}, nil
	case "landmark":
		return Landmark{Label: o.Label, X: o.X, Y: o.Y}, nil
	case "mask":
		var m rle.Mask
		if o.Mask != nil {
			m = *o.Mask
		}
		return Mask{Label: o.Label, RLE: m}, nil
	default:
		return nil, fmt.Errorf("unknown image annotation type %q", o.Type)
	}
}

// MarshalJSON re-emits the platform's tagged representation.
func (l ObjectList) MarshalJSON() ([]byte, error) {
	raws := make([]objectJSON, 0, len(l))
	for _, obj := range l {
		raw := objectJSON{Type: obj.kind(), Label: obj.ObjectLabel()}
		switch v := obj.(type) {
		case Bbox:
			raw.X, raw.Y, raw.Width, raw.Height = v.X, v.Y, v.Width, v.Height
		case Polygon:
			raw.Points = v.Points
		case Freeform:
			raw.Points = v.Points
		case Landmark:
			raw.X, raw.Y = v.X, v.Y
		case Mask:
			m := v.RLE
			raw.Mask = &m
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}
