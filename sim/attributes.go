package sim

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Attributes is a loosely typed attribute bag, usually decoded from JSON.
// Numeric fields may hold numbers or numeric strings.
type Attributes map[string]any

// VectorPatch carries optional vector components
type VectorPatch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// BodyPatch is a partial body update. A nil field is absent; a non-nil
// field is applied even when it points at zero.
type BodyPatch struct {
	Name       *string     `json:"name,omitempty"`
	Mass       *float64    `json:"mass,omitempty"`
	Radius     *float64    `json:"radius,omitempty"`
	Luminosity *float64    `json:"luminosity,omitempty"`
	Position   VectorPatch `json:"position"`
	Velocity   VectorPatch `json:"velocity"`
}

// Float returns a pointer to f, for building patches
func Float(f float64) *float64 { return &f }

// Str returns a pointer to s, for building patches
func Str(s string) *string { return &s }

// PatchFromAttributes converts an attribute bag into a BodyPatch.
// Fields that do not parse as numbers are left absent, except luminosity
// which becomes an explicit zero.
func PatchFromAttributes(attrs Attributes) BodyPatch {
	var p BodyPatch
	if attrs == nil {
		return p
	}

	if name, ok := attrs["name"].(string); ok {
		p.Name = &name
	}
	p.Mass = attrs.number("mass")
	p.Radius = attrs.number("radius")
	if _, present := attrs["luminosity"]; present {
		p.Luminosity = attrs.number("luminosity")
		if p.Luminosity == nil {
			p.Luminosity = Float(0)
		}
	}
	p.Position = attrs.vector("position")
	p.Velocity = attrs.vector("velocity")
	return p
}

// number returns the parsed value of key, or nil if absent or malformed
func (a Attributes) number(key string) *float64 {
	v, ok := a[key]
	if !ok {
		return nil
	}
	f, ok := parseNumber(v)
	if !ok {
		return nil
	}
	return &f
}

// str returns the value of key if it is a string
func (a Attributes) str(key string) *string {
	s, ok := a[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// vector parses a nested {x, y} object. Components are independent.
func (a Attributes) vector(key string) VectorPatch {
	switch v := a[key].(type) {
	case map[string]any:
		return Attributes(v).vectorComponents()
	case Attributes:
		return v.vectorComponents()
	case Vector:
		return VectorPatch{X: Float(v.X), Y: Float(v.Y)}
	case *Vector:
		if v != nil {
			return VectorPatch{X: Float(v.X), Y: Float(v.Y)}
		}
	}
	return VectorPatch{}
}

func (a Attributes) vectorComponents() VectorPatch {
	return VectorPatch{X: a.number("x"), Y: a.number("y")}
}

// parseNumber accepts JSON numbers, Go numeric types and numeric strings.
// Non-finite values are rejected.
func parseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (p VectorPatch) apply(v Vector) Vector {
	if p.X != nil {
		v.X = *p.X
	}
	if p.Y != nil {
		v.Y = *p.Y
	}
	return v
}
