package schema

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Type identifies the value type of a filterable property.
type Type string

const (
	TypeString    Type = "STRING"
	TypeInteger   Type = "INTEGER"
	TypeFloat     Type = "FLOAT"
	TypeBoolean   Type = "BOOLEAN"
	TypeTimestamp Type = "TIMESTAMP"

	// TypeGeometry holds geospatial values as orb.Geometry.
	// On the wire geometries travel as WKT strings.
	TypeGeometry Type = "GEOMETRY"
)

// knownTypes is the closed set of supported property types.
var knownTypes = map[Type]bool{
	TypeString:    true,
	TypeInteger:   true,
	TypeFloat:     true,
	TypeBoolean:   true,
	TypeTimestamp: true,
	TypeGeometry:  true,
}

// Valid reports whether the type is part of the catalog.
func (t Type) Valid() bool {
	return knownTypes[t]
}

// Accepts reports whether a scalar value matches the property type.
func (t Type) Accepts(value any) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeInteger:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	case TypeFloat:
		switch value.(type) {
		case float32, float64,
			int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeTimestamp:
		_, ok := value.(time.Time)
		return ok
	case TypeGeometry:
		_, ok := value.(orb.Geometry)
		return ok
	default:
		return false
	}
}

// describe names the dynamic type of a value for error messages.
func describe(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
