package schema

import (
	"fmt"
)

// Category is the base kind of a schema node. The set is closed: every switch over a Category in
// this module is expected to name all seven values.
type Category uint8

const (
	Boolean Category = iota + 1
	Integer
	Number
	String
	Null
	Array
	Object
)

var categoryNames = map[Category]string{
	Boolean: "boolean",
	Integer: "integer",
	Number:  "number",
	String:  "string",
	Null:    "null",
	Array:   "array",
	Object:  "object",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Boolean, Integer, Number, String, Null, Array, Object}
}

func ParseCategory(raw string) (Category, error) {
	for c, name := range categoryNames {
		if name == raw {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown schema type: %q", raw)
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Scalar reports whether values of this category carry no nested schema.
func (c Category) Scalar() bool {
	switch c {
	case Boolean, Integer, Number, String, Null:
		return true
	default:
		return false
	}
}
