package lower

import (
	"github.com/bluesky-social/oapigen/schema"
)

// DecoratorResolver picks the decorators for a declaration. Implementations can vary the result
// globally, per category, or per declaration name; only DefaultDecorators exists today.
type DecoratorResolver interface {
	Decorators(name string, category schema.Category) (DecoratorSet, ImportSet)
}

var serdeImport = UseImport("serde", "Deserialize", "Serialize")

// DefaultDecorators marks every declaration as serializable and deserializable.
type DefaultDecorators struct{}

func (DefaultDecorators) Decorators(string, schema.Category) (DecoratorSet, ImportSet) {
	ds := DecoratorSet{{
		Snippet: "#[derive(Debug, Clone, PartialEq, Serialize, Deserialize)]",
		Import:  serdeImport,
	}}
	return ds, ds.Imports()
}
