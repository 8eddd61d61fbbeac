package lower

import (
	"fmt"

	"github.com/bluesky-social/oapigen/schema"
)

// Formats follow the registry at https://spec.openapis.org/registry/format/; only a subset is
// recognized.

const (
	DefaultIntegerFormat = "integer"
	DefaultNumberFormat  = "number"
	DefaultStringFormat  = "string"

	DateTimeFormat = "date-time"
)

var numberFormats = map[string]string{
	"int64":   "i64",
	"integer": "i32",
	"int32":   "i32",
	"int16":   "i16",
	"int8":    "i8",
	"uint64":  "u64",
	"uint32":  "u32",
	"uint16":  "u16",
	"uint8":   "u8",
	"number":  "f32",
	"float":   "f32",
	"double":  "f64",
}

var (
	chronoDateTime = scalar("DateTime<Utc>")
	chronoImport   = UseImport("chrono", "DateTime", "Utc")

	jiffTimestamp = scalar("Timestamp")
	jiffImport    = UseImport("jiff", "Timestamp")
)

// ResolveNumber maps an integer or number format to a fixed width type. An empty format resolves to
// the category default; unrecognized formats are reported and also resolve to the default.
func ResolveNumber(cfg *Config, category schema.Category, format string) (TypeExpr, ImportSet) {
	def := DefaultNumberFormat
	if category == schema.Integer {
		def = DefaultIntegerFormat
	}
	if format == "" {
		format = def
	}

	if t, ok := numberFormats[format]; ok {
		return scalar(t), nil
	}

	formatFallbacks.WithLabelValues(category.String()).Inc()
	cfg.report(Diagnostic{
		Code:     CodeUnknownFormat,
		Category: category,
		Format:   format,
		Message:  fmt.Sprintf("format %q is unknown for %s, defaulting to %s", format, category, def),
	})
	return scalar(numberFormats[def]), nil
}

// ResolveString maps a string format. Only "date-time" is recognized; its representation depends
// on the configured datetime library.
func ResolveString(cfg *Config, format string) (TypeExpr, ImportSet) {
	switch format {
	case DateTimeFormat:
		switch cfg.datetime() {
		case DatetimeJiff:
			return jiffTimestamp, ImportSet{jiffImport}
		default:
			return chronoDateTime, ImportSet{chronoImport}
		}
	case "", DefaultStringFormat:
		return defaultString(), nil
	}

	formatFallbacks.WithLabelValues(schema.String.String()).Inc()
	cfg.report(Diagnostic{
		Code:     CodeUnknownFormat,
		Category: schema.String,
		Format:   format,
		Message:  fmt.Sprintf("format %q is unknown for strings, defaulting to string", format),
	})
	return defaultString(), nil
}

func defaultString() TypeExpr {
	return scalar("String")
}

func ResolveBoolean() (TypeExpr, ImportSet) {
	return scalar("bool"), nil
}

func ResolveNull() (TypeExpr, ImportSet) {
	return scalar("()"), nil
}

// KnownFormat is one row of the format registry.
type KnownFormat struct {
	Category schema.Category
	Format   string
	Type     string
	Imports  []string
	Default  bool
}

// KnownFormats lists every format the registry recognizes, for the given configuration.
func KnownFormats(cfg *Config) []KnownFormat {
	var out []KnownFormat

	numeric := []string{"int8", "int16", "int32", "integer", "int64", "uint8", "uint16", "uint32", "uint64", "float", "number", "double"}
	for _, category := range []schema.Category{schema.Integer, schema.Number} {
		def := DefaultNumberFormat
		if category == schema.Integer {
			def = DefaultIntegerFormat
		}
		for _, f := range numeric {
			out = append(out, KnownFormat{
				Category: category,
				Format:   f,
				Type:     numberFormats[f],
				Default:  f == def,
			})
		}
	}

	t, imports := ResolveString(cfg, DefaultStringFormat)
	out = append(out, KnownFormat{Category: schema.String, Format: DefaultStringFormat, Type: t.String(), Imports: imports.Keys(), Default: true})
	t, imports = ResolveString(cfg, DateTimeFormat)
	out = append(out, KnownFormat{Category: schema.String, Format: DateTimeFormat, Type: t.String(), Imports: imports.Keys()})

	t, _ = ResolveBoolean()
	out = append(out, KnownFormat{Category: schema.Boolean, Type: t.String(), Default: true})
	t, _ = ResolveNull()
	out = append(out, KnownFormat{Category: schema.Null, Type: t.String(), Default: true})
	return out
}
