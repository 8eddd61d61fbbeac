package lower

import (
	"fmt"
	"log/slog"
)

// DatetimeLibrary selects how the "date-time" string format is represented.
type DatetimeLibrary string

const (
	DatetimeChrono DatetimeLibrary = "chrono"
	DatetimeJiff   DatetimeLibrary = "jiff"
)

func ParseDatetimeLibrary(raw string) (DatetimeLibrary, error) {
	switch DatetimeLibrary(raw) {
	case DatetimeChrono, DatetimeJiff:
		return DatetimeLibrary(raw), nil
	case "":
		return DatetimeChrono, nil
	default:
		return "", fmt.Errorf("unknown datetime library %q (expected %q or %q)", raw, DatetimeChrono, DatetimeJiff)
	}
}

// Config is everything the lowering core reads. The zero value is usable: chrono datetimes,
// default decorators, and warnings logged through slog.
type Config struct {
	Datetime DatetimeLibrary

	// Decorators supplies per-declaration annotations. Nil means DefaultDecorators.
	Decorators DecoratorResolver

	// Reporter receives non-fatal diagnostics. It is shared by concurrent lowering calls.
	Reporter Reporter
}

func (c *Config) datetime() DatetimeLibrary {
	if c == nil || c.Datetime == "" {
		return DatetimeChrono
	}
	return c.Datetime
}

func (c *Config) decorators() DecoratorResolver {
	if c == nil || c.Decorators == nil {
		return DefaultDecorators{}
	}
	return c.Decorators
}

func (c *Config) report(d Diagnostic) {
	if c == nil || c.Reporter == nil {
		slog.Warn(d.Message, "code", d.Code, "category", d.Category, "format", d.Format, "name", d.Name)
		return
	}
	c.Reporter.Report(d)
}
