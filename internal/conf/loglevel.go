package conf

import (
	"fmt"

	"github.com/trivernis/pngmsg/internal/logger"
)

// LogLevel is the logLevel parameter.
type LogLevel logger.Level

// ParseLogLevel converts a level name into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "error":
		return LogLevel(logger.Error), nil

	case "warn":
		return LogLevel(logger.Warn), nil

	case "info":
		return LogLevel(logger.Info), nil

	case "debug":
		return LogLevel(logger.Debug), nil

	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

// String implements fmt.Stringer.
func (d LogLevel) String() string {
	switch d {
	case LogLevel(logger.Error):
		return "error"

	case LogLevel(logger.Warn):
		return "warn"

	case LogLevel(logger.Info):
		return "info"

	default:
		return "debug"
	}
}

// MarshalYAML implements yaml.Marshaler.
func (d LogLevel) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var in string
	if err := unmarshal(&in); err != nil {
		return err
	}

	l, err := ParseLogLevel(in)
	if err != nil {
		return err
	}

	*d = l
	return nil
}
