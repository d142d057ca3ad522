package config

import (
	"errors"
	"fmt"
)

var (
	errInvalidLogLevel  = errors.New("log_level must be one of debug, info, warn, error")
	errInvalidLogFormat = errors.New("log_format must be text or json")
)

func errInvalidPort(field string) error {
	return fmt.Errorf("%s must be between 1 and 65535", field)
}

func errNonPositive(field string) error {
	return fmt.Errorf("%s must be positive", field)
}
