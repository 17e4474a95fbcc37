package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
)

var exit = os.Exit

func fatal(envName, reason string) {
	slog.Error("config_invalid", "env", envName, "reason", reason)
	exit(1)
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		fatal(envName, "missing")
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		fatal(envName, "missing")
	}
}

// MustURL requires an absolute http or https URL such as an upstream base.
func MustURL(value, envName string) {
	if err := CheckURL(value); err != nil {
		fatal(envName, err.Error())
	}
}

func CheckURL(value string) error {
	if value == "" {
		return fmt.Errorf("missing")
	}
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("no host in %q", value)
	}
	return nil
}
