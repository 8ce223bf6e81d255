package config

import (
	"fmt"
	"strings"
)

// ConsoleAddress returns the console base address of setup. The production
// setup maps to the bare domain. A non-empty override is returned as is.
func ConsoleAddress(setup, domain, override string) string {
	if override != "" {
		return strings.TrimSuffix(override, "/")
	}
	if setup == ProductionSetup {
		return fmt.Sprintf("https://console.%s", domain)
	}
	return fmt.Sprintf("https://console.%s.%s", setup, domain)
}
