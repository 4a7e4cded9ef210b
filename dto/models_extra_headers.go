package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtraHeaders are sent with every request. It implements pflag.Value so a
// comma separated key=value list can be passed on the command line.
type ExtraHeaders map[string]string

func (e ExtraHeaders) String() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// Set parses a comma separated key=value string. Values may contain "=".
func (e ExtraHeaders) Set(s string) error {
	for _, header := range strings.Split(s, ",") {
		if strings.TrimSpace(header) == "" {
			continue
		}
		key, value, ok := strings.Cut(header, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("extra header %q: want key=value", header)
		}
		e[key] = strings.TrimSpace(value)
	}
	return nil
}

func (e ExtraHeaders) Type() string {
	return "ExtraHeaders"
}
