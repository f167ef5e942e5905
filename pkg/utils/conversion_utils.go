package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOptionalBool parses query flags such as ?upcoming=true.
// An empty string yields nil so callers can tell "absent" from "false".
func ParseOptionalBool(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", s)
	}
	return &b, nil
}
