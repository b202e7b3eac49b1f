package spice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var valuePattern = regexp.MustCompile(
	`^([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)(meg|mil|[tgkmunpf])?[a-z]*$`)

var scaleFactors = map[string]float64{
	"t":   1e12,
	"g":   1e9,
	"meg": 1e6,
	"k":   1e3,
	"m":   1e-3,
	"mil": 25.4e-6,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

// ParseValue converts a SPICE number such as "1k", "10meg", "1.5e-12" or
// "100pF" into a float64. Scale suffixes are case-insensitive and trailing
// unit letters are ignored.
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(
		strings.ToLower(strings.TrimSpace(val)))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %q", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value format: %q: %w", val, err)
	}

	if factor, ok := scaleFactors[matches[2]]; ok {
		num *= factor
	}

	return num, nil
}

// FormatValue renders a float64 in the shortest form SPICE accepts.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
