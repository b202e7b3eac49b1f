package sim

import (
	"strconv"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
// Names are dot-separated hierarchies of capitalized CamelCase elements,
// optionally followed by square-bracket indices, e.g. "Sweep.Filter[3]".
func NameMustBeValid(name string) {
	for _, elem := range strings.Split(name, ".") {
		if msg := elementProblem(elem); msg != "" {
			panic("Name " + name + " is not valid: " + msg)
		}
	}
}

func elementProblem(elem string) string {
	base, indices, found := strings.Cut(elem, "[")

	switch {
	case base == "":
		return "name element must not be empty"
	case strings.ContainsAny(base, "_\"'- ]"):
		return "name element must only contain letters and digits"
	case base[0] < 'A' || base[0] > 'Z':
		return "name element must start with a capital letter"
	}

	if !found {
		return ""
	}

	for _, index := range strings.Split("["+indices, "[")[1:] {
		digits, closed := strings.CutSuffix(index, "]")
		if !closed {
			return "name bracket must match"
		}

		if _, err := strconv.Atoi(digits); err != nil {
			return "name index must be integer"
		}
	}

	return ""
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
