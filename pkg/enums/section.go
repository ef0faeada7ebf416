package enums

import "fmt"

// Section partitions the catalog the way the shop floor is laid out.
type Section string

const (
	SectionStorage    Section = "storage"
	SectionWinter     Section = "winter"
	SectionSummer     Section = "summer"
	SectionComponents Section = "components"
)

var validSections = []Section{
	SectionStorage,
	SectionWinter,
	SectionSummer,
	SectionComponents,
}

// String implements fmt.Stringer.
func (s Section) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Section.
func (s Section) IsValid() bool {
	for _, candidate := range validSections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSection converts raw input into a Section.
func ParseSection(value string) (Section, error) {
	for _, candidate := range validSections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid section %q", value)
}
