package domain

import "strings"

// Label is one of the fixed document categories.
type Label int

const (
	LabelSport Label = iota
	LabelBusiness
	LabelPolitics
	LabelTech
	LabelEntertainment
	// LabelInvalid marks unrecognized labels and documents awaiting classification.
	LabelInvalid
)

var labelNames = [...]string{
	LabelSport:         "sport",
	LabelBusiness:      "business",
	LabelPolitics:      "politics",
	LabelTech:          "tech",
	LabelEntertainment: "entertainment",
	LabelInvalid:       "invalid",
}

// Labels returns the valid labels in enumeration order.
func Labels() []Label {
	return []Label{LabelSport, LabelBusiness, LabelPolitics, LabelTech, LabelEntertainment}
}

func ParseLabel(s string) Label {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Labels() {
		if labelNames[l] == name {
			return l
		}
	}
	return LabelInvalid
}

func (l Label) Valid() bool {
	return l >= LabelSport && l < LabelInvalid
}

func (l Label) String() string {
	if !l.Valid() {
		return labelNames[LabelInvalid]
	}
	return labelNames[l]
}
