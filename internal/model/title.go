package model

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// DisplayName title-cases a district or state name for presentation.
// The source data stores district names lowercased.
func DisplayName(name string) string {
	return titleCaser.String(name)
}
