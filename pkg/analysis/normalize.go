package analysis

import (
	"cmp"
	"strings"

	"veoprompt/pkg/schema"
)

// Normalize maps a model answer onto the form's fields. The race is matched
// case-insensitively against the enumeration; an unknown race becomes the
// "other" sentinel with the raw text kept as the custom race.
func Normalize(a schema.ImageAnalysis) schema.CharacterUpdate {
	u := schema.CharacterUpdate{
		Gender:      cmp.Or(a.Gender, schema.GenderOptions[0]),
		Age:         a.Age,
		Outfit:      a.Outfit,
		Hairstyle:   a.Hairstyle,
		Description: a.Description,
	}

	if race, ok := matchRace(a.Race); ok {
		u.Race = race
	} else {
		u.Race = schema.RaceOther
		u.CustomRace = a.Race
	}
	return u
}

func matchRace(raw string) (string, bool) {
	for _, r := range schema.RaceOptions {
		if strings.EqualFold(r, raw) {
			return r, true
		}
	}
	return "", false
}
