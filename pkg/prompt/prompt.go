// Package prompt renders the session state into the three video prompts.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"veoprompt/pkg/schema"
)

type Language string

const (
	Indonesian Language = "id"
	English    Language = "en"
	JSON       Language = "json"
)

var Languages = []Language{Indonesian, English, JSON}

func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Indonesian:
		return Indonesian, true
	case English:
		return English, true
	case JSON:
		return JSON, true
	}
	return "", false
}

type Output struct {
	Indonesian string `json:"indonesian"`
	English    string `json:"english"`
	JSON       string `json:"json"`
}

func (o Output) For(lang Language) string {
	switch lang {
	case Indonesian:
		return o.Indonesian
	case English:
		return o.English
	case JSON:
		return o.JSON
	}
	return ""
}

// Project renders characters, dialogues and environment. It has no side
// effects and the same input always produces byte-identical output.
func Project(chars []schema.Character, dialogues []schema.Dialogue, env schema.Environment) Output {
	return Output{
		Indonesian: indonesian(chars, dialogues, env),
		English:    english(chars, dialogues, env),
		JSON:       renderJSON(chars, dialogues, env),
	}
}

var englishGenders = map[string]string{
	schema.GenderMale:   "male",
	schema.GenderFemale: "female",
}

// EnglishGender maps the form's gender onto the English token. Anything
// outside the two binary values becomes "non-binary".
func EnglishGender(g string) string {
	if v, ok := englishGenders[g]; ok {
		return v
	}
	return "non-binary"
}

// position returns the 1-based index of the character, or 0 when unknown.
func position(chars []schema.Character, id string) int {
	for i, c := range chars {
		if c.ID == id {
			return i + 1
		}
	}
	return 0
}

func indonesian(chars []schema.Character, dialogues []schema.Dialogue, env schema.Environment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sebuah video dengan gaya %s. Tipe pengambilan gambar: %s, dengan sudut kamera: %s. Adegan berlatar di %s dengan pencahayaan %s.\n\n",
		env.Style, env.ShotType, env.CameraAngle, env.Description, env.Lighting)

	fmt.Fprintf(&b, "Menampilkan %d karakter:\n", len(chars))
	for i, c := range chars {
		fmt.Fprintf(&b, "- Karakter %d: Seorang %s ras %s berusia %s tahun. Mengenakan %s dengan gaya rambut %s. Deskripsi/aksi: %s\n",
			i+1, c.Gender, c.ResolvedRace(), c.Age, c.Outfit, c.Hairstyle, c.Description)
	}

	if len(dialogues) > 0 {
		b.WriteString("\nDialog:\n")
		for _, d := range dialogues {
			fmt.Fprintf(&b, "- Karakter %d: \"%s\"\n", position(chars, d.CharacterID), d.Text)
		}
	}
	return b.String()
}

func english(chars []schema.Character, dialogues []schema.Dialogue, env schema.Environment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A video in a %s style. Shot type: %s, with camera angle: %s. The scene is set in %s with %s.\n\n",
		env.Style, env.ShotType, env.CameraAngle, env.Description, env.Lighting)

	fmt.Fprintf(&b, "Featuring %d character(s):\n", len(chars))
	for i, c := range chars {
		fmt.Fprintf(&b, "- Character %d: A %s-year-old %s %s. Wearing %s with a %s hairstyle. Description/action: %s\n",
			i+1, c.Age, c.ResolvedRace(), EnglishGender(c.Gender), c.Outfit, c.Hairstyle, c.Description)
	}

	if len(dialogues) > 0 {
		b.WriteString("\nDialogue:\n")
		for _, d := range dialogues {
			fmt.Fprintf(&b, "- Character %d: \"%s\"\n", position(chars, d.CharacterID), d.Text)
		}
	}
	return b.String()
}

// The struct field order below is the key order of the rendered JSON.

type document struct {
	Characters []characterEntry `json:"characters"`
	Scene      scene            `json:"scene"`
	Dialogues  []dialogueEntry  `json:"dialogues"`
}

type characterEntry struct {
	Name        string     `json:"name"`
	Attributes  attributes `json:"attributes"`
	Description string     `json:"description_and_action"`
}

type attributes struct {
	Race      string `json:"race"`
	Gender    string `json:"gender"`
	Age       string `json:"age"`
	Outfit    string `json:"outfit"`
	Hairstyle string `json:"hairstyle"`
	Voice     string `json:"voice"`
}

type scene struct {
	Environment string `json:"environment"`
	Lighting    string `json:"lighting"`
	Style       string `json:"style"`
	Camera      camera `json:"camera"`
}

type camera struct {
	Angle    string `json:"angle"`
	ShotType string `json:"shot_type"`
}

type dialogueEntry struct {
	Character string `json:"character"`
	Line      string `json:"line"`
}

func displayName(n int) string {
	return fmt.Sprintf("Character %d", n)
}

func renderJSON(chars []schema.Character, dialogues []schema.Dialogue, env schema.Environment) string {
	doc := document{
		Characters: make([]characterEntry, 0, len(chars)),
		Scene: scene{
			Environment: env.Description,
			Lighting:    env.Lighting,
			Style:       env.Style,
			Camera: camera{
				Angle:    env.CameraAngle,
				ShotType: env.ShotType,
			},
		},
		Dialogues: make([]dialogueEntry, 0, len(dialogues)),
	}
	for i, c := range chars {
		doc.Characters = append(doc.Characters, characterEntry{
			Name: displayName(i + 1),
			Attributes: attributes{
				Race:      c.ResolvedRace(),
				Gender:    c.Gender,
				Age:       c.Age,
				Outfit:    c.Outfit,
				Hairstyle: c.Hairstyle,
				Voice:     c.Voice,
			},
			Description: c.Description,
		})
	}
	for _, d := range dialogues {
		doc.Dialogues = append(doc.Dialogues, dialogueEntry{
			Character: displayName(position(chars, d.CharacterID)),
			Line:      d.Text,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	// document holds only strings and slices of plain structs; Encode cannot fail.
	_ = enc.Encode(doc)
	return strings.TrimSuffix(buf.String(), "\n")
}
