package schema

// Character is one subject appearing in the scene.
type Character struct {
	ID          string `json:"id"`
	Race        string `json:"race"`
	CustomRace  string `json:"custom_race"`
	Gender      string `json:"gender"`
	Age         string `json:"age"`
	Outfit      string `json:"outfit"`
	Hairstyle   string `json:"hairstyle"`
	Voice       string `json:"voice"`
	Description string `json:"description"`

	PreviewID     string  `json:"preview_id,omitzero"`
	Analyzing     bool    `json:"analyzing"`
	AnalysisError *Notice `json:"analysis_error,omitempty"`
}

// ResolvedRace returns CustomRace when the race is the "other" sentinel.
func (c Character) ResolvedRace() string {
	if c.Race == RaceOther {
		return c.CustomRace
	}
	return c.Race
}

// NewCharacter returns a character with the form defaults and the given id.
func NewCharacter(id string) Character {
	return Character{
		ID:          id,
		Race:        "Indonesia",
		Gender:      GenderMale,
		Age:         "25",
		Outfit:      "Kaos putih dan celana jeans",
		Hairstyle:   "Rambut pendek hitam",
		Voice:       "Baritone",
		Description: "Seorang petualang yang pemberani.",
	}
}

// Dialogue is a spoken line attributed to exactly one character.
type Dialogue struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	Text        string `json:"text"`
}

// Environment describes the single scene.
type Environment struct {
	Description string `json:"description"`
	Lighting    string `json:"lighting"`
	CameraAngle string `json:"camera_angle"`
	ShotType    string `json:"shot_type"`
	Style       string `json:"style"`
}

func DefaultEnvironment() Environment {
	return Environment{
		Description: "Sebuah pasar malam yang ramai di Jakarta",
		Lighting:    "neon lighting",
		CameraAngle: "eye-level shot",
		ShotType:    "medium shot",
		Style:       "realistis, sinematik",
	}
}

// CharacterPatch carries a partial character edit; nil fields are left alone.
type CharacterPatch struct {
	Race        *string `json:"race,omitempty"`
	CustomRace  *string `json:"custom_race,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Age         *string `json:"age,omitempty"`
	Outfit      *string `json:"outfit,omitempty"`
	Hairstyle   *string `json:"hairstyle,omitempty"`
	Voice       *string `json:"voice,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p CharacterPatch) Apply(c *Character) {
	set(&c.Race, p.Race)
	set(&c.CustomRace, p.CustomRace)
	set(&c.Gender, p.Gender)
	set(&c.Age, p.Age)
	set(&c.Outfit, p.Outfit)
	set(&c.Hairstyle, p.Hairstyle)
	set(&c.Voice, p.Voice)
	set(&c.Description, p.Description)
}

type DialoguePatch struct {
	CharacterID *string `json:"character_id,omitempty"`
	Text        *string `json:"text,omitempty"`
}

type EnvironmentPatch struct {
	Description *string `json:"description,omitempty"`
	Lighting    *string `json:"lighting,omitempty"`
	CameraAngle *string `json:"camera_angle,omitempty"`
	ShotType    *string `json:"shot_type,omitempty"`
	Style       *string `json:"style,omitempty"`
}

func (p EnvironmentPatch) Apply(e *Environment) {
	set(&e.Description, p.Description)
	set(&e.Lighting, p.Lighting)
	set(&e.CameraAngle, p.CameraAngle)
	set(&e.ShotType, p.ShotType)
	set(&e.Style, p.Style)
}

// CharacterUpdate is the normalized result of an image analysis. All six
// fields are always written together.
type CharacterUpdate struct {
	Race        string `json:"race"`
	CustomRace  string `json:"custom_race"`
	Gender      string `json:"gender"`
	Age         string `json:"age"`
	Outfit      string `json:"outfit"`
	Hairstyle   string `json:"hairstyle"`
	Description string `json:"description"`
}

func (u CharacterUpdate) Apply(c *Character) {
	c.Race = u.Race
	c.CustomRace = u.CustomRace
	c.Gender = u.Gender
	c.Age = u.Age
	c.Outfit = u.Outfit
	c.Hairstyle = u.Hairstyle
	c.Description = u.Description
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
