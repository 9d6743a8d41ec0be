package schema

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestResolvedRace(t *testing.T) {
	c := NewCharacter("a")
	c.CustomRace = "Cyborg"
	assert.Equal(t, "Indonesia", c.ResolvedRace(), "custom race ignored unless the sentinel is chosen")

	c.Race = RaceOther
	assert.Equal(t, "Cyborg", c.ResolvedRace())
}

func TestPatchesOnlyTouchSetFields(t *testing.T) {
	c := NewCharacter("a")
	outfit := "jas hujan kuning"
	CharacterPatch{Outfit: &outfit}.Apply(&c)

	want := NewCharacter("a")
	want.Outfit = outfit
	assert.Equal(t, want, c)

	e := DefaultEnvironment()
	style := "anime"
	EnvironmentPatch{Style: &style}.Apply(&e)
	assert.Equal(t, "anime", e.Style)
	assert.Equal(t, DefaultEnvironment().Lighting, e.Lighting)
}

func TestCharacterUpdateWritesAllAnalyzedFields(t *testing.T) {
	c := NewCharacter("a")
	CharacterUpdate{Race: "Arab", Gender: GenderFemale}.Apply(&c)
	assert.Equal(t, "Arab", c.Race)
	assert.Empty(t, c.Age)
	assert.Empty(t, c.Outfit)
	assert.Equal(t, "Baritone", c.Voice)
}

func TestNoticeJSON(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	n := &Notice{Kind: "transport", Message: "Gagal menganalisis gambar.", At: at, Error: errors.New("dial tcp: timeout")}

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"transport","message":"Gagal menganalisis gambar.","at":"2025-01-02T03:04:05Z","error":"dial tcp: timeout"}`, string(raw))

	var back Notice
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "dial tcp: timeout", back.Error.Error())
	assert.Equal(t, at, back.At)

	raw, err = json.Marshal(Character{ID: "a"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "analysis_error")
	assert.NotContains(t, string(raw), "preview_id")
}

func TestImageAnalysisSchema(t *testing.T) {
	raw, err := json.Marshal(ImageAnalysisSchema)
	require.NoError(t, err)

	var doc struct {
		Type                 string         `json:"type"`
		Required             []string       `json:"required"`
		AdditionalProperties any            `json:"additionalProperties"`
		Properties           map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "object", doc.Type)
	assert.ElementsMatch(t, ImageAnalysisFields, doc.Required)
	assert.Equal(t, false, doc.AdditionalProperties)
	assert.Len(t, doc.Properties, len(ImageAnalysisFields))

	g := GeminiResponseSchema()
	assert.Equal(t, genai.TypeObject, g.Type)
	assert.Equal(t, ImageAnalysisFields, g.Required)
	for _, f := range ImageAnalysisFields {
		require.Contains(t, g.Properties, f)
		assert.Equal(t, genai.TypeString, g.Properties[f].Type)
	}
}

func TestAnalyzableRaces(t *testing.T) {
	races := AnalyzableRaces()
	assert.Len(t, races, len(RaceOptions)-1)
	assert.NotContains(t, races, RaceOther)
	assert.Len(t, AllOptions().Lighting, 10)
}
