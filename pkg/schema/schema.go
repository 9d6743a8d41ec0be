package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ImageAnalysis is the structured answer expected from the vision model.
// Every value is Indonesian free text except where the enumeration applies.
type ImageAnalysis struct {
	Race        string `json:"race" jsonschema_description:"Satu ras/etnis dari daftar yang diberikan"`
	Gender      string `json:"gender" jsonschema_description:"Satu gender dari daftar yang diberikan"`
	Age         string `json:"age" jsonschema_description:"Perkiraan usia sebagai string angka, misalnya \"32\""`
	Outfit      string `json:"outfit" jsonschema_description:"Deskripsi detail pakaian yang dikenakan"`
	Hairstyle   string `json:"hairstyle" jsonschema_description:"Deskripsi detail gaya rambut"`
	Description string `json:"description" jsonschema_description:"Satu kalimat tentang penampilan, ekspresi, atau tindakan"`
}

// ImageAnalysisFields lists the required keys in response order.
var ImageAnalysisFields = []string{"race", "gender", "age", "outfit", "hairstyle", "description"}

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var ImageAnalysisSchema = generateSchema[ImageAnalysis]()

func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "character_image_analysis",
		Description: openai.String("Race, gender, age, outfit, hairstyle and description of the person in an image"),
		Schema:      ImageAnalysisSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

// GeminiResponseSchema is the same contract expressed as a genai schema.
func GeminiResponseSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(ImageAnalysisFields))
	for _, f := range ImageAnalysisFields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         ImageAnalysisFields,
		PropertyOrdering: ImageAnalysisFields,
	}
}
