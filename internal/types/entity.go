package types

// EntityCategory groups extraction vocabularies.
type EntityCategory string

const (
	CategoryArchetypal EntityCategory = "archetypal"
	CategoryEmotional  EntityCategory = "emotional"
	CategorySomatic    EntityCategory = "somatic"
	CategoryTrauma     EntityCategory = "trauma"
	CategoryAttachment EntityCategory = "attachment"
	CategoryParts      EntityCategory = "parts"
	CategoryRegulation EntityCategory = "regulation"
)

// AllCategories lists every category in scan order.
var AllCategories = []EntityCategory{
	CategoryArchetypal,
	CategoryEmotional,
	CategorySomatic,
	CategoryTrauma,
	CategoryAttachment,
	CategoryParts,
	CategoryRegulation,
}

// Entity is a thematic mention extracted from one message.
type Entity struct {
	Name           string         `json:"name"`
	Category       EntityCategory `json:"category"`
	ContextSnippet string         `json:"context_snippet"`
	Confidence     float64        `json:"confidence"`
}
