package schema

// SceneAnalysis holds categorized observations about the source photograph.
// All list fields are always non-nil slices of strings and all scalar
// descriptors are non-empty strings ("unknown" when the model could not tell).
type SceneAnalysis struct {
	ArchitecturalElements  []string `json:"architectural_elements" jsonschema_description:"Buildings, facades and structural features visible in the photo"`
	ClothingFashion        []string `json:"clothing_fashion" jsonschema_description:"Clothing and fashion items worn by people in the photo"`
	VehiclesTransportation []string `json:"vehicles_transportation" jsonschema_description:"Vehicles and other means of transportation visible"`
	TechnologyVisible      []string `json:"technology_visible" jsonschema_description:"Modern technology visible (signage, wiring, screens, antennas)"`
	MaterialsConstruction  []string `json:"materials_construction" jsonschema_description:"Construction materials that can be identified"`

	SceneType          string `json:"scene_type" jsonschema_description:"Short scene classification (e.g. urban scene, rural landscape)"`
	LightingConditions string `json:"lighting_conditions" jsonschema_description:"Lighting conditions, or the string unknown"`
	WeatherAtmosphere  string `json:"weather_atmosphere" jsonschema_description:"Weather and atmosphere, or the string unknown"`
	TimeOfDay          string `json:"time_of_day" jsonschema_description:"Apparent time of day, or the string unknown"`
	Season             string `json:"season" jsonschema_description:"Apparent season, or the string unknown"`

	ArchitecturalStyleResearch []string `json:"architectural_style_research"`
	CulturalContextNeeded      []string `json:"cultural_context_needed"`
	FashionPeriodResearch      []string `json:"fashion_period_research"`
	TechnologyEvolution        []string `json:"technology_evolution"`

	VisualStyleDescriptors []string `json:"visual_style_descriptors"`
	CompositionElements    []string `json:"composition_elements" jsonschema_description:"Composition features worth preserving in the transformed image"`
	ColorPaletteNotes      []string `json:"color_palette_notes"`

	ClarificationQuestions []string `json:"clarification_questions"`
	ResearchSuggestions    []string `json:"research_suggestions"`
}

// HistoricalContext holds categorized facts about a place and period.
type HistoricalContext struct {
	ArchitecturalStyles     []string `json:"architectural_styles" jsonschema_description:"Architectural styles common at the place and period"`
	CommonMaterials         []string `json:"common_materials" jsonschema_description:"Construction materials typical for the period"`
	TypicalClothing         []string `json:"typical_clothing"`
	TransportationMethods   []string `json:"transportation_methods"`
	TechnologyLevel         []string `json:"technology_level"`
	CulturalCharacteristics []string `json:"cultural_characteristics"`
	NotableEvents           []string `json:"notable_events"`
	SocialContext           []string `json:"social_context"`
}

// PromptComponents is the intermediate, categorized form of a generation
// prompt. CoreDescription is always non-empty after synthesis.
type PromptComponents struct {
	CoreDescription      string   `json:"core_description" jsonschema_description:"Short free-text core description of the target scene, at most 40 words"`
	HistoricalStyleTags  []string `json:"historical_style_tags"`
	ArchitecturalDetails []string `json:"architectural_details"`
	AtmosphericElements  []string `json:"atmospheric_elements"`
	NegativePrompts      []string `json:"negative_prompts"`
	StyleModifiers       []string `json:"style_modifiers"`
	CompositionGuidance  []string `json:"composition_guidance"`
}

// PromptPayload is the final flattened artifact handed to the image
// generation backend. It is never mutated after construction.
type PromptPayload struct {
	CorePrompt           string   `json:"core_prompt"`
	NegativePrompt       string   `json:"negative_prompt"`
	StyleModifiers       []string `json:"style_modifiers"`
	ArchitecturalDetails []string `json:"architectural_details"`
	AtmosphericElements  []string `json:"atmospheric_elements"`
	CompositionGuidance  []string `json:"composition_guidance"`
	HistoricalTags       []string `json:"historical_tags"`
}
