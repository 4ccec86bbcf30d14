package catalog

// Tier classifies an accelerator by market segment.
type Tier string

const (
	TierEntry        Tier = "entry"
	TierMid          Tier = "mid"
	TierHigh         Tier = "high"
	TierProfessional Tier = "professional"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierEntry, TierMid, TierHigh, TierProfessional:
		return true
	}
	return false
}

// Category classifies a model by modality.
type Category string

const (
	CategoryLLM        Category = "llm"
	CategoryVision     Category = "vision"
	CategoryMultimodal Category = "multimodal"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLLM, CategoryVision, CategoryMultimodal:
		return true
	}
	return false
}

// Accelerator is a compute device profile.
type Accelerator struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	MemoryGB           int      `json:"memory_gb" yaml:"memory_gb"`
	ComputeCapability  string   `json:"compute_capability" yaml:"compute_capability"`
	RecommendedEngines []string `json:"recommended_engines" yaml:"recommended_engines"`
	Tier               Tier     `json:"tier" yaml:"tier"`
}

// Model is a deployable model profile.
type Model struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Size             string   `json:"size" yaml:"size"`
	MinMemoryGB      int      `json:"min_memory_gb" yaml:"min_memory_gb"`
	PlatformVersion  string   `json:"platform_version" yaml:"platform_version"`
	SupportedEngines []string `json:"supported_engines" yaml:"supported_engines"`
	Category         Category `json:"category" yaml:"category"`
	Description      string   `json:"description" yaml:"description"`
}

// SupportsEngine reports whether engineID is listed in the model's engines.
func (m Model) SupportsEngine(engineID string) bool {
	return contains(m.SupportedEngines, engineID)
}

// Engine is an inference-serving software profile.
type Engine struct {
	ID                    string   `json:"id" yaml:"id"`
	Name                  string   `json:"name" yaml:"name"`
	Description           string   `json:"description" yaml:"description"`
	Image                 string   `json:"image" yaml:"image"`
	SupportedAccelerators []string `json:"supported_accelerators" yaml:"supported_accelerators"`
	Features              []string `json:"features" yaml:"features"`
}

// SupportsAccelerator reports whether acceleratorID is listed in the engine's
// supported accelerators.
func (e Engine) SupportsAccelerator(acceleratorID string) bool {
	return contains(e.SupportedAccelerators, acceleratorID)
}

// EngineChoice is an engine as offered for a given accelerator, flagged when
// the accelerator lists it as recommended.
type EngineChoice struct {
	Engine
	Recommended bool `json:"recommended" yaml:"recommended"`
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
