package catalog

// The filters below never fail: no match yields an empty, non-nil slice.

// CompatibleModels returns the models that fit in the accelerator's memory
// and, when engineFilter is non-empty, that list engineFilter among their
// supported engines.
func (c *Catalog) CompatibleModels(acc Accelerator, engineFilter string) []Model {
	result := make([]Model, 0, len(c.models))
	for _, m := range c.models {
		if m.MinMemoryGB > acc.MemoryGB {
			continue
		}
		if engineFilter != "" && !m.SupportsEngine(engineFilter) {
			continue
		}
		result = append(result, m)
	}
	return result
}

// CompatibleEngines returns the engines that support the accelerator,
// narrowed to the model's supported engines when model is non-nil.
func (c *Catalog) CompatibleEngines(acc Accelerator, model *Model) []Engine {
	result := make([]Engine, 0, len(c.engines))
	for _, e := range c.engines {
		if !e.SupportsAccelerator(acc.ID) {
			continue
		}
		if model != nil && !model.SupportsEngine(e.ID) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// EngineChoices is CompatibleEngines with each engine flagged when the
// accelerator recommends it.
func (c *Catalog) EngineChoices(acc Accelerator, model *Model) []EngineChoice {
	engines := c.CompatibleEngines(acc, model)
	result := make([]EngineChoice, 0, len(engines))
	for _, e := range engines {
		result = append(result, EngineChoice{
			Engine:      e,
			Recommended: IsRecommended(acc, e.ID),
		})
	}
	return result
}

// IsRecommended reports whether the accelerator lists engineID as recommended.
func IsRecommended(acc Accelerator, engineID string) bool {
	return contains(acc.RecommendedEngines, engineID)
}

// AcceleratorsByTier returns accelerators of the given tier; an empty tier
// matches all.
func (c *Catalog) AcceleratorsByTier(tier Tier) []Accelerator {
	result := make([]Accelerator, 0, len(c.accelerators))
	for _, a := range c.accelerators {
		if tier != "" && a.Tier != tier {
			continue
		}
		result = append(result, a)
	}
	return result
}

// ModelsByCategory returns models of the given category; an empty category
// matches all.
func (c *Catalog) ModelsByCategory(category Category) []Model {
	result := make([]Model, 0, len(c.models))
	for _, m := range c.models {
		if category != "" && m.Category != category {
			continue
		}
		result = append(result, m)
	}
	return result
}
