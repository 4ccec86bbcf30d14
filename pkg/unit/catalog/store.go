package catalog

// Catalog holds the three static tables. Entries keep their declaration
// order, and every list returned by a Catalog method preserves that order.
// A Catalog is immutable once loaded.
type Catalog struct {
	accelerators []Accelerator
	models       []Model
	engines      []Engine

	acceleratorIdx map[string]int
	modelIdx       map[string]int
	engineIdx      map[string]int
}

func newCatalog() *Catalog {
	return &Catalog{
		acceleratorIdx: make(map[string]int),
		modelIdx:       make(map[string]int),
		engineIdx:      make(map[string]int),
	}
}

// New builds a catalog from in-memory tables, validating each entry.
func New(accelerators []Accelerator, models []Model, engines []Engine) (*Catalog, error) {
	c := newCatalog()
	for _, a := range accelerators {
		if err := c.addAccelerator(a); err != nil {
			return nil, err
		}
	}
	for _, m := range models {
		if err := c.addModel(m); err != nil {
			return nil, err
		}
	}
	for _, e := range engines {
		if err := c.addEngine(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) clone() *Catalog {
	cp := newCatalog()
	cp.accelerators = append(cp.accelerators, c.accelerators...)
	cp.models = append(cp.models, c.models...)
	cp.engines = append(cp.engines, c.engines...)
	for k, v := range c.acceleratorIdx {
		cp.acceleratorIdx[k] = v
	}
	for k, v := range c.modelIdx {
		cp.modelIdx[k] = v
	}
	for k, v := range c.engineIdx {
		cp.engineIdx[k] = v
	}
	return cp
}

func (c *Catalog) addAccelerator(a Accelerator) error {
	if err := validateAccelerator(a); err != nil {
		return err
	}
	if _, exists := c.acceleratorIdx[a.ID]; exists {
		return ErrDuplicateEntry.WithDetails("accelerator", a.ID)
	}
	c.acceleratorIdx[a.ID] = len(c.accelerators)
	c.accelerators = append(c.accelerators, a)
	return nil
}

func (c *Catalog) addModel(m Model) error {
	if err := validateModel(m); err != nil {
		return err
	}
	if _, exists := c.modelIdx[m.ID]; exists {
		return ErrDuplicateEntry.WithDetails("model", m.ID)
	}
	c.modelIdx[m.ID] = len(c.models)
	c.models = append(c.models, m)
	return nil
}

func (c *Catalog) addEngine(e Engine) error {
	if err := validateEngine(e); err != nil {
		return err
	}
	if _, exists := c.engineIdx[e.ID]; exists {
		return ErrDuplicateEntry.WithDetails("engine", e.ID)
	}
	c.engineIdx[e.ID] = len(c.engines)
	c.engines = append(c.engines, e)
	return nil
}

// Accelerators returns all accelerators in declaration order.
func (c *Catalog) Accelerators() []Accelerator {
	return append([]Accelerator{}, c.accelerators...)
}

// Models returns all models in declaration order.
func (c *Catalog) Models() []Model {
	return append([]Model{}, c.models...)
}

// Engines returns all engines in declaration order.
func (c *Catalog) Engines() []Engine {
	return append([]Engine{}, c.engines...)
}

func (c *Catalog) Accelerator(id string) (Accelerator, bool) {
	i, ok := c.acceleratorIdx[id]
	if !ok {
		return Accelerator{}, false
	}
	return c.accelerators[i], true
}

func (c *Catalog) Model(id string) (Model, bool) {
	i, ok := c.modelIdx[id]
	if !ok {
		return Model{}, false
	}
	return c.models[i], true
}

func (c *Catalog) Engine(id string) (Engine, bool) {
	i, ok := c.engineIdx[id]
	if !ok {
		return Engine{}, false
	}
	return c.engines[i], true
}

// LookupAccelerator is Accelerator returning ErrAcceleratorNotFound.
func (c *Catalog) LookupAccelerator(id string) (Accelerator, error) {
	a, ok := c.Accelerator(id)
	if !ok {
		return Accelerator{}, ErrAcceleratorNotFound.WithDetails("id", id)
	}
	return a, nil
}

// LookupModel is Model returning ErrModelNotFound.
func (c *Catalog) LookupModel(id string) (Model, error) {
	m, ok := c.Model(id)
	if !ok {
		return Model{}, ErrModelNotFound.WithDetails("id", id)
	}
	return m, nil
}

// LookupEngine is Engine returning ErrEngineNotFound.
func (c *Catalog) LookupEngine(id string) (Engine, error) {
	e, ok := c.Engine(id)
	if !ok {
		return Engine{}, ErrEngineNotFound.WithDetails("id", id)
	}
	return e, nil
}
