// Package selection tracks an in-progress accelerator/model/engine choice.
//
// A Selection is a plain value owned by the caller. Every With* method
// returns an updated copy; none of them reset choices made earlier, so the
// selection can move between states in any order and never terminates.
package selection

import (
	"github.com/google/uuid"

	"github.com/jguan/modelrun/pkg/unit/catalog"
	"github.com/jguan/modelrun/pkg/unit/launch"
)

// State is derived from which choices are set.
type State int

const (
	StateEmpty State = iota
	StateAcceleratorChosen
	StateModelChosen
	StateEngineChosen
	StateReady
)

func (s State) String() string {
	switch s {
	case StateAcceleratorChosen:
		return "accelerator_chosen"
	case StateModelChosen:
		return "model_chosen"
	case StateEngineChosen:
		return "engine_chosen"
	case StateReady:
		return "ready"
	default:
		return "empty"
	}
}

// Selection is one user's current choices.
type Selection struct {
	ID          string               `json:"id"`
	Accelerator *catalog.Accelerator `json:"accelerator,omitempty"`
	Model       *catalog.Model       `json:"model,omitempty"`
	Engine      *catalog.Engine      `json:"engine,omitempty"`
	Parameters  launch.Parameters    `json:"parameters"`
}

// New starts an empty selection with the given parameters.
func New(params launch.Parameters) Selection {
	return Selection{
		ID:         uuid.NewString(),
		Parameters: params,
	}
}

// State reports Ready when all three choices are set, otherwise the latest
// stage that is set.
func (s Selection) State() State {
	switch {
	case s.Accelerator != nil && s.Model != nil && s.Engine != nil:
		return StateReady
	case s.Engine != nil:
		return StateEngineChosen
	case s.Model != nil:
		return StateModelChosen
	case s.Accelerator != nil:
		return StateAcceleratorChosen
	default:
		return StateEmpty
	}
}

func (s Selection) Ready() bool {
	return s.State() == StateReady
}

func (s Selection) WithAccelerator(acc catalog.Accelerator) Selection {
	s.Accelerator = &acc
	return s.recommend()
}

func (s Selection) WithModel(m catalog.Model) Selection {
	s.Model = &m
	return s.recommend()
}

func (s Selection) WithEngine(e catalog.Engine) Selection {
	s.Engine = &e
	return s
}

// WithParameters replaces the parameters. The recommendation is not
// re-applied, so manual edits stick until the accelerator or model changes.
func (s Selection) WithParameters(p launch.Parameters) Selection {
	s.Parameters = p
	return s
}

// ClearAccelerator, ClearModel and ClearEngine unset one choice.
func (s Selection) ClearAccelerator() Selection {
	s.Accelerator = nil
	return s
}

func (s Selection) ClearModel() Selection {
	s.Model = nil
	return s
}

func (s Selection) ClearEngine() Selection {
	s.Engine = nil
	return s
}

func (s Selection) recommend() Selection {
	if s.Accelerator == nil || s.Model == nil {
		return s
	}
	s.Parameters = s.Parameters.Apply(launch.Recommend(s.Accelerator.ID, s.Model.ID))
	return s
}

// AvailableModels lists the models compatible with the chosen accelerator,
// narrowed to the chosen engine if there is one. Empty without an accelerator.
func (s Selection) AvailableModels(c *catalog.Catalog) []catalog.Model {
	if s.Accelerator == nil {
		return []catalog.Model{}
	}
	engineFilter := ""
	if s.Engine != nil {
		engineFilter = s.Engine.ID
	}
	return c.CompatibleModels(*s.Accelerator, engineFilter)
}

// AvailableEngines lists engines for the chosen accelerator and model.
// Empty without an accelerator.
func (s Selection) AvailableEngines(c *catalog.Catalog) []catalog.EngineChoice {
	if s.Accelerator == nil {
		return []catalog.EngineChoice{}
	}
	return c.EngineChoices(*s.Accelerator, s.Model)
}

// Config returns the launch config for a ready selection.
func (s Selection) Config() (launch.Config, error) {
	if !s.Ready() {
		return launch.Config{}, launch.ErrIncompleteSelection.WithDetails("state", s.State().String())
	}
	return launch.Config{
		Accelerator: *s.Accelerator,
		Model:       *s.Model,
		Engine:      *s.Engine,
		Parameters:  s.Parameters,
	}, nil
}

// Generate renders the command; it refuses until the selection is ready.
func (s Selection) Generate() (launch.GeneratedCommand, error) {
	cfg, err := s.Config()
	if err != nil {
		return launch.GeneratedCommand{}, err
	}
	return launch.Generate(cfg), nil
}
