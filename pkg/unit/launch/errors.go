package launch

import "github.com/jguan/modelrun/pkg/unit"

var (
	ErrInvalidParameters   = unit.NewDomainError("launch", unit.ErrCodeInvalidParameters, "invalid launch parameters")
	ErrIncompleteSelection = unit.NewDomainError("launch", unit.ErrCodeIncompleteSelection, "accelerator, model and engine must all be selected")
	ErrRenderFailed        = unit.NewDomainError("launch", unit.ErrCodeRenderFailed, "failed to render launch configuration")
)
