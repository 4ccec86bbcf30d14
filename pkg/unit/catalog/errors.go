package catalog

import "github.com/jguan/modelrun/pkg/unit"

// Catalog domain errors.
var (
	ErrAcceleratorNotFound = unit.NewDomainError("catalog", unit.ErrCodeAcceleratorNotFound, "accelerator not found")
	ErrModelNotFound       = unit.NewDomainError("catalog", unit.ErrCodeModelNotFound, "model not found")
	ErrEngineNotFound      = unit.NewDomainError("catalog", unit.ErrCodeEngineNotFound, "engine not found")
	ErrCatalogInvalid      = unit.NewDomainError("catalog", unit.ErrCodeCatalogInvalid, "catalog data is invalid")
	ErrDuplicateEntry      = unit.NewDomainError("catalog", unit.ErrCodeCatalogDuplicate, "duplicate catalog entry")

	ErrInvalidInput = unit.NewError(unit.ErrCodeInvalidInput, "invalid input")
)
