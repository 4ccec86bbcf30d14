package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"gopkg.in/yaml.v3"

	catalogdata "github.com/jguan/modelrun/catalog"
)

const (
	AcceleratorsFile = "accelerators.yaml"
	ModelsFile       = "models.yaml"
	EnginesFile      = "engines.yaml"
)

type acceleratorsYAML struct {
	Accelerators []Accelerator `yaml:"accelerators"`
}

type modelsYAML struct {
	Models []Model `yaml:"models"`
}

type enginesYAML struct {
	Engines []Engine `yaml:"engines"`
}

var builtin = sync.OnceValues(func() (*Catalog, error) {
	c, err := LoadFS(catalogdata.FS, catalogdata.Dir)
	if err != nil {
		return nil, fmt.Errorf("load built-in catalog: %w", err)
	}
	if len(c.accelerators) == 0 || len(c.models) == 0 || len(c.engines) == 0 {
		return nil, ErrCatalogInvalid.WithDetails("reason", "built-in catalog has an empty table")
	}
	return c, nil
})

// Builtin returns the catalog compiled into the binary. It is parsed once per
// process and shared; Catalog is read-only so sharing is safe.
func Builtin() (*Catalog, error) {
	return builtin()
}

// LoadFS reads the three tables from dir inside fsys. Missing files are
// treated as empty tables so partial overlays are allowed.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	c := newCatalog()
	if err := c.mergeFS(fsys, dir); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir is LoadFS over a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// WithOverlayDir returns a new catalog holding c's entries followed by the
// entries found in dir. c itself is left untouched.
func (c *Catalog) WithOverlayDir(dir string) (*Catalog, error) {
	merged := c.clone()
	if err := merged.mergeFS(os.DirFS(dir), "."); err != nil {
		return nil, fmt.Errorf("overlay %s: %w", dir, err)
	}
	return merged, nil
}

func (c *Catalog) mergeFS(fsys fs.FS, dir string) error {
	var accs acceleratorsYAML
	if err := readTable(fsys, path.Join(dir, AcceleratorsFile), &accs); err != nil {
		return err
	}
	for _, a := range accs.Accelerators {
		if err := c.addAccelerator(a); err != nil {
			return fmt.Errorf("%s: %w", AcceleratorsFile, err)
		}
	}

	var models modelsYAML
	if err := readTable(fsys, path.Join(dir, ModelsFile), &models); err != nil {
		return err
	}
	for _, m := range models.Models {
		if err := c.addModel(m); err != nil {
			return fmt.Errorf("%s: %w", ModelsFile, err)
		}
	}

	var engines enginesYAML
	if err := readTable(fsys, path.Join(dir, EnginesFile), &engines); err != nil {
		return err
	}
	for _, e := range engines.Engines {
		if err := c.addEngine(e); err != nil {
			return fmt.Errorf("%s: %w", EnginesFile, err)
		}
	}

	return nil
}

func readTable(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return ErrCatalogInvalid.WithDetails("file", name).WithCause(err)
	}
	return nil
}

func validateAccelerator(a Accelerator) error {
	switch {
	case a.ID == "":
		return ErrCatalogInvalid.WithDetails("reason", "accelerator without id")
	case a.MemoryGB <= 0:
		return ErrCatalogInvalid.WithDetails("accelerator", a.ID).WithDetails("reason", "memory_gb must be positive")
	case !a.Tier.Valid():
		return ErrCatalogInvalid.WithDetails("accelerator", a.ID).WithDetails("reason", "unknown tier "+string(a.Tier))
	}
	return nil
}

func validateModel(m Model) error {
	switch {
	case m.ID == "":
		return ErrCatalogInvalid.WithDetails("reason", "model without id")
	case m.MinMemoryGB < 0:
		return ErrCatalogInvalid.WithDetails("model", m.ID).WithDetails("reason", "min_memory_gb cannot be negative")
	case !m.Category.Valid():
		return ErrCatalogInvalid.WithDetails("model", m.ID).WithDetails("reason", "unknown category "+string(m.Category))
	}
	return nil
}

func validateEngine(e Engine) error {
	switch {
	case e.ID == "":
		return ErrCatalogInvalid.WithDetails("reason", "engine without id")
	case e.Image == "":
		return ErrCatalogInvalid.WithDetails("engine", e.ID).WithDetails("reason", "image is required")
	}
	return nil
}
