package registry

import (
	"fmt"

	"github.com/jguan/modelrun/pkg/unit"
	"github.com/jguan/modelrun/pkg/unit/catalog"
	"github.com/jguan/modelrun/pkg/unit/launch"
)

type Options struct {
	Catalog  *catalog.Catalog
	Defaults launch.Parameters
}

type Option func(*Options)

// WithCatalog replaces the built-in catalog, e.g. with one carrying an overlay.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *Options) {
		o.Catalog = c
	}
}

// WithDefaults sets the parameters recommendations are merged into.
func WithDefaults(p launch.Parameters) Option {
	return func(o *Options) {
		o.Defaults = p
	}
}

func RegisterAll(registry *unit.Registry, opts ...Option) error {
	options := &Options{Defaults: launch.DefaultParameters()}
	for _, opt := range opts {
		opt(options)
	}

	if options.Catalog == nil {
		c, err := catalog.Builtin()
		if err != nil {
			return err
		}
		options.Catalog = c
	}

	if err := registerCatalogDomain(registry, options); err != nil {
		return fmt.Errorf("register catalog domain: %w", err)
	}

	if err := registerLaunchDomain(registry, options); err != nil {
		return fmt.Errorf("register launch domain: %w", err)
	}

	return nil
}

func registerCatalogDomain(registry *unit.Registry, options *Options) error {
	for _, q := range catalog.Queries(options.Catalog) {
		if err := registry.RegisterQuery(q); err != nil {
			return err
		}
	}
	return nil
}

func registerLaunchDomain(registry *unit.Registry, options *Options) error {
	for _, q := range launch.Queries(options.Catalog, options.Defaults) {
		if err := registry.RegisterQuery(q); err != nil {
			return err
		}
	}
	return nil
}
