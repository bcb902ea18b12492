package autowire

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// The serialized table format carries everything a precomputed table
// holds except the live factories, which only exist as code. A table
// read from YAML is metadata-only: it supports classification
// inspection and verification dry-runs, not resolution.

type tableFile struct {
	Modules []tableFileModule `yaml:"modules"`
}

type tableFileModule struct {
	Name    string            `yaml:"name"`
	Types   []tableFileType   `yaml:"types,omitempty"`
	Plugins []tableFilePlugin `yaml:"plugins,omitempty"`
}

type tableFileType struct {
	Name             string              `yaml:"name"`
	Interfaces       []string            `yaml:"interfaces,omitempty"`
	Lifetime         string              `yaml:"lifetime,omitempty"`
	Params           []string            `yaml:"params,omitempty"`
	ExcludeInjection bool                `yaml:"excludeInjection,omitempty"`
	Decorator        *tableFileDecorator `yaml:"decorator,omitempty"`
}

type tableFileDecorator struct {
	Target string `yaml:"target"`
	Order  int    `yaml:"order"`
}

type tableFilePlugin struct {
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
}

// ReadTable parses a serialized precomputed table.
func ReadTable(r io.Reader) (*Table, error) {
	var file tableFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	table := &Table{}
	for _, fm := range file.Modules {
		if fm.Name == "" {
			return nil, fmt.Errorf("reading table: module without a name")
		}

		module := TableModule{Name: fm.Name}
		for _, ft := range fm.Types {
			t, err := ft.toType()
			if err != nil {
				return nil, fmt.Errorf("reading table: module %s: %w", fm.Name, err)
			}

			module.Types = append(module.Types, t)
		}

		for _, fp := range fm.Plugins {
			module.Plugins = append(module.Plugins, TablePlugin{
				Name:         fp.Name,
				Capabilities: fp.Capabilities,
			})
		}

		table.Modules = append(table.Modules, module)
	}

	return table, nil
}

func (ft tableFileType) toType() (TableType, error) {
	if ft.Name == "" {
		return TableType{}, fmt.Errorf("type without a name")
	}

	lifetime, err := ParseLifetime(ft.Lifetime)
	if err != nil {
		return TableType{}, fmt.Errorf("type %s: %w", ft.Name, err)
	}

	t := TableType{
		Name:             ft.Name,
		Lifetime:         lifetime,
		ExcludeInjection: ft.ExcludeInjection,
	}

	for _, iface := range ft.Interfaces {
		t.Interfaces = append(t.Interfaces, ServiceRef{Name: iface})
	}
	for _, p := range ft.Params {
		t.Params = append(t.Params, ServiceRef{Name: p})
	}

	if ft.Decorator != nil {
		t.Decorator = &DecoratorSpec{
			Target: ServiceRef{Name: ft.Decorator.Target},
			Order:  ft.Decorator.Order,
		}
	}

	return t, nil
}

// WriteTable serializes a table. Factories cannot be carried by the
// format and are dropped.
func WriteTable(w io.Writer, table *Table) error {
	file := tableFile{}
	for _, m := range table.Modules {
		fm := tableFileModule{Name: m.Name}

		for _, t := range m.Types {
			ft := tableFileType{
				Name:             t.Name,
				ExcludeInjection: t.ExcludeInjection,
			}

			if t.Lifetime != Unset {
				ft.Lifetime = t.Lifetime.String()
			}

			for _, iface := range t.Interfaces {
				ft.Interfaces = append(ft.Interfaces, iface.Name)
			}
			for _, p := range t.Params {
				ft.Params = append(ft.Params, p.Name)
			}

			if t.Decorator != nil {
				ft.Decorator = &tableFileDecorator{
					Target: t.Decorator.Target.Name,
					Order:  t.Decorator.Order,
				}
			}

			fm.Types = append(fm.Types, ft)
		}

		for _, p := range m.Plugins {
			fm.Plugins = append(fm.Plugins, tableFilePlugin{
				Name:         p.Name,
				Capabilities: p.Capabilities,
			})
		}

		file.Modules = append(file.Modules, fm)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()

	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}
