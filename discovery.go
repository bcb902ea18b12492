package autowire

import (
	"sort"
)

// ModuleOrder rearranges the default-sorted module sequence. It
// receives the modules already sorted by canonical name and returns
// the sequence the pipeline should use.
type ModuleOrder func([]*Module) []*Module

// discovery locates the participating modules: everything the
// bootstrap registry knows about plus explicitly supplied extras, in a
// stable alphabetical order unless the caller reorders.
type discovery struct {
	extras          []*Module
	reorder         ModuleOrder
	continueOnError bool
	skipBootstrap   bool
	logger          Logger
}

func (d *discovery) discover() ([]*Module, error) {
	var modules []*Module
	if !d.skipBootstrap {
		modules = snapshotBootstrap()
	}

	seen := make(map[string]bool, len(modules)+len(d.extras))
	for _, m := range modules {
		seen[m.Name] = true
	}

	for _, m := range d.extras {
		if m == nil || seen[m.Name] {
			continue
		}

		seen[m.Name] = true
		modules = append(modules, m)
	}

	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	if d.reorder != nil {
		modules = d.reorder(modules)
	}

	loaded := modules[:0:0]
	for _, m := range modules {
		if err := d.load(m); err != nil {
			if !d.continueOnError {
				return nil, err
			}

			d.logger.Warnf("skipping module %s: %v", m.Name, err)
			continue
		}

		loaded = append(loaded, m)
	}

	return loaded, nil
}

func (d *discovery) load(m *Module) error {
	if m.loader == nil {
		return nil
	}

	if err := m.loader(); err != nil {
		return &ModuleLoadError{Module: m.Name, Err: err}
	}

	return nil
}
