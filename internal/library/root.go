package library

import (
	"volta/internal/symbols"
)

// DesignRoot holds every library of the design, in insertion order.
type DesignRoot struct {
	order     []*Library
	libByName map[symbols.Symbol]*Library
}

// NewDesignRoot creates an empty design root.
func NewDesignRoot() *DesignRoot {
	return &DesignRoot{
		libByName: make(map[symbols.Symbol]*Library),
	}
}

// AddLibrary registers a library. A library added twice under the same
// name replaces the earlier one.
func (r *DesignRoot) AddLibrary(lib *Library) {
	if _, ok := r.libByName[lib.Name]; !ok {
		r.order = append(r.order, lib)
	} else {
		for i, existing := range r.order {
			if existing.Name == lib.Name {
				r.order[i] = lib
				break
			}
		}
	}
	r.libByName[lib.Name] = lib
}

// Library looks a library up by name.
func (r *DesignRoot) Library(name symbols.Symbol) (*Library, bool) {
	lib, ok := r.libByName[name]
	return lib, ok
}

// Libraries returns every library in insertion order.
func (r *DesignRoot) Libraries() []*Library {
	return r.order
}
