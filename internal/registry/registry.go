// Package registry descubre y valida los bindings de repositorios.
//
// En lugar de escanear tipos por reflection, los paquetes de
// implementación declaran sus providers en un Manifest explícito en
// compile time (cada interfaz de capacidad emparejada con su tipo
// concreto). Discover valida el manifest al arranque: dos tipos
// concretos reclamando la misma capacidad es un error de programación
// y ABORTA el startup — a diferencia de los errores de migración, que
// se absorben.
package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAmbiguousBinding indica dos implementaciones concretas distintas
// para la misma interfaz de capacidad.
var ErrAmbiguousBinding = errors.New("registry: ambiguous binding")

// Provider declara una implementación concreta de una capacidad.
type Provider struct {
	// Capability es el nombre de la interfaz de capacidad
	// (ej: "repository.UserRepository").
	Capability string

	// Impl es el nombre del tipo concreto (ej: "pg.UserRepo").
	// Distingue duplicados reales de re-registros idempotentes.
	Impl string

	// New construye una instancia scoped al unit-of-work dado.
	New func(*Scope) any
}

// Binding es el resultado validado: capacidad -> constructor scoped.
type Binding struct {
	Capability string
	Impl       string
	New        func(*Scope) any
}

// Manifest es la lista de providers de un módulo. Reemplaza al "módulo
// escaneable": cada paquete de repositorios agrega sus providers acá.
type Manifest struct {
	providers []Provider
}

// Add agrega un provider al manifest.
func (m *Manifest) Add(p Provider) {
	m.providers = append(m.providers, p)
}

// Providers retorna una copia de los providers declarados.
func (m *Manifest) Providers() []Provider {
	out := make([]Provider, len(m.providers))
	copy(out, m.providers)
	return out
}

// Discover valida el manifest y produce el set de bindings.
//
// Garantías:
//   - a lo sumo UNA implementación por capacidad; dos tipos concretos
//     distintos para la misma capacidad retornan ErrAmbiguousBinding
//   - determinístico: salida ordenada por capacidad
//   - idempotente: mismo manifest => mismo set (re-registrar el mismo
//     Impl para la misma capacidad no es ambigüedad)
func Discover(m *Manifest) ([]Binding, error) {
	byCap := make(map[string]Provider)
	for _, p := range m.providers {
		if p.Capability == "" || p.New == nil {
			return nil, fmt.Errorf("registry: provider inválido (capability=%q, impl=%q)", p.Capability, p.Impl)
		}
		prev, ok := byCap[p.Capability]
		if ok && prev.Impl != p.Impl {
			return nil, fmt.Errorf("%w: %s reclamada por %s y %s",
				ErrAmbiguousBinding, p.Capability, prev.Impl, p.Impl)
		}
		byCap[p.Capability] = p
	}

	caps := make([]string, 0, len(byCap))
	for c := range byCap {
		caps = append(caps, c)
	}
	sort.Strings(caps)

	out := make([]Binding, 0, len(caps))
	for _, c := range caps {
		p := byCap[c]
		out = append(out, Binding{Capability: c, Impl: p.Impl, New: p.New})
	}
	return out, nil
}

// Registry es el consumidor mínimo de bindings: lookup por capacidad y
// construcción per-scope.
type Registry struct {
	bindings map[string]Binding
}

// NewRegistry indexa bindings ya validados por Discover.
func NewRegistry(bindings []Binding) *Registry {
	idx := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		idx[b.Capability] = b
	}
	return &Registry{bindings: idx}
}

// Build construye la implementación de una capacidad, viva solo dentro
// del scope dado.
func (r *Registry) Build(scope *Scope, capability string) (any, error) {
	b, ok := r.bindings[capability]
	if !ok {
		return nil, fmt.Errorf("registry: capability %q sin binding", capability)
	}
	return b.New(scope), nil
}

// Capabilities retorna las capacidades registradas, ordenadas.
func (r *Registry) Capabilities() []string {
	out := make([]string, 0, len(r.bindings))
	for c := range r.bindings {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
