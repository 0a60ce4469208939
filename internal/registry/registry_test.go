package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fooRepo struct{ n int }
type otherFooRepo struct{ n int }

func manifestWith(providers ...Provider) *Manifest {
	m := &Manifest{}
	for _, p := range providers {
		m.Add(p)
	}
	return m
}

func TestDiscover_BindsEachCapabilityOnce(t *testing.T) {
	m := manifestWith(
		Provider{Capability: "repository.FooRepository", Impl: "pg.FooRepo", New: func(*Scope) any { return &fooRepo{} }},
		Provider{Capability: "repository.BarRepository", Impl: "pg.BarRepo", New: func(*Scope) any { return &fooRepo{} }},
	)

	bindings, err := Discover(m)
	require.NoError(t, err)
	require.Len(t, bindings, 2)

	// Salida determinística: ordenada por capacidad.
	assert.Equal(t, "repository.BarRepository", bindings[0].Capability)
	assert.Equal(t, "repository.FooRepository", bindings[1].Capability)
}

// Dos tipos concretos distintos para la misma capacidad: error de
// configuración que debe cortar el arranque, nunca elegir uno en
// silencio.
func TestDiscover_AmbiguousBindingFails(t *testing.T) {
	m := manifestWith(
		Provider{Capability: "repository.FooRepository", Impl: "pg.FooRepo", New: func(*Scope) any { return &fooRepo{} }},
		Provider{Capability: "repository.FooRepository", Impl: "pg.OtherFooRepo", New: func(*Scope) any { return &otherFooRepo{} }},
	)

	_, err := Discover(m)
	require.ErrorIs(t, err, ErrAmbiguousBinding)
	assert.Contains(t, err.Error(), "pg.FooRepo")
	assert.Contains(t, err.Error(), "pg.OtherFooRepo")
}

// Re-registrar el MISMO tipo para la misma capacidad no es ambigüedad
// (re-ejecución idempotente del registro).
func TestDiscover_SameImplTwiceIsIdempotent(t *testing.T) {
	p := Provider{Capability: "repository.FooRepository", Impl: "pg.FooRepo", New: func(*Scope) any { return &fooRepo{} }}
	m := manifestWith(p, p)

	bindings, err := Discover(m)
	require.NoError(t, err)
	assert.Len(t, bindings, 1)
}

func TestDiscover_TwiceYieldsIdenticalSet(t *testing.T) {
	m := manifestWith(
		Provider{Capability: "repository.FooRepository", Impl: "pg.FooRepo", New: func(*Scope) any { return &fooRepo{} }},
		Provider{Capability: "repository.BarRepository", Impl: "pg.BarRepo", New: func(*Scope) any { return &fooRepo{} }},
	)

	first, err := Discover(m)
	require.NoError(t, err)
	second, err := Discover(m)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Capability, second[i].Capability)
		assert.Equal(t, first[i].Impl, second[i].Impl)
	}
}

func TestDiscover_RejectsInvalidProvider(t *testing.T) {
	_, err := Discover(manifestWith(Provider{Capability: "", Impl: "pg.FooRepo"}))
	require.Error(t, err)

	_, err = Discover(manifestWith(Provider{Capability: "repository.FooRepository", Impl: "pg.FooRepo", New: nil}))
	require.Error(t, err)
}

func TestRegistry_BuildPerScope(t *testing.T) {
	built := 0
	bindings, err := Discover(manifestWith(Provider{
		Capability: "repository.FooRepository",
		Impl:       "pg.FooRepo",
		New: func(*Scope) any {
			built++
			return &fooRepo{n: built}
		},
	}))
	require.NoError(t, err)

	reg := NewRegistry(bindings)

	// Una instancia nueva por unit-of-work, nada compartido.
	a, err := reg.Build(nil, "repository.FooRepository")
	require.NoError(t, err)
	b, err := reg.Build(nil, "repository.FooRepository")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, built)

	_, err = reg.Build(nil, "repository.NopeRepository")
	require.Error(t, err)
}
