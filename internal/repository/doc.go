// Package repository define las interfaces de capacidad del dominio de
// cuentas. Las implementaciones concretas viven en subpaquetes (pg) y
// se registran en el Manifest de internal/registry; el binding
// capacidad -> implementación se valida al arranque.
//
// Cada instancia de repositorio vive dentro de UN unit-of-work
// (registry.Scope) y se descarta con él.
package repository
