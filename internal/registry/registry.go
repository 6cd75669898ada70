// Package registry holds the document type registry: the schema each
// supported document type expects and the emission calculator that applies
// to it. Specs are registered once at startup; resolution is read-heavy and
// safe for concurrent use. Hot-reload is allowed but atomic, so readers
// never observe a half-updated spec.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// Registry maps document type ids to their specs and compiled field schemas.
type Registry struct {
	specs map[model.DocumentType]*compiledSpec
	mu    sync.RWMutex
}

type compiledSpec struct {
	schema *jsonschema.Schema
	spec   model.DocumentTypeSpec
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		specs: make(map[model.DocumentType]*compiledSpec),
	}
}

// NewWithBuiltins creates a registry pre-populated with the built-in
// document type specs.
func NewWithBuiltins() (*Registry, error) {
	r := New()
	for _, spec := range BuiltinSpecs() {
		if err := r.Register(spec); err != nil {
			return nil, fmt.Errorf("failed to register builtin spec %q: %w", spec.TypeID, err)
		}
	}
	return r, nil
}

// Register adds a document type spec. It fails if the type id is already
// registered or the field schema cannot be compiled.
func (r *Registry) Register(spec model.DocumentTypeSpec) error {
	if spec.TypeID == "" || spec.TypeID == model.TypeUnknown {
		return fmt.Errorf("%w: %q is not a registrable type id", common.ErrInvalidConfig, spec.TypeID)
	}
	if spec.CalculatorID == "" {
		return fmt.Errorf("%w: spec %q has no calculator id", common.ErrInvalidConfig, spec.TypeID)
	}

	schema, err := compileFieldSchema(spec)
	if err != nil {
		return fmt.Errorf("failed to compile field schema for %q: %w", spec.TypeID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.TypeID]; exists {
		return fmt.Errorf("%w: %s", common.ErrDuplicateType, spec.TypeID)
	}

	r.specs[spec.TypeID] = &compiledSpec{
		spec:   spec,
		schema: schema,
	}
	return nil
}

// Replace atomically swaps a registered spec for a new revision. Unlike
// Register it does not fail on an existing type id; readers see either the
// old spec or the new one, never a mix.
func (r *Registry) Replace(spec model.DocumentTypeSpec) error {
	schema, err := compileFieldSchema(spec)
	if err != nil {
		return fmt.Errorf("failed to compile field schema for %q: %w", spec.TypeID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.TypeID] = &compiledSpec{
		spec:   spec,
		schema: schema,
	}
	return nil
}

// Resolve returns the spec for a document type.
func (r *Registry) Resolve(typeID model.DocumentType) (model.DocumentTypeSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cs, ok := r.specs[typeID]
	if !ok {
		return model.DocumentTypeSpec{}, fmt.Errorf("%w: %s", common.ErrUnknownType, typeID)
	}
	return cs.spec, nil
}

// Schema returns the compiled JSON schema for a document type's fields.
func (r *Registry) Schema(typeID model.DocumentType) (*jsonschema.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cs, ok := r.specs[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownType, typeID)
	}
	return cs.schema, nil
}

// Types returns all registered type ids in sorted order.
func (r *Registry) Types() []model.DocumentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]model.DocumentType, 0, len(r.specs))
	for t := range r.specs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
