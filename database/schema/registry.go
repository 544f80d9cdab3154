package schema

import (
	"reflect"
	"sync"

	"github.com/kbukum/toolbox/errors"
	"github.com/kbukum/toolbox/util"
)

// Registry maps entity names to Go types so related entities named in
// wildcard markers and relations can be instantiated.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry creates a registry holding the given entities.
func NewRegistry(entities ...Entity) *Registry {
	r := &Registry{types: make(map[string]reflect.Type)}
	r.Register(entities...)
	return r
}

// Register stores each entity's dynamic type under its EntityName.
func (r *Registry) Register(entities ...Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entities {
		if e == nil {
			continue
		}
		r.types[e.EntityName()] = reflect.TypeOf(e)
	}
}

// RegisterType stores t under name. Interface types and non-entity types are
// accepted; Instantiate reports them as uninstantiable.
func (r *Registry) RegisterType(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = t
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.SortedKeys(r.types)
}

// Instantiate returns a zero-valued entity of the type registered under name.
func (r *Registry) Instantiate(name string) (Entity, error) {
	t, ok := r.Lookup(name)
	if !ok || t == nil {
		return nil, errors.UnknownRelatedType(name).WithDetail("registered", r.Names())
	}

	switch t.Kind() {
	case reflect.Interface:
		return nil, errors.UninstantiableRelatedType(name)
	case reflect.Pointer:
		if e, ok := reflect.New(t.Elem()).Interface().(Entity); ok {
			return e, nil
		}
	default:
		v := reflect.New(t)
		if e, ok := v.Interface().(Entity); ok {
			return e, nil
		}
		if e, ok := v.Elem().Interface().(Entity); ok {
			return e, nil
		}
	}
	return nil, errors.UninstantiableRelatedType(name)
}

// Related resolves the relation called name on e and instantiates its type.
// An unknown relation is an input error naming it.
func (r *Registry) Related(e Entity, name string) (Entity, Relation, error) {
	rel, ok := LookupRelation(e, name)
	if !ok {
		return nil, Relation{}, errors.InvalidInput(name,
			"unknown relation "+name+" on "+e.EntityName())
	}
	related, err := r.Instantiate(rel.Type)
	if err != nil {
		return nil, Relation{}, err
	}
	return related, rel, nil
}
