package schema

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/toolbox/errors"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/util"
)

// Resolver computes field metadata for entities and memoises the results.
// Results are keyed by entity name, so two types sharing a name share an
// entry. Errors are never cached.
type Resolver struct {
	registry *Registry
	maxDepth int
	log      *logger.Logger

	cache sync.Map // cacheKey -> *FieldMetadata
	group singleflight.Group
}

type cacheKey struct {
	entity  string
	related bool
	depth   int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%t|%d", k.entity, k.related, k.depth)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxDepth sets the depth used when Resolve is called with a negative depth.
func WithMaxDepth(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a resolver bound to reg.
func NewResolver(reg *Registry, opts ...ResolverOption) *Resolver {
	if reg == nil {
		reg = NewRegistry()
	}
	r := &Resolver{
		registry: reg,
		maxDepth: DefaultMaxDepth,
		log:      logger.Get("schema"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the resolver instantiates related types from.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// MaxDepth returns the configured default depth.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// Resolve returns the fillable, updateable and searchable fields of e.
//
// With includeRelated, each searchable wildcard "Type:*" is replaced by the
// searchable fields of Type, qualified as "Type:field", recursing up to
// maxDepth hops. A wildcard naming a type already on the current expansion
// path is skipped. A negative maxDepth selects the configured default.
func (r *Resolver) Resolve(e Entity, includeRelated bool, maxDepth int) (*FieldMetadata, error) {
	if e == nil {
		return nil, errors.InvalidInput("entity", "entity must not be nil")
	}
	if maxDepth < 0 {
		maxDepth = r.maxDepth
	}
	if !includeRelated {
		maxDepth = 0
	}

	key := cacheKey{entity: e.EntityName(), related: includeRelated, depth: maxDepth}
	if v, ok := r.cache.Load(key); ok {
		return v.(*FieldMetadata).Clone(), nil
	}

	v, err, _ := r.group.Do(key.String(), func() (interface{}, error) {
		if v, ok := r.cache.Load(key); ok {
			return v, nil
		}
		md, err := r.compute(e, includeRelated, maxDepth, []string{e.EntityName()})
		if err != nil {
			return nil, err
		}
		actual, _ := r.cache.LoadOrStore(key, md)
		return actual, nil
	})
	if err != nil {
		r.log.WithError(err).Warn("field metadata resolution failed",
			logger.Fields(logger.FieldEntity, e.EntityName()))
		return nil, err
	}
	return v.(*FieldMetadata).Clone(), nil
}

// DirectSearchable returns the searchable fields of e without related entries.
func (r *Resolver) DirectSearchable(e Entity) ([]string, error) {
	md, err := r.Resolve(e, false, 0)
	if err != nil {
		return nil, err
	}
	return md.Searchable, nil
}

// Relation finds a relation of e by relation name, then by related type name.
func (r *Resolver) Relation(e Entity, name string) (Relation, bool) {
	return LookupRelation(e, name)
}

func (r *Resolver) compute(e Entity, includeRelated bool, depth int, path []string) (*FieldMetadata, error) {
	attrs := e.Attributes()
	md := &FieldMetadata{}
	var wildcards []string

	for _, name := range util.SortedKeys(attrs) {
		tag := attrs[name]
		if IsWildcard(name) {
			if tag.Has(Searchable) {
				wildcards = append(wildcards, name)
			}
			continue
		}
		if !tag.Has(Guarded) {
			if tag.Has(Fillable) {
				md.Fillable = append(md.Fillable, name)
			}
			if tag.Has(Updateable) {
				md.Updateable = append(md.Updateable, name)
			}
		}
		if tag.Has(Searchable) {
			if !includeRelated && strings.Contains(name, PathSeparator) {
				continue
			}
			md.Searchable = append(md.Searchable, name)
		}
	}

	if includeRelated && depth > 0 {
		for _, w := range wildcards {
			typ := WildcardType(w)
			if slices.Contains(path, typ) {
				r.log.Debug("skipping cyclic wildcard", logger.Fields(
					logger.FieldEntity, e.EntityName(),
					logger.FieldRelation, typ,
				))
				continue
			}
			related, err := r.registry.Instantiate(typ)
			if err != nil {
				return nil, err
			}
			sub, err := r.compute(related, true, depth-1, append(slices.Clip(path), typ))
			if err != nil {
				return nil, err
			}
			for _, f := range sub.Searchable {
				md.Searchable = append(md.Searchable, Qualify(typ, f))
			}
		}
	}

	md.Fillable = util.Unique(md.Fillable)
	md.Updateable = util.Unique(md.Updateable)
	md.Searchable = util.Unique(md.Searchable)
	return md, nil
}
