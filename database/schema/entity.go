package schema

import "strings"

// Tag is a bitset of attribute annotations.
type Tag uint8

const (
	Guarded Tag = 1 << iota
	Fillable
	Updateable
	Searchable
)

// Has reports whether every bit of flag is set.
func (t Tag) Has(flag Tag) bool {
	return flag != 0 && t&flag == flag
}

// String lists the set flags, e.g. "fillable|searchable".
func (t Tag) String() string {
	var parts []string
	for _, f := range []struct {
		tag  Tag
		name string
	}{
		{Guarded, "guarded"},
		{Fillable, "fillable"},
		{Updateable, "updateable"},
		{Searchable, "searchable"},
	} {
		if t.Has(f.tag) {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

const (
	// PathSeparator joins relation names and the target field in a path.
	PathSeparator = ":"
	// Wildcard marks an attribute key that expands a related entity's
	// searchable fields, as in "OtherItem:*".
	Wildcard = PathSeparator + "*"
)

// Attributes maps attribute names, or wildcard relation markers, to tags.
type Attributes map[string]Tag

// IsWildcard reports whether key is a wildcard relation marker.
func IsWildcard(key string) bool {
	return strings.HasSuffix(key, Wildcard)
}

// WildcardType returns the related type named by a wildcard marker.
func WildcardType(key string) string {
	return strings.TrimSuffix(key, Wildcard)
}

// Qualify joins path segments with PathSeparator.
func Qualify(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// RelationKind describes how a related entity is joined.
type RelationKind string

const (
	HasOne     RelationKind = "has_one"
	HasMany    RelationKind = "has_many"
	BelongsTo  RelationKind = "belongs_to"
	ManyToMany RelationKind = "many_to_many"
)

// Relation describes one related entity.
//
// For HasOne and HasMany, ForeignKey is the column on the related table that
// references LocalKey on the owner. For BelongsTo, ForeignKey is the column on
// the owner that references OwnerKey on the related table. ManyToMany joins
// through JoinTable: JoinForeignKey references the owner's LocalKey and
// JoinReferenceKey references the related OwnerKey. Empty keys default to "id".
type Relation struct {
	Name             string
	Type             string
	Kind             RelationKind
	ForeignKey       string
	LocalKey         string
	OwnerKey         string
	JoinTable        string
	JoinForeignKey   string
	JoinReferenceKey string
}

// Local returns LocalKey or "id".
func (r Relation) Local() string {
	if r.LocalKey == "" {
		return "id"
	}
	return r.LocalKey
}

// Owner returns OwnerKey or "id".
func (r Relation) Owner() string {
	if r.OwnerKey == "" {
		return "id"
	}
	return r.OwnerKey
}

// Entity is the static descriptor of a persisted type.
type Entity interface {
	// EntityName is the name other entities use in wildcard markers and
	// relation types.
	EntityName() string
	TableName() string
	Attributes() Attributes
	Relations() []Relation
}

// LookupRelation finds a relation of e by relation name, then by related
// type name.
func LookupRelation(e Entity, name string) (Relation, bool) {
	rels := e.Relations()
	for _, r := range rels {
		if r.Name == name {
			return r, true
		}
	}
	for _, r := range rels {
		if r.Type == name {
			return r, true
		}
	}
	return Relation{}, false
}

// FieldMetadata holds the ordered, deduplicated field sets of an entity.
type FieldMetadata struct {
	Fillable   []string `json:"fillable"`
	Updateable []string `json:"updateable"`
	Searchable []string `json:"searchable"`
}

// Clone returns a deep copy.
func (m *FieldMetadata) Clone() *FieldMetadata {
	return &FieldMetadata{
		Fillable:   append([]string(nil), m.Fillable...),
		Updateable: append([]string(nil), m.Updateable...),
		Searchable: append([]string(nil), m.Searchable...),
	}
}

// Direct returns the searchable entries that are not relation-qualified.
func (m *FieldMetadata) Direct() []string {
	var out []string
	for _, f := range m.Searchable {
		if !strings.Contains(f, PathSeparator) {
			out = append(out, f)
		}
	}
	return out
}
