// Package schema describes persisted entities and resolves their field
// metadata.
//
// An Entity declares its attributes as a map of names to Tag bitsets and its
// relations as a slice. A searchable attribute key of the form "Type:*"
// expands, on request, to every searchable field of the related Type,
// qualified with the type name:
//
//	func (Item) Attributes() schema.Attributes {
//		return schema.Attributes{
//			"id":          schema.Guarded,
//			"name":        schema.Fillable | schema.Updateable | schema.Searchable,
//			"OtherItem:*": schema.Searchable,
//		}
//	}
//
// Related types are looked up by name in a Registry. A Resolver memoises
// resolved metadata per entity name and is safe for concurrent use.
package schema
