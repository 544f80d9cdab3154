package query_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/toolbox/database/schema"
	dbtest "github.com/kbukum/toolbox/database/testutil"
	"github.com/kbukum/toolbox/testutil"
)

type Item struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
	Views       int
	OwnerID     *uint
}

func (Item) EntityName() string { return "Item" }
func (Item) TableName() string  { return "items" }
func (Item) Attributes() schema.Attributes {
	return schema.Attributes{
		"id":          schema.Guarded,
		"name":        schema.Fillable | schema.Updateable | schema.Searchable,
		"description": schema.Fillable | schema.Updateable | schema.Searchable,
		"views":       schema.Fillable,
		"OtherItem:*": schema.Searchable,
	}
}
func (Item) Relations() []schema.Relation {
	return []schema.Relation{
		{Name: "oitem", Type: "OtherItem", Kind: schema.HasOne, ForeignKey: "item_id"},
		{Name: "owner", Type: "Owner", Kind: schema.BelongsTo, ForeignKey: "owner_id"},
		{Name: "tags", Type: "Tag", Kind: schema.ManyToMany, JoinTable: "item_tags", JoinForeignKey: "item_id", JoinReferenceKey: "tag_id"},
		{Name: "broken", Type: "OtherItem", Kind: schema.HasMany},
	}
}

type OtherItem struct {
	ID     uint `gorm:"primaryKey"`
	ItemID uint
	Title  string
}

func (OtherItem) EntityName() string { return "OtherItem" }
func (OtherItem) TableName() string  { return "oitems" }
func (OtherItem) Attributes() schema.Attributes {
	return schema.Attributes{"title": schema.Fillable | schema.Searchable}
}
func (OtherItem) Relations() []schema.Relation {
	return []schema.Relation{{Name: "titem", Type: "ThirdItem", Kind: schema.HasOne, ForeignKey: "oitem_id"}}
}

type ThirdItem struct {
	ID      uint `gorm:"primaryKey"`
	OItemID uint `gorm:"column:oitem_id"`
	Slug    string
}

func (ThirdItem) EntityName() string            { return "ThirdItem" }
func (ThirdItem) TableName() string             { return "titems" }
func (ThirdItem) Attributes() schema.Attributes { return schema.Attributes{"slug": schema.Searchable} }
func (ThirdItem) Relations() []schema.Relation  { return nil }

type Owner struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func (Owner) EntityName() string            { return "Owner" }
func (Owner) TableName() string             { return "owners" }
func (Owner) Attributes() schema.Attributes { return schema.Attributes{"name": schema.Searchable} }
func (Owner) Relations() []schema.Relation  { return nil }

type Tag struct {
	ID    uint `gorm:"primaryKey"`
	Label string
}

func (Tag) EntityName() string            { return "Tag" }
func (Tag) TableName() string             { return "tags" }
func (Tag) Attributes() schema.Attributes { return schema.Attributes{"label": schema.Searchable} }
func (Tag) Relations() []schema.Relation  { return nil }

type ItemTag struct {
	ItemID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

func (ItemTag) TableName() string { return "item_tags" }

func newRegistry() *schema.Registry {
	return schema.NewRegistry(Item{}, OtherItem{}, ThirdItem{}, Owner{}, Tag{})
}

// seededDB returns an in-memory database holding three items, their related
// rows, two owners and two tags.
func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	c := dbtest.NewComponent().WithModels(&Item{}, &OtherItem{}, &ThirdItem{}, &Owner{}, &Tag{}, &ItemTag{})
	testutil.T(t).Setup(c)

	db := c.DB()
	alice, bob := uint(1), uint(2)
	dbtest.MustCreate(t, db,
		&Owner{ID: 1, Name: "alice"},
		&Owner{ID: 2, Name: "bob"},
		&Item{ID: 1, Name: "Item One", Description: "First Item", Views: 5, OwnerID: &alice},
		&Item{ID: 2, Name: "Item Two", Description: "Second Item", Views: 15, OwnerID: &bob},
		&Item{ID: 3, Name: "Item Three", Description: "Third Item", Views: 25},
		&OtherItem{ID: 1, ItemID: 1, Title: "draft note"},
		&OtherItem{ID: 2, ItemID: 2, Title: "final"},
		&ThirdItem{ID: 1, OItemID: 1, Slug: "alpha"},
		&ThirdItem{ID: 2, OItemID: 2, Slug: "beta"},
		&Tag{ID: 1, Label: "red"},
		&Tag{ID: 2, Label: "blue"},
		&ItemTag{ItemID: 1, TagID: 1},
		&ItemTag{ItemID: 3, TagID: 1},
		&ItemTag{ItemID: 3, TagID: 2},
	)
	return db
}

func itemIDs(t *testing.T, q *gorm.DB) []uint {
	t.Helper()
	var ids []uint
	if err := q.Order("items.id").Pluck("items.id", &ids).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
