package theme

// Host is the slice of the content store the theme reads while rendering.
// Lookups that find nothing return a nil item and a nil error.
type Host interface {
	// ItemByID returns any item by id.
	ItemByID(id int64) (*Item, error)
	// Adjacent returns the published item of the same type dated immediately
	// before (previous) or after the given one. With sameTerm set, candidates
	// must share at least one category with it.
	Adjacent(item Item, previous, sameTerm bool) (*Item, error)
	// Attachments returns the image attachments of parentID ordered by menu
	// order, then id.
	Attachments(parentID int64) ([]Item, error)
}

// Actor is the user performing an admin action.
type Actor interface {
	Can(capability string, item Item) bool
}

// MetaWriter persists one custom field. It must be a single upsert.
type MetaWriter interface {
	UpdateMeta(itemID int64, key, value string) error
}
