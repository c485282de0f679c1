package domain

// Author represents a book author in the catalog.
//
// Name is the natural key: unique, case-sensitive, used for lookups from the
// API. Authors are created explicitly or as a side effect of adding a book
// that references an unknown author name. Never deleted.
type Author struct {
	Record
	Name string `json:"name"`
	Born *int   `json:"born,omitempty"` // Birth year; nil when unknown.
}
