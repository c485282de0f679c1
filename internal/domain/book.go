package domain

// Book represents a catalog entry. Title is the natural key (unique, minimum
// length 5). AuthorID is an owning reference to an Author record; the author
// is auto-created when a book names one that does not exist yet. Books are
// immutable after creation.
type Book struct {
	Record
	Title     string   `json:"title"`
	Published int      `json:"published"`
	AuthorID  string   `json:"author_id"`
	Genres    []string `json:"genres"`
}

// HasGenre reports whether the book's genre set contains g.
func (b *Book) HasGenre(g string) bool {
	for _, genre := range b.Genres {
		if genre == g {
			return true
		}
	}
	return false
}
