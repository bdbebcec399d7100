package booksrepo

// Book is the wire rendering of a catalog record: the author field carries the
// author's identifier.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        int64  `json:"author"`
}

type CreateBookDTO struct {
	Title           string
	PublicationYear int
	AuthorID        int64
}

// UpdateBookDTO carries partial-update fields; nil means "leave unchanged".
type UpdateBookDTO struct {
	Title           *string
	PublicationYear *int
	AuthorID        *int64
}

// ListQuery describes the filters the endpoint builds from request parameters
// and the repo translates into SQL.
type ListQuery struct {
	Title  string // exact match on title
	Author string // exact match on author name
	Year   *int   // exact match on publication year
	Search string // case-insensitive substring over title OR author name
	Sort   string // "title" or "publication_year"; empty means insertion order
	Desc   bool
}
