package books

// Pointer fields distinguish "absent" from zero values; Update treats absent
// fields as "leave unchanged".

type createReq struct {
	Title           string `json:"title"`
	PublicationYear *int   `json:"publication_year"`
	Author          *int64 `json:"author"`
}

type updateReq struct {
	ID              *int64  `json:"id"`
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year"`
	Author          *int64  `json:"author"`
}

type deleteReq struct {
	ID *int64 `json:"id"`
}
