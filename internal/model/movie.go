package model

// Movie represents a film that can be scheduled for screenings.
// Titles are unique across the catalog; the rating is a small
// integer score between 1 and 5 inclusive, clamped on write.
//
// Fields:
//  ID     – primary key identifier of the movie.
//  Title  – unique movie title (case-sensitive).
//  Rating – score in [1,5].
//  Info   – free-form descriptive text shown to customers.
type Movie struct {
	ID     uint64 // movies.id
	Title  string // movies.title
	Rating int    // movies.rating
	Info   string // movies.info
}
