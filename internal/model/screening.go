package model

// Screening is a scheduled showing of a movie in a numbered room at a
// specific date and time. Capacity is fixed at creation; SeatsRemaining
// is the live counter of unbooked seats and is only ever mutated by the
// conditional UPDATE statements in the screening repository.
//
// ShowDate and ShowTime are stored as MySQL DATE and TIME columns and
// carried here as strings in "2006-01-02" and "15:04:05" form (UTC).
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being shown.
//  ShowDate       – calendar date of the screening.
//  ShowTime       – start time of the screening.
//  RoomNumber     – room the screening takes place in.
//  Capacity       – total seats, fixed at creation.
//  SeatsRemaining – unbooked seats; always in [0, Capacity].
//  PriceCents     – ticket price in cents.
type Screening struct {
	ID             uint64 // screenings.id
	MovieID        uint64 // screenings.movie_id
	ShowDate       string // screenings.show_date
	ShowTime       string // screenings.show_time
	RoomNumber     int    // screenings.room_number
	Capacity       int    // screenings.capacity
	SeatsRemaining int    // screenings.seats_remaining
	PriceCents     uint32 // screenings.price_cents
}

// ScreeningSummary is a screening joined with its movie title for
// display in listings. It mirrors the row shape produced by the
// List and ListAvailable queries.
type ScreeningSummary struct {
	ID             uint64 // screenings.id
	MovieTitle     string // movies.title
	ShowDate       string // screenings.show_date
	ShowTime       string // screenings.show_time
	RoomNumber     int    // screenings.room_number
	SeatsRemaining int    // screenings.seats_remaining
	PriceCents     uint32 // screenings.price_cents
}
