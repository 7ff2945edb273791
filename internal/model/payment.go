package model

// Payment records the charge taken for a reservation. The amount is
// ticket price times ticket count, in cents. CardNumber is a 5-digit
// placeholder token validated by format only; this system performs no
// real payment gateway integration.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation this payment belongs to.
//  AmountCents   – total charged amount in cents.
//  CardNumber    – 5-digit payment token.
type Payment struct {
	ID            uint64 // payments.id
	ReservationID uint64 // payments.reservation_id
	AmountCents   uint32 // payments.amount_cents
	CardNumber    string // payments.card_number
}
