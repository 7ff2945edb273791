package model

import "time"

// User represents an application user record as stored in the
// `users` table. Passwords are never stored in the clear; only a
// bcrypt hash is persisted. The role decides which endpoints a
// user may call: admins manage the catalog and schedule, customers
// book and cancel reservations.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – contact email address.
//  Address      – postal address.
//  Phone        – phone number.
//  Role         – "admin" or "customer".
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Email        string    // users.email
	Address      string    // users.address
	Phone        string    // users.phone
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// Profile is the subset of user fields exposed through the profile
// endpoint. The password hash and internal identifiers are omitted.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}
