package models

// User is an account that can sign in to the admin area.
type User struct {
	ID           int    `db:"id"`
	Username     string `db:"usuario"`
	PasswordHash string `db:"password"`
}
