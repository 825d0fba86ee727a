package models

type Category struct {
	ID   int    `db:"id"`
	Name string `db:"nombre"`
}

type Brand struct {
	ID   int    `db:"id"`
	Name string `db:"nombre"`
}
