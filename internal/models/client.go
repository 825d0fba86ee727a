package models

type Client struct {
	ID    int    `db:"id_usuario"`
	Name  string `db:"nombre"`
	Email string `db:"mail"`
}
