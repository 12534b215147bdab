package dto

type Error struct {
	Error string `json:"error"`
}
