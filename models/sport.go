package models

// Sport mirrors the sport ENUM in the database.
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportSoccer     Sport = "soccer"
)

func (s Sport) Valid() bool {
	return s == SportBasketball || s == SportSoccer
}
