package progress

import "github.com/wheninja/wheninja/internal/locale"

// Character is a guide character the player can pick.
type Character struct {
	ID     string
	Icon   string
	Name   locale.Text
	Locked bool
}

var characters = []Character{
	{ID: "fuji-cat", Icon: "🐱", Name: locale.Text{Ja: "ふじねこ", En: "Fuji Cat"}},
	{ID: "mike-cat", Icon: "🐈", Name: locale.Text{Ja: "みけねこ", En: "Mike Cat"}, Locked: true},
	{ID: "kuro-cat", Icon: "🐈‍⬛", Name: locale.Text{Ja: "くろねこ", En: "Kuro Cat"}, Locked: true},
}

// Characters returns the guide characters in display order.
func Characters() []Character {
	return append([]Character(nil), characters...)
}

// LookupCharacter finds a character by id.
func LookupCharacter(id string) (Character, bool) {
	for _, c := range characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}
