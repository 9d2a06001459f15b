// Package category defines the six fixed quiz categories.
package category

import (
	"strings"

	"github.com/wheninja/wheninja/internal/locale"
)

// ID identifies one of the fixed categories.
type ID string

const (
	Transport     ID = "transport"
	Stay          ID = "stay"
	Food          ID = "food"
	Communication ID = "communication"
	Home          ID = "home"
	Temple        ID = "temple"
)

// Count is the number of fixed categories.
const Count = 6

// Info describes a category for display.
type Info struct {
	ID     ID
	Icon   string
	Name   locale.Text
	NameEn string // canonical English name used by the dataset
}

var categories = []Info{
	{ID: Transport, Icon: "🚃", Name: locale.Text{Ja: "交通・公共空間", En: "Transport & Public Spaces"}},
	{ID: Stay, Icon: "🏨", Name: locale.Text{Ja: "宿泊", En: "Stay & Accommodation"}},
	{ID: Food, Icon: "🍜", Name: locale.Text{Ja: "食事", En: "Food & Dining"}},
	{ID: Communication, Icon: "💬", Name: locale.Text{Ja: "コミュニケーション", En: "Communication"}},
	{ID: Home, Icon: "🏠", Name: locale.Text{Ja: "日常・生活", En: "Home & Daily Life"}},
	{ID: Temple, Icon: "🙏", Name: locale.Text{Ja: "神社・温泉", En: "Temple Shrine & Onsen"}},
}

func init() {
	for i := range categories {
		categories[i].NameEn = categories[i].Name.En
	}
}

// All returns the categories in their fixed display order.
func All() []Info {
	out := make([]Info, len(categories))
	copy(out, categories)
	return out
}

// IDs returns the category ids in display order.
func IDs() []ID {
	ids := make([]ID, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// Lookup returns the Info for id.
func Lookup(id ID) (Info, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Info{}, false
}

// Valid reports whether id is one of the fixed categories.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}

// ForName maps a dataset category name (English) to its id. Unknown names
// map to their lower-cased form, which matches no fixed category.
func ForName(nameEn string) ID {
	for _, c := range categories {
		if c.NameEn == nameEn {
			return c.ID
		}
	}
	return ID(strings.ToLower(nameEn))
}
