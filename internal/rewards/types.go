// Package rewards defines the collectible souvenirs and snacks, how the
// next one is picked, and the award log.
package rewards

import (
	"time"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
)

// Kind distinguishes the two collections.
type Kind string

const (
	Souvenir Kind = "souvenir"
	Snack    Kind = "snack"
)

// AllKinds returns the kinds in display order.
func AllKinds() []Kind {
	return []Kind{Souvenir, Snack}
}

// DisplayName returns the collection label.
func (k Kind) DisplayName(lang locale.Language) string {
	switch k {
	case Souvenir:
		return locale.Text{Ja: "おみやげ", En: "Souvenirs"}.In(lang)
	case Snack:
		return locale.Text{Ja: "おやつ", En: "Snacks"}.In(lang)
	default:
		return string(k)
	}
}

// Icon returns the display icon for the collection.
func (k Kind) Icon() string {
	switch k {
	case Souvenir:
		return "🎁"
	case Snack:
		return "🍪"
	default:
		return "✦"
	}
}

// Item is a collectible. Its ID is its emoji, which is what the progress
// record stores.
type Item struct {
	ID   string
	Name locale.Text
}

// Award records one granted item.
type Award struct {
	Kind      Kind
	Item      Item
	Category  category.ID // empty for snacks granted outside a category
	SessionID string
	Reason    string
	AwardedAt time.Time
}
