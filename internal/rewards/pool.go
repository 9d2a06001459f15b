package rewards

import (
	"slices"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/random"
)

func item(id, ja, en string) Item {
	return Item{ID: id, Name: locale.Text{Ja: ja, En: en}}
}

var souvenirPools = map[category.ID][]Item{
	category.Transport: {
		item("🎫", "電車の切符", "Train Ticket"),
		item("🚇", "地下鉄", "Subway"),
		item("🚄", "新幹線", "Shinkansen"),
		item("🗺️", "日本地図", "Japan Map"),
		item("🎟️", "IC乗車券", "IC Card"),
	},
	category.Stay: {
		item("👘", "浴衣", "Yukata"),
		item("🛏️", "布団", "Futon"),
		item("🥢", "お箸", "Chopsticks"),
		item("🎐", "風鈴", "Wind Chime"),
		item("🍵", "お茶", "Tea"),
	},
	category.Food: {
		item("🍣", "寿司", "Sushi"),
		item("🍤", "てんぷら", "Tempura"),
		item("🍜", "ラーメン", "Ramen"),
		item("🍢", "おでん", "Oden"),
		item("🍛", "カレーライス", "Curry Rice"),
	},
	category.Communication: {
		item("📱", "スマホ", "Smartphone"),
		item("🎮", "ゲーム", "Game"),
		item("📚", "漫画", "Comics"),
		item("🎤", "カラオケ", "Karaoke"),
		item("🎧", "音楽", "Music"),
	},
	category.Home: {
		item("🌸", "桜", "Cherry Blossom"),
		item("🍂", "紅葉", "Autumn Leaves"),
		item("🍊", "みかん", "Mandarin Orange"),
		item("🎆", "花火", "Fireworks"),
		item("🍙", "おにぎり", "Onigiri"),
	},
	category.Temple: {
		item("⛩️", "鳥居", "Torii Gate"),
		item("♨", "温泉", "Onsen"),
		item("🗻", "富士山", "Mt. Fuji"),
		item("🔔", "寺の鐘", "Temple Bell"),
		item("👕", "記念Tシャツ", "Memorial T-shirt"),
	},
}

var snackPool = []Item{
	item("🍘", "せんべい", "Rice Cracker"),
	item("🍡", "だんご", "Dango"),
	item("🍬", "キャンディ", "Candy"),
	item("🍩", "ドーナツ", "Donut"),
	item("🍫", "チョコレート", "Chocolate"),
	item("🍠", "やきいも", "Sweet Potato"),
	item("🍦", "ソフトクリーム", "Soft Cream"),
	item("🎂", "ケーキ", "Cake"),
}

// SouvenirPool returns the category's souvenirs in unlock order.
func SouvenirPool(id category.ID) []Item {
	return slices.Clone(souvenirPools[id])
}

// SnackPool returns every snack.
func SnackPool() []Item {
	return slices.Clone(snackPool)
}

// Lookup finds an item of the given kind by id.
func Lookup(kind Kind, id string) (Item, bool) {
	var pool []Item
	switch kind {
	case Souvenir:
		for _, cat := range category.IDs() {
			pool = append(pool, souvenirPools[cat]...)
		}
	case Snack:
		pool = snackPool
	}
	for _, it := range pool {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// NextSouvenir returns the first souvenir of the category pool that is not
// owned. ok is false once the pool is exhausted.
func NextSouvenir(id category.ID, owned []string) (Item, bool) {
	for _, it := range souvenirPools[id] {
		if !slices.Contains(owned, it.ID) {
			return it, true
		}
	}
	return Item{}, false
}

// PickSnack picks uniformly among unowned snacks, or among all snacks when
// every one is owned.
func PickSnack(src random.Source, owned []string) Item {
	var candidates []Item
	for _, it := range snackPool {
		if !slices.Contains(owned, it.ID) {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		candidates = snackPool
	}
	return candidates[src.IntN(len(candidates))]
}
