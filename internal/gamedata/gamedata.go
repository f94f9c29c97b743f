// Package gamedata exposes the static item and champion tables bundled with
// the binary. Tables are decoded on first use and read-only afterwards.
package gamedata

import (
	_ "embed"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// ItemRank is the shop tier of an item.
type ItemRank string

const (
	RankBasic       ItemRank = "Basic"
	RankBoots       ItemRank = "Boots"
	RankConsumable  ItemRank = "Consumable"
	RankDistributed ItemRank = "Distributed"
	RankEpic        ItemRank = "Epic"
	RankLegendary   ItemRank = "Legendary"
	RankPotion      ItemRank = "Potion"
	RankStarter     ItemRank = "Starter"
	RankTrinket     ItemRank = "Trinket"
)

//go:embed items.json
var itemsJSON []byte

//go:embed champions.json
var championsJSON []byte

// Champion keys the match API uses that differ from the display name.
var championAliases = map[string]string{
	"monkeyking":   "Wukong",
	"fiddlesticks": "Fiddlesticks",
	"nunu":         "Nunu & Willump",
	"renata":       "Renata Glasc",
}

var (
	loadOnce  sync.Once
	itemRanks map[int]ItemRank
	champions map[string]string // normalized -> display name
)

func load() {
	loadOnce.Do(func() {
		var raw map[string]ItemRank
		if err := json.Unmarshal(itemsJSON, &raw); err != nil {
			panic("gamedata: items.json: " + err.Error())
		}
		itemRanks = make(map[int]ItemRank, len(raw))
		for k, rank := range raw {
			id, err := strconv.Atoi(k)
			if err != nil {
				panic("gamedata: items.json: bad item id " + k)
			}
			itemRanks[id] = rank
		}

		var names []string
		if err := json.Unmarshal(championsJSON, &names); err != nil {
			panic("gamedata: champions.json: " + err.Error())
		}
		champions = make(map[string]string, len(names)+len(championAliases))
		for _, name := range names {
			champions[NormalizeChampionName(name)] = name
		}
		for alias, name := range championAliases {
			champions[alias] = name
		}
	})
}

// Rank returns the shop tier of itemID.
func Rank(itemID int) (ItemRank, bool) {
	load()
	r, ok := itemRanks[itemID]
	return r, ok
}

// IsLegendary reports whether itemID is a completed legendary item.
func IsLegendary(itemID int) bool {
	r, ok := Rank(itemID)
	return ok && r == RankLegendary
}

// NormalizeChampionName keeps ASCII letters only, lowercased: "Kai'Sa" -> "kaisa".
func NormalizeChampionName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// ChampionName resolves any spelling of a champion to its display name.
func ChampionName(name string) (string, bool) {
	load()
	display, ok := champions[NormalizeChampionName(name)]
	return display, ok
}
