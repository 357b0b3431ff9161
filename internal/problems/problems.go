// Package problems builds themed multiplication word problems. Output depends
// only on the operands and theme, so results can be cached and golden-tested.
package problems

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vytor/factflash/internal/models"
)

// MaxLength is the maximum problem length in characters.
const MaxLength = 160

const (
	ThemeAnimals = "animals"
	ThemeSpace   = "space"
	ThemePirates = "pirates"
	ThemeSports  = "sports"
)

var themes = []string{ThemeAnimals, ThemeSpace, ThemePirates, ThemeSports}

var names = []string{
	"Ava", "Leo", "Mia", "Noah", "Zoe", "Kai", "Ivy", "Omar", "Lena", "Sam", "Priya", "Theo",
}

var objects = map[string][]string{
	ThemeAnimals: {"puppies", "kittens", "ducklings", "bunnies", "penguins", "frogs"},
	ThemeSpace:   {"rockets", "planets", "moon rocks", "stars", "satellites", "comets"},
	ThemePirates: {"gold coins", "treasure maps", "parrots", "cannonballs", "jewels", "flags"},
	ThemeSports:  {"soccer balls", "medals", "trophies", "jerseys", "tennis balls", "whistles"},
}

// Verbs: %[1]s name, %[2]d groups (a), %[3]d per group (b), %[4]s object.
var templates = map[string][4]string{
	ThemeAnimals: {
		"%[1]s visits %[2]d barns at the farm. Each barn has %[3]d %[4]s. How many %[4]s does %[1]s see?",
		"At the zoo, %[1]s counts %[2]d pens with %[3]d %[4]s in each pen. How many %[4]s are there?",
		"%[1]s has %[2]d baskets, and each basket holds %[3]d sleepy %[4]s. How many %[4]s in all?",
		"There are %[2]d ponds. %[1]s spots %[3]d %[4]s at every pond. How many %[4]s altogether?",
	},
	ThemeSpace: {
		"Captain %[1]s flies past %[2]d galaxies and finds %[3]d %[4]s in each one. How many %[4]s?",
		"%[1]s's space station has %[2]d docks. Each dock holds %[3]d %[4]s. How many %[4]s in total?",
		"On %[2]d missions, %[1]s collects %[3]d %[4]s per mission. How many %[4]s did %[1]s collect?",
		"%[1]s draws %[2]d star maps with %[3]d %[4]s on each map. How many %[4]s are drawn?",
	},
	ThemePirates: {
		"Pirate %[1]s opens %[2]d chests. Each chest has %[3]d %[4]s. How many %[4]s are there?",
		"%[1]s sails to %[2]d islands and buries %[3]d %[4]s on each. How many %[4]s are buried?",
		"The ship has %[2]d decks, and %[1]s hides %[3]d %[4]s on every deck. How many %[4]s in all?",
		"%[1]s's crew has %[2]d sailors. Each sailor carries %[3]d %[4]s. How many %[4]s altogether?",
	},
	ThemeSports: {
		"Coach %[1]s has %[2]d teams. Each team needs %[3]d %[4]s. How many %[4]s does the coach need?",
		"%[1]s fills %[2]d bags with %[3]d %[4]s in each bag. How many %[4]s are packed?",
		"At %[2]d games this season, %[1]s wins %[3]d %[4]s per game. How many %[4]s in total?",
		"The gym has %[2]d shelves. %[1]s puts %[3]d %[4]s on each shelf. How many %[4]s are there?",
	},
}

// StableHash is a 32-bit FNV-1a style hash over the characters of s.
func StableHash(s string) uint32 {
	h := uint32(2166136261)
	for _, r := range s {
		h ^= uint32(r)
		h *= 16777619
	}
	return h
}

// Generate returns a themed problem for a × b. Themes match case-insensitively
// and ignore surrounding space; an empty or unknown theme is replaced by one
// picked from the hash.
func Generate(a, b int, theme string) models.WordProblem {
	t := strings.ToLower(strings.TrimSpace(theme))
	h := StableHash(strconv.Itoa(a) + ":" + strconv.Itoa(b) + ":" + t)

	if _, ok := templates[t]; !ok {
		t = themes[h%uint32(len(themes))]
	}

	name := names[(h>>3)%uint32(len(names))]
	objs := objects[t]
	object := objs[(h>>7)%uint32(len(objs))]
	tmpl := templates[t][(h>>11)%4]

	return models.WordProblem{
		Problem:  truncate(fmt.Sprintf(tmpl, name, a, b, object), MaxLength),
		Operands: [2]int{a, b},
		Op:       models.OpMultiply,
		Theme:    t,
	}
}

// Themes returns the supported theme names.
func Themes() []string {
	out := make([]string, len(themes))
	copy(out, themes)
	return out
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
