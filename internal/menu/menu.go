// Package menu defines the cafeteria menu records produced by the extraction
// pipeline and the reserved sentinel dish names that stand in for missing data.
//
// # Sentinels
//
// A day with no recognizable dishes is never represented by an empty item
// list. Instead one of the sentinel strings below is used as the only item,
// so every consumer can render a Menu without branching on emptiness. Use
// IsSentinel to tell a sentinel apart from real dish data.
package menu

import (
	"fmt"
	"time"
)

// Restaurant identifies one cafeteria. Values match the labels used by the
// campus bulletin boards.
type Restaurant string

const (
	SeoulStudent   Restaurant = "서울_학생식당"
	SeoulFaculty   Restaurant = "서울_교직원식당"
	SeoulFoodcourt Restaurant = "서울_푸드코트"
	CheonanStudent Restaurant = "천안_학생식당"
	CheonanFaculty Restaurant = "천안_교직원식당"
)

// Restaurants lists every known restaurant in display order.
var Restaurants = []Restaurant{SeoulStudent, SeoulFaculty, SeoulFoodcourt, CheonanStudent, CheonanFaculty}

// ParseRestaurant accepts either the Korean label or the enum-style name
// (e.g. "CHEONAN_FACULTY").
func ParseRestaurant(s string) (Restaurant, error) {
	switch s {
	case string(SeoulStudent), "SEOUL_STUDENT":
		return SeoulStudent, nil
	case string(SeoulFaculty), "SEOUL_FACULTY":
		return SeoulFaculty, nil
	case string(SeoulFoodcourt), "SEOUL_FOODCOURT":
		return SeoulFoodcourt, nil
	case string(CheonanStudent), "CHEONAN_STUDENT":
		return CheonanStudent, nil
	case string(CheonanFaculty), "CHEONAN_FACULTY":
		return CheonanFaculty, nil
	}
	return "", fmt.Errorf("unknown restaurant: %q", s)
}

// ServesBreakfast reports whether the restaurant's weekly announcement mixes
// breakfast and lunch items in one column.
func (r Restaurant) ServesBreakfast() bool {
	return r == CheonanStudent
}

// MealType is the meal a Menu belongs to.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MenuItem is a single dish. Price is never populated for OCR-derived items.
type MenuItem struct {
	Name  string `json:"name" yaml:"name"`
	Price *int   `json:"price,omitempty" yaml:"price,omitempty"`
}

// Menu is the item list for one (date, restaurant, meal) key.
type Menu struct {
	Date       time.Time  `json:"date" yaml:"date"`
	Restaurant Restaurant `json:"restaurant" yaml:"restaurant"`
	MealType   MealType   `json:"meal_type" yaml:"meal_type"`
	Items      []MenuItem `json:"items" yaml:"items"`
}

// Key is the identity of a Menu in storage. At most one Menu exists per Key.
type Key struct {
	Date       string
	Restaurant Restaurant
	MealType   MealType
}

// DateLayout is the calendar-date format used for keys and storage.
const DateLayout = "2006-01-02"

// Key returns the identity key of m.
func (m Menu) Key() Key {
	return Key{Date: m.Date.Format(DateLayout), Restaurant: m.Restaurant, MealType: m.MealType}
}

// ItemNames returns the dish names of m in order.
func (m Menu) ItemNames() []string {
	names := make([]string, len(m.Items))
	for i, it := range m.Items {
		names[i] = it.Name
	}
	return names
}

// New builds a Menu from plain dish names.
func New(date time.Time, r Restaurant, meal MealType, names []string) Menu {
	items := make([]MenuItem, len(names))
	for i, n := range names {
		items[i] = MenuItem{Name: n}
	}
	return Menu{Date: Day(date), Restaurant: r, MealType: meal, Items: items}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Dedupe keeps the last Menu for each Key, preserving the order in which
// keys were first seen.
func Dedupe(menus []Menu) []Menu {
	index := make(map[Key]int, len(menus))
	out := make([]Menu, 0, len(menus))
	for _, m := range menus {
		k := m.Key()
		if i, ok := index[k]; ok {
			out[i] = m
			continue
		}
		index[k] = len(out)
		out = append(out, m)
	}
	return out
}
