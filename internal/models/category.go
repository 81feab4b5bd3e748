package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a normalized, lower-case transaction category label.
// Build it with NormalizeCategory so that labels differing only in case or spacing
// collapse to the same value.
type Category string

// Categories of the fixed taxonomy.
const (
	CategoryHousehold      Category = "household"
	CategoryTransportation Category = "transportation"
	CategoryFood           Category = "food"
	CategoryApparel        Category = "apparel"
	CategoryHealth         Category = "health"
	CategoryEducation      Category = "education"
	CategoryBeauty         Category = "beauty"
	CategorySocialLife     Category = "social life"
	CategoryCulture        Category = "culture"
	CategoryFestivals      Category = "festivals"
	CategoryGift           Category = "gift"
	CategoryTourism        Category = "tourism"
	CategorySubscription   Category = "subscription"
	CategoryRent           Category = "rent"
	CategoryInvestment     Category = "investment"
	CategoryMoneyTransfer  Category = "money transfer"
	CategorySalary         Category = "salary"
	CategoryAllowance      Category = "allowance"
	CategoryInterest       Category = "interest"
	CategoryDividend       Category = "dividend"
	CategoryOther          Category = "other"
)

var knownCategories = map[Category]struct{}{
	CategoryHousehold: {}, CategoryTransportation: {}, CategoryFood: {}, CategoryApparel: {},
	CategoryHealth: {}, CategoryEducation: {}, CategoryBeauty: {}, CategorySocialLife: {},
	CategoryCulture: {}, CategoryFestivals: {}, CategoryGift: {}, CategoryTourism: {},
	CategorySubscription: {}, CategoryRent: {}, CategoryInvestment: {}, CategoryMoneyTransfer: {},
	CategorySalary: {}, CategoryAllowance: {}, CategoryInterest: {}, CategoryDividend: {},
	CategoryOther: {},
}

// EssentialCategories are the "needs" of the needs-vs-wants split. Everything else is a want.
var EssentialCategories = []Category{CategoryHousehold, CategoryTransportation}

var lowerCaser = cases.Lower(language.Und)

// NormalizeCategory trims the label, collapses inner whitespace and lower-cases it.
// Normalizing an already normalized value returns it unchanged.
func NormalizeCategory(label string) Category {
	fields := strings.Fields(label)
	return Category(lowerCaser.String(strings.Join(fields, " ")))
}

// Known reports whether the category belongs to the fixed taxonomy.
func (c Category) Known() bool {
	_, ok := knownCategories[c]
	return ok
}

// IsEssential reports whether the category counts as a need.
func (c Category) IsEssential() bool {
	for _, e := range EssentialCategories {
		if c == e {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
