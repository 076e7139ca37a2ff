package enums

import "fmt"

// ProductCategory represents the canonical product categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryFlower      ProductCategory = "flower"
	ProductCategoryCart        ProductCategory = "cart"
	ProductCategoryPreRoll     ProductCategory = "pre_roll"
	ProductCategoryEdible      ProductCategory = "edible"
	ProductCategoryConcentrate ProductCategory = "concentrate"
	ProductCategoryBeverage    ProductCategory = "beverage"
	ProductCategoryVape        ProductCategory = "vape"
	ProductCategoryTopical     ProductCategory = "topical"
	ProductCategoryTincture    ProductCategory = "tincture"
	ProductCategoryAccessory   ProductCategory = "accessory"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFlower,
	ProductCategoryCart,
	ProductCategoryPreRoll,
	ProductCategoryEdible,
	ProductCategoryConcentrate,
	ProductCategoryBeverage,
	ProductCategoryVape,
	ProductCategoryTopical,
	ProductCategoryTincture,
	ProductCategoryAccessory,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductClassification represents the canonical strain classification values.
type ProductClassification string

const (
	ProductClassificationSativa   ProductClassification = "sativa"
	ProductClassificationHybrid   ProductClassification = "hybrid"
	ProductClassificationIndica   ProductClassification = "indica"
	ProductClassificationCBD      ProductClassification = "cbd"
	ProductClassificationHemp     ProductClassification = "hemp"
	ProductClassificationBalanced ProductClassification = "balanced"
)

var validProductClassifications = []ProductClassification{
	ProductClassificationSativa,
	ProductClassificationHybrid,
	ProductClassificationIndica,
	ProductClassificationCBD,
	ProductClassificationHemp,
	ProductClassificationBalanced,
}

// String implements fmt.Stringer.
func (c ProductClassification) String() string {
	return string(c)
}

// IsValid reports whether the value matches a known ProductClassification.
func (c ProductClassification) IsValid() bool {
	for _, candidate := range validProductClassifications {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductClassification converts raw input into a ProductClassification.
func ParseProductClassification(value string) (ProductClassification, error) {
	for _, candidate := range validProductClassifications {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product classification %q", value)
}

// ProductUnit defines the available unit types for pricing.
type ProductUnit string

const (
	ProductUnitUnit      ProductUnit = "unit"
	ProductUnitGram      ProductUnit = "gram"
	ProductUnitOunce     ProductUnit = "ounce"
	ProductUnitEighth    ProductUnit = "eighth"
	ProductUnitSixteenth ProductUnit = "sixteenth"
)

var validProductUnits = []ProductUnit{
	ProductUnitUnit,
	ProductUnitGram,
	ProductUnitOunce,
	ProductUnitEighth,
	ProductUnitSixteenth,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
