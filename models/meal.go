package models

import (
	"time"
)

// Meal categories (closed set, mirrors what the storefront offers).
var MealCategories = []string{
	"Pancakes", "Street Food", "South Indian", "Maharashtrian",
	"Snacks", "Chaats", "Breakfast", "Beverages",
}

// Time-of-day tags a meal can be served at.
var TimesOfDay = []string{"Morning", "Afternoon", "Evening"}

// Dietary tags a meal can carry.
var MealTags = []string{
	"Vegetarian", "Vegan", "Gluten-Free", "Healthy", "Protein-Rich", "Spicy", "Sweet",
}

// NutritionalInfo holds optional nutrition facts for a meal.
type NutritionalInfo struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Meal represents a dish offered on the marketplace.
type Meal struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Price           float64         `gorm:"not null;check:price >= 0" json:"price"`
	Category        string          `gorm:"not null;index" json:"category"`
	TimeOfDay       StringList      `gorm:"type:text;not null" json:"timeOfDay"`
	Tags            StringList      `gorm:"type:text" json:"tags"`
	PreparationTime int             `gorm:"not null" json:"preparationTime"` // minutes
	Rating          float64         `gorm:"not null;default:0" json:"rating"`
	ReviewCount     int             `gorm:"not null;default:0" json:"reviewCount"`
	IsAvailable     bool            `gorm:"not null;default:true;index" json:"isAvailable"`
	ImageKey        string          `json:"-"`                              // S3 object key
	ImageURL        string          `gorm:"-" json:"imageUrl,omitempty"`    // presigned URL, computed on read
	NutritionalInfo NutritionalInfo `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutritionalInfo"`
	Ingredients     StringList      `gorm:"type:text" json:"ingredients"`
	Allergens       StringList      `gorm:"type:text" json:"allergens"`
	CreatedByID     uint            `gorm:"index" json:"createdById"`
	CreatedBy       *User           `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Meal model
func (Meal) TableName() string {
	return "meals"
}

// IsValidMealCategory reports whether category is a recognized meal category.
func IsValidMealCategory(category string) bool {
	return StringList(MealCategories).Contains(category)
}

// IsValidTimeOfDay reports whether t is a recognized time-of-day tag.
func IsValidTimeOfDay(t string) bool {
	return StringList(TimesOfDay).Contains(t)
}

// IsValidMealTag reports whether tag is a recognized dietary tag.
func IsValidMealTag(tag string) bool {
	return StringList(MealTags).Contains(tag)
}
