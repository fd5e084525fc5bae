package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Service areas (closed set).
var StoreAreas = []string{"Sakhrale", "Takari", "Islampur", "Walwa"}

// Store feature tags.
var StoreFeatures = []string{
	"WiFi", "Outdoor Seating", "Vegan Options", "Takeout", "Family-Friendly",
	"Fresh Baked Daily", "Authentic", "Organic", "Gluten-Free", "Sustainable",
	"Diner Style", "Large Portions", "Classic Menu",
}

// Address is a store's postal address. Area is one of StoreAreas.
type Address struct {
	Street  string `json:"street"`
	Area    string `gorm:"index" json:"area"`
	City    string `gorm:"default:'Sangli'" json:"city"`
	State   string `gorm:"default:'Maharashtra'" json:"state"`
	Pincode string `json:"pincode"`
}

// DayHours holds one weekday's opening window. Times are "HH:MM".
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WeekHours maps lowercase weekday names ("monday"..."sunday") to hours.
// Stored as a JSON column.
type WeekHours map[string]DayHours

// Value implements driver.Valuer.
func (h WeekHours) Value() (driver.Value, error) {
	if h == nil {
		h = WeekHours{}
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal store hours: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (h *WeekHours) Scan(value interface{}) error {
	if value == nil {
		*h = WeekHours{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for store hours: %T", value)
	}

	if len(data) == 0 {
		*h = WeekHours{}
		return nil
	}
	return json.Unmarshal(data, h)
}

// Store represents a food store on the marketplace.
type Store struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	Address        Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	Phone          string     `gorm:"not null" json:"phone"`
	Email          string     `json:"email"`
	Hours          WeekHours  `gorm:"type:text" json:"hours"`
	Rating         float64    `gorm:"not null;default:0" json:"rating"`
	ReviewCount    int        `gorm:"not null;default:0" json:"reviewCount"`
	Specialties    StringList `gorm:"type:text" json:"specialties"`
	Features       StringList `gorm:"type:text" json:"features"`
	PopularMeals   []Meal     `gorm:"many2many:store_popular_meals" json:"popularMeals,omitempty"`
	Images         StringList `gorm:"type:text" json:"images"`
	OwnerID        uint       `gorm:"not null;index" json:"ownerId"`
	Owner          *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsActive       bool       `gorm:"not null;default:true;index" json:"isActive"`
	IsVerified     bool       `gorm:"not null;default:false" json:"isVerified"`
	DeliveryRadius float64    `gorm:"not null;default:5" json:"deliveryRadius"` // km
	MinimumOrder   float64    `gorm:"not null;default:0" json:"minimumOrder"`
	DeliveryFee    float64    `gorm:"not null;default:0" json:"deliveryFee"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the Store model
func (Store) TableName() string {
	return "stores"
}

// IsValidStoreArea reports whether area is a recognized service area.
func IsValidStoreArea(area string) bool {
	return StringList(StoreAreas).Contains(area)
}

// IsValidStoreFeature reports whether feature is a recognized feature tag.
func IsValidStoreFeature(feature string) bool {
	return StringList(StoreFeatures).Contains(feature)
}

// IsCurrentlyOpenAt reports whether the store is open at the given time
// according to its own weekday hours table.
func (s *Store) IsCurrentlyOpenAt(now time.Time) bool {
	day := strings.ToLower(now.Weekday().String())
	today, ok := s.Hours[day]
	if !ok || today.Closed || today.Open == "" || today.Close == "" {
		return false
	}

	current := now.Format("15:04")
	return current >= today.Open && current <= today.Close
}

// IsCurrentlyOpen reports whether the store is open right now.
func (s *Store) IsCurrentlyOpen() bool {
	return s.IsCurrentlyOpenAt(time.Now())
}
