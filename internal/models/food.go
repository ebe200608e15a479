package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrMissingID is returned by ParseFoodID when the identifier segment is empty.
	ErrMissingID = errors.New("food id is required")
	// ErrInvalidID is returned by ParseFoodID when the identifier is not a valid UUID.
	ErrInvalidID = errors.New("food id is malformed")
)

// Food is a named recipe. Name is unique across the collection.
// Rows are hard-deleted so a deleted name can be reused.
type Food struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_foods_name" json:"name"`
	Recipe    string    `gorm:"type:text;not null" json:"recipe"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// TableName pins the table name used by every dialector.
func (Food) TableName() string {
	return "foods"
}

// TimestampPrecision is the finest resolution every store keeps (mongo
// datetimes are milliseconds), so a created record reads back unchanged.
const TimestampPrecision = time.Millisecond

// PrepareForInsert assigns the store-owned fields of a new record.
// Callers never set ID or Timestamp themselves.
func (f *Food) PrepareForInsert(now time.Time) {
	f.ID = uuid.New()
	f.Timestamp = now.UTC().Truncate(TimestampPrecision)
}

// BeforeCreate is the gorm hook that stamps identity on insert.
func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.PrepareForInsert(time.Now())
	}
	return nil
}

// FoodUpdate carries a partial update. Nil fields are left untouched.
type FoodUpdate struct {
	Name   *string
	Recipe *string
}

// IsEmpty reports whether the update changes nothing.
func (u FoodUpdate) IsEmpty() bool {
	return u.Name == nil && u.Recipe == nil
}

// Columns returns the column/value pairs to write.
func (u FoodUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 2)
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Recipe != nil {
		cols["recipe"] = *u.Recipe
	}
	return cols
}

// ApplyTo merges the update into f.
func (u FoodUpdate) ApplyTo(f *Food) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Recipe != nil {
		f.Recipe = *u.Recipe
	}
}

// ParseFoodID turns a path segment into a food identifier.
func ParseFoodID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ErrMissingID
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
