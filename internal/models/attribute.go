package models

import (
	"time"

	"gorm.io/gorm"
)

// Attribute is a catalog-wide characteristic definition.
type Attribute struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Code            string         `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Name            string         `gorm:"uniqueIndex;size:200;not null" json:"name"`
	Type            string         `gorm:"size:20;not null;default:'text'" json:"type"`
	Description     string         `gorm:"type:text" json:"description"`
	Unit            string         `gorm:"size:50" json:"unit"`
	IsUnique        bool           `gorm:"default:false" json:"is_unique"`
	ValidationRules JSON           `gorm:"type:json" json:"validation_rules"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Options []AttributeOption `gorm:"foreignKey:AttributeID" json:"options,omitempty"`
}

// TableName sets the table name.
func (Attribute) TableName() string {
	return "attributes"
}

// RuleFloat reads a numeric validation rule, e.g. "min" or "max".
func (a *Attribute) RuleFloat(key string) (float64, bool) {
	if a == nil || a.ValidationRules == nil {
		return 0, false
	}
	raw, ok := a.ValidationRules[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// RuleString reads a string validation rule, e.g. "pattern".
func (a *Attribute) RuleString(key string) (string, bool) {
	if a == nil || a.ValidationRules == nil {
		return "", false
	}
	raw, ok := a.ValidationRules[key]
	if !ok || raw == nil {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// RuleInt reads an integer validation rule, e.g. "min_length".
func (a *Attribute) RuleInt(key string) (int, bool) {
	value, ok := a.RuleFloat(key)
	if !ok {
		return 0, false
	}
	return int(value), true
}

// OptionValues returns the allowed values of a select attribute in sort order.
func (a *Attribute) OptionValues() []string {
	if a == nil || len(a.Options) == 0 {
		return nil
	}
	values := make([]string, 0, len(a.Options))
	for _, option := range a.Options {
		values = append(values, option.Value)
	}
	return values
}

// AttributeOption is one allowed value of a select attribute.
type AttributeOption struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AttributeID uint      `gorm:"not null;uniqueIndex:idx_attribute_option_value" json:"attribute_id"`
	Value       string    `gorm:"size:200;not null;uniqueIndex:idx_attribute_option_value" json:"value"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets the table name.
func (AttributeOption) TableName() string {
	return "attribute_options"
}
