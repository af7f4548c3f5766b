package model

import (
	"strings"
	"time"
)

// Offboarding types offered by the form. The store accepts any non-empty value.
const (
	TypeImmediate = "Immediate"
	TypeShort     = "Short"
	TypeLong      = "Long"
)

// OffboardingTypes lists the choices in display order.
var OffboardingTypes = []string{TypeImmediate, TypeShort, TypeLong}

// Task is a single offboarding item.
type Task struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Date              string    `json:"date"`
	Category          string    `json:"category"`
	PersonToOffboard  string    `json:"personToOffboard"`
	ResponsiblePerson string    `json:"responsiblePerson"`
	OffboardingType   string    `json:"offboardingType"`
	Completed         bool      `gorm:"default:false" json:"completed"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}

// Draft holds the editable fields of a task before it is stored.
type Draft struct {
	Date              string `json:"date"`
	Category          string `json:"category"`
	PersonToOffboard  string `json:"personToOffboard"`
	ResponsiblePerson string `json:"responsiblePerson"`
	OffboardingType   string `json:"offboardingType"`
}

// Draft returns the editable part of the task.
func (t Task) Draft() Draft {
	return Draft{
		Date:              t.Date,
		Category:          t.Category,
		PersonToOffboard:  t.PersonToOffboard,
		ResponsiblePerson: t.ResponsiblePerson,
		OffboardingType:   t.OffboardingType,
	}
}

// Apply copies the draft fields onto the task, keeping ID and Completed.
func (t *Task) Apply(d Draft) {
	t.Date = d.Date
	t.Category = d.Category
	t.PersonToOffboard = d.PersonToOffboard
	t.ResponsiblePerson = d.ResponsiblePerson
	t.OffboardingType = d.OffboardingType
}

// Matches reports whether term occurs, case-insensitively, in any searchable field.
// An empty term matches every task.
func (t Task) Matches(term string) bool {
	needle := strings.ToLower(term)
	for _, field := range []string{t.PersonToOffboard, t.Category, t.ResponsiblePerson, t.OffboardingType} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// IsKnownType reports whether value is one of the offered offboarding types.
func IsKnownType(value string) bool {
	for _, typ := range OffboardingTypes {
		if typ == value {
			return true
		}
	}
	return false
}
