package model

// Field names used in validation results.
const (
	FieldDate              = "date"
	FieldPersonToOffboard  = "personToOffboard"
	FieldResponsiblePerson = "responsiblePerson"
	FieldOffboardingType   = "offboardingType"
)

// Validation lists the required fields a draft is missing.
type Validation struct {
	Missing []string `json:"missing,omitempty"`
}

// OK reports whether the draft can be submitted.
func (v Validation) OK() bool {
	return len(v.Missing) == 0
}

// Validate checks that date, person, responsible person and type are set.
// Category is optional.
func (d Draft) Validate() Validation {
	var v Validation
	if d.Date == "" {
		v.Missing = append(v.Missing, FieldDate)
	}
	if d.PersonToOffboard == "" {
		v.Missing = append(v.Missing, FieldPersonToOffboard)
	}
	if d.ResponsiblePerson == "" {
		v.Missing = append(v.Missing, FieldResponsiblePerson)
	}
	if d.OffboardingType == "" {
		v.Missing = append(v.Missing, FieldOffboardingType)
	}
	return v
}
