package dto

import (
	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/model"
)

type DraftRequest struct {
	Date              string `json:"date"`
	Category          string `json:"category"`
	PersonToOffboard  string `json:"personToOffboard"`
	ResponsiblePerson string `json:"responsiblePerson"`
	OffboardingType   string `json:"offboardingType"`
}

func (r DraftRequest) Draft() model.Draft {
	return model.Draft{
		Date:              r.Date,
		Category:          r.Category,
		PersonToOffboard:  r.PersonToOffboard,
		ResponsiblePerson: r.ResponsiblePerson,
		OffboardingType:   r.OffboardingType,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

type ReminderResponse struct {
	PersonToOffboard  string `json:"personToOffboard"`
	ResponsiblePerson string `json:"responsiblePerson"`
	OffboardingType   string `json:"offboardingType"`
	Date              string `json:"date"`
}

type RemindersResponse struct {
	Sent         int                `json:"sent"`
	Reminders    []ReminderResponse `json:"reminders"`
	Notification string             `json:"notification"`
}

type CalendarResponse struct {
	Title    string        `json:"title"`
	Weekdays [7]string     `json:"weekdays"`
	Grid     calendar.Grid `json:"grid"`
}
