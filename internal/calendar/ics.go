package calendar

import (
	"fmt"
	"strings"
	"time"

	"offboarding-dashboard/internal/model"
)

const icsDateLayout = "20060102"

// ExportICS builds an iCalendar document with one all-day event per task.
// Tasks whose date does not parse are skipped.
func ExportICS(tasks []model.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Offboarding Dashboard//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	for _, task := range tasks {
		due, err := ParseDate(task.Date)
		if err != nil {
			continue
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:offboarding-%d@offboarding-dashboard", task.ID),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(fmt.Sprintf("Offboarding: %s (%s)", task.PersonToOffboard, task.OffboardingType)),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
			"DESCRIPTION:"+escapeICSText(describe(task)),
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n")
}

func describe(task model.Task) string {
	parts := []string{"Responsible: " + task.ResponsiblePerson}
	if task.Category != "" {
		parts = append(parts, "Category: "+task.Category)
	}
	return strings.Join(parts, "\n")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
