// Package ical exports a user's schedule as an iCalendar feed, for
// subscribing from external calendar apps.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"planclan/internal/models"
)

const productID = "-//planclan//EN"

// WriteCalendar encodes the events as a VCALENDAR stream. Member names are
// resolved against the roster and carried in each event's description so
// external apps show who is going.
func WriteCalendar(w io.Writer, events []*models.Event, roster []*models.Member) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, event := range events {
		cal.Children = append(cal.Children, toComponent(event, roster))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func toComponent(event *models.Event, roster []*models.Member) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, fmt.Sprintf("%s@planclan", event.ID))
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime)
	ve.Props.SetText(ical.PropCategories, string(event.Category))

	description := event.Description
	if names := assignedNames(event, roster); len(names) > 0 {
		attendees := "For: " + strings.Join(names, ", ")
		if description != "" {
			description = description + "\n" + attendees
		} else {
			description = attendees
		}
	}
	if description != "" {
		ve.Props.SetText(ical.PropDescription, description)
	}

	if event.IsCompleted {
		ve.Props.SetText(ical.PropStatus, "CANCELLED")
	}

	return ve
}

func assignedNames(event *models.Event, roster []*models.Member) []string {
	byID := make(map[string]string, len(roster))
	for _, member := range roster {
		byID[member.ID] = member.Name
	}

	names := make([]string, 0, len(event.AssignedMemberIDs))
	for _, id := range event.AssignedMemberIDs {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
