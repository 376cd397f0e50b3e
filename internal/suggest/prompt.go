package suggest

import (
	"fmt"
	"strings"
	"time"
)

const promptDateLayout = "Jan 2, 2006"

// BuildPrompt renders the instruction sent to the generative backend. The
// current date is embedded so the backend can be told, explicitly, that
// suggested times must not be in the past.
func BuildPrompt(req *SuggestionRequest, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are a scheduling assistant for a busy family.\n\n")

	fmt.Fprintf(&b, "The user wants to schedule: %s\n", req.Description)
	fmt.Fprintf(&b, "Desired duration: %s\n", req.NewEventDuration)
	fmt.Fprintf(&b, "Participants: %s\n", req.Members)
	if req.Constraints != "" {
		fmt.Fprintf(&b, "Constraints: %s\n", req.Constraints)
	}

	b.WriteString("\nExisting schedule:\n")
	if req.ExistingSchedule == "" {
		b.WriteString("(no events scheduled)\n")
	} else {
		b.WriteString(req.ExistingSchedule)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nThe current date is %s. All suggested times MUST be in the future.\n", now.Format(promptDateLayout))
	if req.PreferredDate != "" {
		fmt.Fprintf(&b, "The user is currently viewing %s. Prioritize suggesting a time on this date if possible.\n", req.PreferredDate)
	}

	b.WriteString("\nSuggest a time that avoids conflicts for the listed participants, ")
	b.WriteString("and name any existing events the suggestion may clash with.\n")
	b.WriteString("The suggestedTime field must use the exact format 'MMM d, yyyy, h:mm a', for example 'Aug 15, 2024, 3:00 PM'.\n")

	return b.String()
}
