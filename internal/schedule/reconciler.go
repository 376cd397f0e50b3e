package schedule

import (
	"strings"
	"time"

	"planclan/internal/common/errors"
	"planclan/internal/models"
)

// suggestedTimeLayout is the only format a backend suggestion may use for
// its time. Anything else is rejected, never guessed at.
const suggestedTimeLayout = "Jan 2, 2006, 3:04 PM"

// Suggestion carries the accepted fields of a backend suggestion into the
// reconciler, together with the user's original request text.
type Suggestion struct {
	Title       string
	TimeText    string // "Jan 2, 2006, 3:04 PM"
	Duration    string // free-form, e.g. "2 hours"; blank means one hour
	Description string
	MemberNames string // free text scanned for roster names
}

// ParseSuggestedTime parses a suggested start time strictly against the
// expected layout, in the server's local zone.
func ParseSuggestedTime(literal string) (time.Time, error) {
	t, err := time.ParseInLocation(suggestedTimeLayout, strings.TrimSpace(literal), time.Local)
	if err != nil {
		return time.Time{}, errors.TimeParseError(literal)
	}
	return t, nil
}

// ResolveMembers returns the IDs of roster members whose names appear in
// the text, matched case-insensitively, in roster order. Substring matching
// is intentional: the text is free-form ("for Bobby and Seb"), so exact
// token matching would miss most inputs.
func ResolveMembers(text string, roster []*models.Member) []string {
	lowered := strings.ToLower(text)

	ids := make([]string, 0, len(roster))
	for _, member := range roster {
		if strings.Contains(lowered, strings.ToLower(member.Name)) {
			ids = append(ids, member.ID)
		}
	}
	return ids
}

// ResolveMemberNames is ResolveMembers for prompts: it returns the
// canonical roster names instead of IDs, so free text like "Bobby and
// Grandma" becomes just "Bobby" before it reaches the backend.
func ResolveMemberNames(text string, roster []*models.Member) []string {
	lowered := strings.ToLower(text)

	names := make([]string, 0, len(roster))
	for _, member := range roster {
		if strings.Contains(lowered, strings.ToLower(member.Name)) {
			names = append(names, member.Name)
		}
	}
	return names
}

// ApplySuggestion writes an accepted suggestion onto an event. Only the
// title, description, start and end times and assigned members change;
// everything else on the event (owner, category, completion, recurrence)
// is left as it was.
func ApplySuggestion(event *models.Event, s Suggestion, roster []*models.Member) error {
	start, err := ParseSuggestedTime(s.TimeText)
	if err != nil {
		return err
	}

	event.Title = s.Title
	event.Description = s.Description
	event.StartTime = start
	event.EndTime = start.Add(ParseDurationText(s.Duration))
	event.AssignedMemberIDs = ResolveMembers(s.MemberNames, roster)

	return nil
}
