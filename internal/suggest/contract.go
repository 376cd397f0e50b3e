// Package suggest asks a generative backend for a scheduling suggestion
// that fits around the family's existing events.
package suggest

import (
	"encoding/json"
	"fmt"

	"planclan/internal/common/errors"
	"planclan/internal/common/validation"
)

// SuggestionRequest is the input contract. All text fields are free-form;
// the handler's form validation has already enforced minimum lengths.
type SuggestionRequest struct {
	ExistingSchedule string `json:"existingSchedule"`
	NewEventDuration string `json:"newEventDuration"`
	Description      string `json:"description"`
	Constraints      string `json:"constraints,omitempty"`
	Members          string `json:"members"`
	PreferredDate    string `json:"preferredDate,omitempty"`
}

// Validate checks field presence only. ExistingSchedule may legitimately be
// empty: a fresh account has no events, and the request is still dispatched.
func (r *SuggestionRequest) Validate() error {
	v := validation.NewValidatorWithPrefix("suggestion request")
	v.RequireString(r.Description, "description").
		RequireString(r.NewEventDuration, "newEventDuration").
		RequireString(r.Members, "members")

	if v.HasErrors() {
		return errors.ValidationError(v.Error().Error())
	}
	return nil
}

// ConflictingEvent names an existing event a suggestion may collide with.
type ConflictingEvent struct {
	Title              string   `json:"title"`
	ConflictingMembers []string `json:"conflictingMembers"`
}

// SuggestionResult is the output contract the backend must satisfy.
type SuggestionResult struct {
	SuggestedTitle     string             `json:"suggestedTitle"`
	SuggestedTime      string             `json:"suggestedTime"`
	ConflictLikelihood string             `json:"conflictLikelihood"`
	Reasoning          string             `json:"reasoning"`
	ConflictingEvents  []ConflictingEvent `json:"conflictingEvents,omitempty"`
}

// resultFields describes the result schema as data. The same description
// drives both the backend's enforced output schema and our own validation
// of what actually came back.
type resultField struct {
	Name        string
	Description string
	Required    bool
}

var resultFields = []resultField{
	{"suggestedTitle", "A short, clear title for the event", true},
	{"suggestedTime", "The suggested start time, formatted exactly as 'MMM d, yyyy, h:mm a', e.g. 'Aug 15, 2024, 3:00 PM'", true},
	{"conflictLikelihood", "How likely the suggested time conflicts with the existing schedule: low, medium or high", true},
	{"reasoning", "A brief explanation of why this time was chosen", true},
}

// ParseResult decodes and shape-checks a raw backend payload. Any missing
// or mistyped required field rejects the whole payload; a result is never
// partially accepted.
func ParseResult(raw []byte) (*SuggestionResult, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.ResponseShapeError("backend response is not a JSON object")
	}

	result := &SuggestionResult{}
	targets := map[string]*string{
		"suggestedTitle":     &result.SuggestedTitle,
		"suggestedTime":      &result.SuggestedTime,
		"conflictLikelihood": &result.ConflictLikelihood,
		"reasoning":          &result.Reasoning,
	}

	for _, field := range resultFields {
		value, present := payload[field.Name]
		if !present {
			if field.Required {
				return nil, errors.ResponseShapeError(fmt.Sprintf("missing required field %q", field.Name))
			}
			continue
		}

		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return nil, errors.ResponseShapeError(fmt.Sprintf("field %q is not text", field.Name))
		}
		if field.Required && text == "" {
			return nil, errors.ResponseShapeError(fmt.Sprintf("required field %q is empty", field.Name))
		}

		*targets[field.Name] = text
	}

	if value, present := payload["conflictingEvents"]; present {
		if err := json.Unmarshal(value, &result.ConflictingEvents); err != nil {
			return nil, errors.ResponseShapeError("field \"conflictingEvents\" has the wrong shape")
		}
	}

	return result, nil
}
