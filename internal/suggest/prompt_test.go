package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	now := time.Date(2024, time.August, 20, 12, 0, 0, 0, time.UTC)

	t.Run("embeds request fields and the current date", func(t *testing.T) {
		prompt := BuildPrompt(validRequest(), now)

		assert.Contains(t, prompt, "Swimming lesson for the kids")
		assert.Contains(t, prompt, "1 hour")
		assert.Contains(t, prompt, "Bobby and Seb")
		assert.Contains(t, prompt, "- Breakfast for James from 8:00 AM to 8:30 AM on Sep 3")
		assert.Contains(t, prompt, "The current date is Aug 20, 2024.")
		assert.Contains(t, prompt, "All suggested times MUST be in the future.")
		assert.Contains(t, prompt, "MMM d, yyyy, h:mm a")
	})

	t.Run("empty schedule is stated, not omitted", func(t *testing.T) {
		req := validRequest()
		req.ExistingSchedule = ""

		prompt := BuildPrompt(req, now)
		assert.Contains(t, prompt, "(no events scheduled)")
	})

	t.Run("constraints appear only when present", func(t *testing.T) {
		req := validRequest()
		assert.NotContains(t, BuildPrompt(req, now), "Constraints:")

		req.Constraints = "not before 3 PM"
		assert.Contains(t, BuildPrompt(req, now), "Constraints: not before 3 PM")
	})

	t.Run("preferred date adds a priority instruction", func(t *testing.T) {
		req := validRequest()
		assert.NotContains(t, BuildPrompt(req, now), "Prioritize")

		req.PreferredDate = "Sep 6, 2026"
		prompt := BuildPrompt(req, now)
		assert.Contains(t, prompt, "The user is currently viewing Sep 6, 2026.")
		assert.Contains(t, prompt, "Prioritize suggesting a time on this date if possible.")
	})
}
