// Package pace classifies a free-text pace range into a tone category for
// invitation copy.
package pace

import "strings"

// Category is the derived intensity of an event. It is never persisted.
type Category string

// Categories in evaluation order of the rule table.
const (
	Fast     Category = "FAST"
	Easy     Category = "EASY"
	Moderate Category = "MODERATE"
)

// String returns the category tag.
func (c Category) String() string { return string(c) }

// Guidance pairs a category with the steering text handed to the generator.
type Guidance struct {
	Category Category
	Text     string
}

const (
	fastGuidance = `This is a FAST-paced workout for experienced runners. Be clear this is designed for runners training at high intensity. Use language like "challenging", "speed work", "tempo", or "push your limits". Do NOT say "all paces welcome" - this pace range is for advanced runners.`

	easyGuidance = `This is a beginner-friendly, easy-paced run. Emphasize it's welcoming to new runners, walkers, and those taking it easy. Use inclusive language like "all paces welcome", "no one left behind", or "perfect for beginners".`

	moderateGuidance = `This is a moderate-paced run suitable for regular runners. Strike a balance - welcoming but not necessarily for complete beginners. Mention it's great for consistent runners looking to maintain their fitness.`
)

// rule matches when the lower-cased pace text contains any of its needles.
type rule struct {
	needles  []string
	guidance Guidance
}

// rules is evaluated top to bottom; the first match wins. FAST is checked
// before EASY, so "6:30 to 12:00" classifies as FAST.
var rules = []rule{ //nolint:gochecknoglobals // fixed decision table
	{
		needles:  []string{"6:", "7:"},
		guidance: Guidance{Category: Fast, Text: fastGuidance},
	},
	{
		needles:  []string{"11:", "12:", "beginner", "easy"},
		guidance: Guidance{Category: Easy, Text: easyGuidance},
	},
}

var fallback = Guidance{Category: Moderate, Text: moderateGuidance} //nolint:gochecknoglobals // default row

// Classify maps a pace range to its guidance. Only substring presence is
// checked; no numeric parsing happens. Total over all inputs.
func Classify(paceRange string) Guidance {
	p := strings.ToLower(paceRange)
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(p, n) {
				return r.guidance
			}
		}
	}
	return fallback
}
