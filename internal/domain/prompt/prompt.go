// Package prompt builds the instruction document sent to the text
// generation service for an event invitation.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/internal/domain/pace"
)

// Mode selects how much the document adapts to the event's pace.
type Mode int

const (
	// ModePaceAware embeds the classifier guidance and asks for a matching tone.
	ModePaceAware Mode = iota
	// ModeUniform uses one tone for every event.
	ModeUniform
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePaceAware:
		return "pace_aware"
	case ModeUniform:
		return "uniform"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the configuration names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pace_aware", "pace-aware":
		return ModePaceAware, nil
	case "uniform":
		return ModeUniform, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// notSpecified stands in for any blank event field other than vibe.
const notSpecified = "Not specified"

// Fields are the event values quoted in the document.
type Fields struct {
	Title    string
	Date     string
	Time     string
	Location string
	Pace     string
	Distance string
	Vibe     string
}

// FieldsFromEvent copies the invitation-relevant fields of an event.
func FieldsFromEvent(e model.Event) Fields {
	return Fields{
		Title:    e.Title,
		Date:     e.Date,
		Time:     e.Time,
		Location: e.Location,
		Pace:     e.PaceRange,
		Distance: e.Distance,
		Vibe:     e.Vibe,
	}
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithMode sets the tone mode.
func WithMode(m Mode) Option {
	return func(b *Builder) {
		b.mode = m
	}
}

// Builder renders invitation prompts. It is safe for concurrent use.
type Builder struct {
	mode Mode
	tmpl *template.Template
}

// NewBuilder creates a Builder in pace-aware mode unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		mode: ModePaceAware,
		tmpl: documentTmpl,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mode reports the configured tone mode.
func (b *Builder) Mode() Mode { return b.mode }

// Uniform returns a copy of b that ignores pace guidance.
func (b *Builder) Uniform() *Builder {
	c := *b
	c.mode = ModeUniform
	return &c
}

// Build renders the document for the event fields. Guidance is only quoted
// in pace-aware mode.
func (b *Builder) Build(f Fields, g pace.Guidance) (string, error) {
	if err := f.check(); err != nil {
		return "", err
	}

	data := documentData{
		PaceAware: b.mode == ModePaceAware,
		Guidance:  g.Text,
		Title:     orDefault(f.Title, notSpecified),
		Date:      orDefault(f.Date, notSpecified),
		Time:      orDefault(f.Time, notSpecified),
		Location:  orDefault(f.Location, notSpecified),
		Pace:      orDefault(f.Pace, notSpecified),
		Distance:  orDefault(f.Distance, model.DefaultDistance),
		Vibe:      orDefault(f.Vibe, model.DefaultVibe),
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return sb.String(), nil
}

// check enforces the fields a reader needs to find the run.
func (f Fields) check() error {
	required := []struct {
		name, value string
	}{
		{"eventTitle", f.Title},
		{"eventDate", f.Date},
		{"eventTime", f.Time},
		{"location", f.Location},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &TemplateError{Field: r.name}
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

type documentData struct {
	PaceAware bool
	Guidance  string
	Title     string
	Date      string
	Time      string
	Location  string
	Pace      string
	Distance  string
	Vibe      string
}

const document = `You are a friendly, enthusiastic run club organizer writing an event invitation.
{{if .PaceAware}}
IMPORTANT - PACE GUIDANCE:
{{.Guidance}}
{{end}}
Event Details:
- Title: {{.Title}}
- Date: {{.Date}}
- Time: {{.Time}}
- Location: {{.Location}}
- Pace: {{.Pace}}
- Distance: {{.Distance}}
- Vibe: {{.Vibe}}

Generate TWO versions:

1. SHORT (under 280 characters, include time/location/pace, energetic tone, NO emojis or maximum 1 simple emoji like ☕)
2. LONG (3-5 sentences, include all details, warm and inclusive tone, NO emojis)

Important guidelines:
- Do NOT mention specific club names
- Use generic terms like "runners" or "everyone" instead of "fam"
- Keep it professional and welcoming
- Avoid excessive or decorative emojis{{if .PaceAware}}
- Match the tone to the pace category (fast workout vs easy social run){{end}}

Output format:
SHORT: [your short version]
LONG: [your long version]`

var documentTmpl = template.Must(template.New("invitation").Parse(document)) //nolint:gochecknoglobals // parsed once
