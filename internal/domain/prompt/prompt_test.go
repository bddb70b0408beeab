package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/oducru/runclub/internal/domain/pace"
	"github.com/oducru/runclub/internal/domain/prompt"
	"github.com/smartystreets/goconvey/convey"
)

func saturdayRun() prompt.Fields {
	return prompt.Fields{
		Title:    "Saturday Long Run",
		Date:     "2024-06-01",
		Time:     "07:00",
		Location: "City Park",
		Pace:     "11:00/mi",
		Distance: "5mi",
		Vibe:     "chill",
	}
}

func TestBuilder_PaceAware(t *testing.T) {
	convey.Convey("Given a pace-aware builder and an easy-paced event", t, func() {
		b := prompt.NewBuilder()
		f := saturdayRun()
		g := pace.Classify(f.Pace)

		convey.Convey("When building the document", func() {
			doc, err := b.Build(f, g)

			convey.Convey("Then it frames the organizer persona", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(doc, convey.ShouldStartWith, "You are a friendly, enthusiastic run club organizer")
			})

			convey.Convey("And it quotes the classifier guidance", func() {
				convey.So(doc, convey.ShouldContainSubstring, "IMPORTANT - PACE GUIDANCE:\n"+g.Text+"\n")
				convey.So(doc, convey.ShouldContainSubstring, "perfect for beginners")
			})

			convey.Convey("And it lists every event field", func() {
				for _, line := range []string{
					"- Title: Saturday Long Run",
					"- Date: 2024-06-01",
					"- Time: 07:00",
					"- Location: City Park",
					"- Pace: 11:00/mi",
					"- Distance: 5mi",
					"- Vibe: chill",
				} {
					convey.So(doc, convey.ShouldContainSubstring, line)
				}
			})

			convey.Convey("And it fixes the output contract", func() {
				convey.So(doc, convey.ShouldContainSubstring, "SHORT (under 280 characters, include time/location/pace")
				convey.So(doc, convey.ShouldContainSubstring, "maximum 1 simple emoji like ☕")
				convey.So(doc, convey.ShouldContainSubstring, "LONG (3-5 sentences, include all details, warm and inclusive tone, NO emojis)")
				convey.So(doc, convey.ShouldEndWith, "SHORT: [your short version]\nLONG: [your long version]")
			})

			convey.Convey("And it carries the fixed guidelines", func() {
				convey.So(doc, convey.ShouldContainSubstring, "Do NOT mention specific club names")
				convey.So(doc, convey.ShouldContainSubstring, `instead of "fam"`)
				convey.So(doc, convey.ShouldContainSubstring, "Keep it professional and welcoming")
				convey.So(doc, convey.ShouldContainSubstring, "Match the tone to the pace category")
			})
		})
	})

	convey.Convey("Given an event without distance or vibe", t, func() {
		b := prompt.NewBuilder()
		f := saturdayRun()
		f.Distance = ""
		f.Vibe = "  "

		convey.Convey("When building the document", func() {
			doc, err := b.Build(f, pace.Classify(f.Pace))

			convey.Convey("Then placeholders stand in for the blanks", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(doc, convey.ShouldContainSubstring, "- Distance: Not specified")
				convey.So(doc, convey.ShouldContainSubstring, "- Vibe: N/A")
			})
		})
	})

	convey.Convey("Given an event without a pace", t, func() {
		f := saturdayRun()
		f.Pace = ""

		convey.Convey("Then the pace line shows the placeholder", func() {
			doc, err := prompt.NewBuilder().Build(f, pace.Classify(f.Pace))
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc, convey.ShouldContainSubstring, "- Pace: Not specified")
			convey.So(doc, convey.ShouldContainSubstring, "moderate-paced run")
		})
	})
}

func TestBuilder_Uniform(t *testing.T) {
	convey.Convey("Given a uniform builder", t, func() {
		b := prompt.NewBuilder(prompt.WithMode(prompt.ModeUniform))
		f := saturdayRun()

		convey.Convey("When building the document", func() {
			doc, err := b.Build(f, pace.Classify(f.Pace))

			convey.Convey("Then no guidance block or pace-tone line appears", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(doc, convey.ShouldNotContainSubstring, "PACE GUIDANCE")
				convey.So(doc, convey.ShouldNotContainSubstring, "perfect for beginners")
				convey.So(doc, convey.ShouldNotContainSubstring, "Match the tone to the pace category")
			})

			convey.Convey("And the persona runs straight into the details", func() {
				convey.So(doc, convey.ShouldContainSubstring, "event invitation.\n\nEvent Details:")
				convey.So(doc, convey.ShouldContainSubstring, "Avoid excessive or decorative emojis\n\nOutput format:")
			})
		})
	})

	convey.Convey("Given a pace-aware builder", t, func() {
		b := prompt.NewBuilder()

		convey.Convey("When deriving a uniform copy", func() {
			u := b.Uniform()

			convey.Convey("Then only the copy changes mode", func() {
				convey.So(u.Mode(), convey.ShouldEqual, prompt.ModeUniform)
				convey.So(b.Mode(), convey.ShouldEqual, prompt.ModePaceAware)
			})
		})
	})
}

func TestBuilder_MissingFields(t *testing.T) {
	convey.Convey("Given events missing structural fields", t, func() {
		b := prompt.NewBuilder()
		cases := map[string]func(*prompt.Fields){
			"eventTitle": func(f *prompt.Fields) { f.Title = "" },
			"eventDate":  func(f *prompt.Fields) { f.Date = " " },
			"eventTime":  func(f *prompt.Fields) { f.Time = "" },
			"location":   func(f *prompt.Fields) { f.Location = "" },
		}

		for field, blank := range cases {
			f := saturdayRun()
			blank(&f)
			_, err := b.Build(f, pace.Classify(f.Pace))

			convey.So(errors.Is(err, prompt.ErrTemplate), convey.ShouldBeTrue)
			var te *prompt.TemplateError
			convey.So(errors.As(err, &te), convey.ShouldBeTrue)
			convey.So(te.Field, convey.ShouldEqual, field)
		}
	})
}

func TestParseMode(t *testing.T) {
	convey.Convey("Given configuration strings", t, func() {
		convey.Convey("Then known names parse", func() {
			for in, want := range map[string]prompt.Mode{
				"":           prompt.ModePaceAware,
				"pace_aware": prompt.ModePaceAware,
				"Pace-Aware": prompt.ModePaceAware,
				"uniform":    prompt.ModeUniform,
				" UNIFORM ":  prompt.ModeUniform,
			} {
				m, err := prompt.ParseMode(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(m, convey.ShouldEqual, want)
			}
		})

		convey.Convey("And unknown names are rejected", func() {
			_, err := prompt.ParseMode("shouty")
			convey.So(errors.Is(err, prompt.ErrUnknownMode), convey.ShouldBeTrue)
		})

		convey.Convey("And String round-trips", func() {
			for _, m := range []prompt.Mode{prompt.ModePaceAware, prompt.ModeUniform} {
				back, err := prompt.ParseMode(m.String())
				convey.So(err, convey.ShouldBeNil)
				convey.So(back, convey.ShouldEqual, m)
			}
			convey.So(strings.HasPrefix(prompt.Mode(9).String(), "mode("), convey.ShouldBeTrue)
		})
	})
}
