package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/oducru/runclub/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventJSON(t *testing.T) {
	convey.Convey("Given a create-event request body", t, func() {
		body := `{"eventTitle":"Saturday Long Run","eventDate":"2024-06-01","eventTime":"07:00",
			"location":"City Park","paceRange":"11:00/mi","distance":"5mi","vibe":"chill"}`

		convey.Convey("When decoding it into an Event", func() {
			var e model.Event
			err := json.Unmarshal([]byte(body), &e)

			convey.Convey("Then every form field lands on the matching struct field", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(e.Title, convey.ShouldEqual, "Saturday Long Run")
				convey.So(e.Date, convey.ShouldEqual, "2024-06-01")
				convey.So(e.Time, convey.ShouldEqual, "07:00")
				convey.So(e.Location, convey.ShouldEqual, "City Park")
				convey.So(e.PaceRange, convey.ShouldEqual, "11:00/mi")
				convey.So(e.Distance, convey.ShouldEqual, "5mi")
				convey.So(e.Vibe, convey.ShouldEqual, "chill")
				convey.So(e.ID, convey.ShouldBeEmpty)
				convey.So(e.CreatedAt, convey.ShouldBeEmpty)
			})
		})
	})

	convey.Convey("Given a stored Event", t, func() {
		e := model.Event{
			ID:        "evt_abc_12345",
			Title:     "Tempo Tuesday",
			Date:      "2024-06-04",
			Time:      "18:30",
			Location:  "Track",
			PaceRange: "7:00-7:30",
			Distance:  model.DefaultDistance,
			Vibe:      model.DefaultVibe,
			CreatedAt: "2024-06-01T12:00:00.000Z",
		}

		convey.Convey("When encoding it", func() {
			out, err := json.Marshal(e)

			convey.Convey("Then it uses the get-event response keys", func() {
				convey.So(err, convey.ShouldBeNil)
				s := string(out)
				for _, key := range []string{"eventId", "eventTitle", "eventDate", "eventTime", "location", "paceRange", "distance", "vibe", "createdAt"} {
					convey.So(s, convey.ShouldContainSubstring, `"`+key+`"`)
				}
			})
		})
	})
}

func TestRSVPJSON(t *testing.T) {
	convey.Convey("Given an RSVP body without event reference", t, func() {
		body := `{"name":"Ada","email":"ada@example.com","pace":"9:30","experience":"regular","timestamp":"2024-06-01T10:00:00Z"}`

		convey.Convey("When decoding it", func() {
			var r model.RSVP
			err := json.Unmarshal([]byte(body), &r)

			convey.Convey("Then the optional references stay empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.EventID, convey.ShouldBeEmpty)
				convey.So(r.EventTitle, convey.ShouldBeEmpty)
				convey.So(r.Name, convey.ShouldEqual, "Ada")
				convey.So(r.Experience, convey.ShouldEqual, "regular")
			})
		})
	})
}
