package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/oducru/runclub/internal/adapters/http/api"
	"github.com/oducru/runclub/internal/adapters/repository"
	service "github.com/oducru/runclub/internal/app"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

var idPattern = regexp.MustCompile(`^evt_[0-9a-z]+_[0-9a-z]{5}$`)

// echoGenerator answers with both labelled sections and remembers the prompt.
type echoGenerator struct {
	prompt string
	err    error
}

func (g *echoGenerator) Generate(_ context.Context, p string) (string, error) {
	g.prompt = p
	if g.err != nil {
		return "", g.err
	}
	return "SHORT: Easy miles at City Park.\nLONG: All paces welcome, no one left behind.", nil
}

type failingTable struct{ err error }

func (f failingTable) Append(context.Context, []string) error {
	return f.err
}

func (f failingTable) Rows(context.Context) ([][]string, error) {
	return nil, f.err
}

type fixture struct {
	mux    *http.ServeMux
	gen    *echoGenerator
	events *repository.MemoryTable
	rsvps  *repository.MemoryTable
}

func newFixture(tables ...repository.Table) *fixture {
	f := &fixture{
		gen:    &echoGenerator{},
		events: repository.NewMemoryTable(record.EventHeader),
		rsvps:  repository.NewMemoryTable(record.RSVPHeader),
	}
	var events, rsvps repository.Table = f.events, f.rsvps
	if len(tables) == 2 {
		events, rsvps = tables[0], tables[1]
	}
	svc := service.New(
		service.WithStore(repository.NewStore(events, rsvps)),
		service.WithGenerator(f.gen),
		service.WithRSVPBaseURL("https://club.example.com"),
	)
	f.mux = http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), f.mux)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]interface{} {
	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

const saturdayRun = `{"eventTitle":"Saturday Long Run","eventDate":"2024-06-01","eventTime":"07:00",` +
	`"location":"City Park","paceRange":"11:00/mi","distance":"5mi","vibe":"chill"}`

func TestCORSAndMethods(t *testing.T) {
	Convey("Given the registered API", t, func() {
		f := newFixture()
		routes := map[string]string{
			"/api/create-event":        http.MethodPost,
			"/api/get-event":           http.MethodGet,
			"/api/submit-rsvp":         http.MethodPost,
			"/api/generate-invitation": http.MethodPost,
		}

		Convey("When a preflight request is sent to each route", func() {
			for path, verb := range routes {
				w := f.do(http.MethodOptions, path, "")

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldEqual, 0)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldEqual, verb+", OPTIONS")
				So(w.Header().Get("Access-Control-Allow-Headers"), ShouldEqual, "Content-Type")
			}
		})

		Convey("When a route is called with the wrong verb", func() {
			w := f.do(http.MethodGet, "/api/create-event", "")

			Convey("Then 405 is returned with CORS headers", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(decode(w)["error"], ShouldEqual, "Method not allowed")
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})

		Convey("When DELETE hits get-event", func() {
			w := f.do(http.MethodDelete, "/api/get-event?id=evt_x", "")

			Convey("Then 405 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestCreateEvent(t *testing.T) {
	Convey("Given the registered API", t, func() {
		f := newFixture()

		Convey("When an easy-paced event is created", func() {
			w := f.do(http.MethodPost, "/api/create-event", saturdayRun)
			body := decode(w)

			Convey("Then the response carries id, copy, link and category", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				id, _ := body["eventId"].(string)
				So(idPattern.MatchString(id), ShouldBeTrue)
				So(body["content"], ShouldContainSubstring, "SHORT:")
				So(body["content"], ShouldContainSubstring, "LONG:")
				So(body["rsvpLink"], ShouldContainSubstring, "event="+id)
				So(body["rsvpLink"], ShouldStartWith, "https://club.example.com/rsvp.html?")
				So(body["paceCategory"], ShouldEqual, "EASY")
			})

			Convey("Then the prompt sent to the model uses easy guidance", func() {
				So(f.gen.prompt, ShouldContainSubstring, "beginner")
			})

			Convey("Then get-event returns all nine stored fields", func() {
				id := body["eventId"].(string)
				g := f.do(http.MethodGet, "/api/get-event?id="+id, "")
				e := decode(g)
				So(g.Code, ShouldEqual, http.StatusOK)
				So(e["eventId"], ShouldEqual, id)
				So(e["eventTitle"], ShouldEqual, "Saturday Long Run")
				So(e["distance"], ShouldEqual, "5mi")
				So(e["vibe"], ShouldEqual, "chill")
				So(e["createdAt"], ShouldNotBeEmpty)
				So(len(e), ShouldEqual, record.EventColumns)
			})
		})

		Convey("When optional fields are omitted", func() {
			w := f.do(http.MethodPost, "/api/create-event",
				`{"eventTitle":"Tempo","eventDate":"2024-06-02","eventTime":"06:00","location":"Track","paceRange":"6:45/mi"}`)
			id := decode(w)["eventId"].(string)
			e := decode(f.do(http.MethodGet, "/api/get-event?id="+id, ""))

			Convey("Then the stored row shows the sentinels", func() {
				So(decode(w)["paceCategory"], ShouldEqual, "FAST")
				So(e["distance"], ShouldEqual, model.DefaultDistance)
				So(e["vibe"], ShouldEqual, model.DefaultVibe)
			})
		})

		Convey("When a required field is missing", func() {
			w := f.do(http.MethodPost, "/api/create-event", `{"eventTitle":"Run"}`)

			Convey("Then 400 names the field and nothing is stored", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldEqual, "eventDate is required")
				So(f.events.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the body is not JSON", func() {
			w := f.do(http.MethodPost, "/api/create-event", `{not json`)

			Convey("Then 400 is returned without the op prefix", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldStartWith, "invalid JSON body")
			})
		})

		Convey("When the model call fails", func() {
			f.gen.err = errors.New("Claude API error: 529")
			w := f.do(http.MethodPost, "/api/create-event", saturdayRun)

			Convey("Then 500 surfaces the upstream message and the row stays", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "Failed to create event")
				So(decode(w)["details"], ShouldEqual, "Claude API error: 529")
				So(f.events.Len(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a table that rejects appends", t, func() {
		bad := failingTable{err: errors.New("The caller does not have permission")}
		f := newFixture(bad, bad)

		Convey("When an event is created", func() {
			w := f.do(http.MethodPost, "/api/create-event", saturdayRun)

			Convey("Then 500 carries the table message and the model is not called", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["details"], ShouldEqual, "The caller does not have permission")
				So(f.gen.prompt, ShouldBeEmpty)
			})
		})

		Convey("When an event is fetched", func() {
			w := f.do(http.MethodGet, "/api/get-event?id=evt_a", "")

			Convey("Then 500 reports the fetch failure", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "Failed to fetch event")
			})
		})

		Convey("When an RSVP is submitted", func() {
			w := f.do(http.MethodPost, "/api/submit-rsvp", `{"name":"Ana","email":"a@b.c"}`)

			Convey("Then 500 reports the RSVP failure", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "Failed to submit RSVP")
				So(decode(w)["details"], ShouldEqual, "The caller does not have permission")
			})
		})
	})
}

func TestGetEvent(t *testing.T) {
	Convey("Given the registered API", t, func() {
		f := newFixture()

		Convey("When no id is given", func() {
			w := f.do(http.MethodGet, "/api/get-event", "")

			Convey("Then 400 asks for the id", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldEqual, "Event ID required")
			})
		})

		Convey("When the table is empty", func() {
			w := f.do(http.MethodGet, "/api/get-event?id=evt_nope", "")

			Convey("Then 404 reports no events", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["error"], ShouldEqual, "No events found")
			})
		})

		Convey("When the id is unknown", func() {
			f.do(http.MethodPost, "/api/create-event", saturdayRun)
			w := f.do(http.MethodGet, "/api/get-event?id=evt_nope", "")

			Convey("Then 404 reports the event missing", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["error"], ShouldEqual, "Event not found")
			})
		})
	})
}

func TestSubmitRSVP(t *testing.T) {
	Convey("Given the registered API", t, func() {
		f := newFixture()

		Convey("When a full RSVP is submitted", func() {
			w := f.do(http.MethodPost, "/api/submit-rsvp",
				`{"eventId":"evt_a","eventTitle":"Run","name":"Ana","email":"ana@example.com",`+
					`"pace":"9:00","experience":"regular","timestamp":"2024-05-21T10:00:00.000Z"}`)

			Convey("Then it is acknowledged and stored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["success"], ShouldEqual, true)
				So(decode(w)["message"], ShouldEqual, "RSVP submitted successfully")
				So(f.rsvps.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the event reference is missing", func() {
			f.do(http.MethodPost, "/api/submit-rsvp", `{"name":"Ana","email":"ana@example.com"}`)
			rows, _ := f.rsvps.Rows(context.Background())

			Convey("Then the row defaults it to N/A", func() {
				So(rows[1][0], ShouldEqual, "N/A")
				So(rows[1][1], ShouldEqual, "N/A")
			})
		})

		Convey("When the name is missing", func() {
			w := f.do(http.MethodPost, "/api/submit-rsvp", `{"email":"ana@example.com"}`)

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldEqual, "name is required")
				So(f.rsvps.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the body is empty", func() {
			w := f.do(http.MethodPost, "/api/submit-rsvp", "")

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldEqual, "request body is empty")
			})
		})
	})
}

func TestGenerateInvitation(t *testing.T) {
	Convey("Given the registered API", t, func() {
		f := newFixture()

		Convey("When an invitation is requested", func() {
			w := f.do(http.MethodPost, "/api/generate-invitation", saturdayRun)

			Convey("Then only content is returned and nothing is stored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["content"], ShouldStartWith, "SHORT:")
				So(len(decode(w)), ShouldEqual, 1)
				So(f.gen.prompt, ShouldNotContainSubstring, "PACE GUIDANCE")
				So(f.events.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the title is missing", func() {
			w := f.do(http.MethodPost, "/api/generate-invitation", `{"eventDate":"d","eventTime":"t","location":"l"}`)

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldContainSubstring, "eventTitle")
			})
		})

		Convey("When the model call fails", func() {
			f.gen.err = errors.New("overloaded")
			w := f.do(http.MethodPost, "/api/generate-invitation", saturdayRun)

			Convey("Then 500 reports the generation failure", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "Failed to generate invitation")
				So(decode(w)["details"], ShouldEqual, "overloaded")
			})
		})
	})
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given the registered API", t, func() {
		f := newFixture()

		Convey("When /healthz is requested", func() {
			w := f.do(http.MethodGet, "/healthz", "")

			Convey("Then it reports ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["status"], ShouldEqual, "ok")
			})
		})

		Convey("When /metrics is requested after traffic", func() {
			f.do(http.MethodGet, "/api/get-event", "")
			w := f.do(http.MethodGet, "/metrics", "")

			Convey("Then request counters are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "runclub_events_http_requests_total")
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the op-tagging helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then kinds and causes are both matchable", func() {
			err := api.WrapKind("api.x", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.x: bad request: boom")
		})

		Convey("Then nil stays nil", func() {
			So(api.Wrap("api.x", nil), ShouldBeNil)
			So(api.WrapKind("api.x", api.ErrUpstream, nil), ShouldBeNil)
		})

		Convey("Then bare kinds render with the op", func() {
			So(api.NewKind("api.x", api.ErrNotFound).Error(), ShouldEqual, "api.x: not found")
			So(api.Wrap("api.x", cause).Error(), ShouldEqual, "api.x: boom")
		})
	})
}
