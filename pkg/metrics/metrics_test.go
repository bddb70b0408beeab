package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then the defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "runclub")
				So(manager.subsystem, ShouldEqual, "events")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.eventsCreated.Inc()

			Convey("Then metric names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "test_sub_"), ShouldBeTrue)
					if f.GetName() == "test_sub_created_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "runclub")
				So(manager.subsystem, ShouldEqual, "events")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording business metrics", func() {
			before := testutil.ToFloat64(globalManager.eventsCreated)
			RecordEventCreated()
			RecordRSVPSubmitted()
			RecordInvitationGenerated("FAST", "pace_aware")
			RecordNotification(OutcomeOK)

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.eventsCreated), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.invitationsGenerated.WithLabelValues("FAST", "pace_aware")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.notificationsSent.WithLabelValues(OutcomeOK)), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording upstream calls", func() {
			okBefore := testutil.ToFloat64(globalManager.upstreamCalls.WithLabelValues("sheets", "append", OutcomeOK))
			errBefore := testutil.ToFloat64(globalManager.upstreamCalls.WithLabelValues("sheets", "append", OutcomeError))
			RecordUpstreamCall("sheets", "append", nil, 12)
			RecordUpstreamCall("sheets", "append", errors.New("boom"), 40)

			Convey("Then the outcome label reflects the error", func() {
				So(testutil.ToFloat64(globalManager.upstreamCalls.WithLabelValues("sheets", "append", OutcomeOK)), ShouldEqual, okBefore+1)
				So(testutil.ToFloat64(globalManager.upstreamCalls.WithLabelValues("sheets", "append", OutcomeError)), ShouldEqual, errBefore+1)
			})
		})

		Convey("When the notification queue moves", func() {
			dropped := testutil.ToFloat64(globalManager.notifyQueueDropped.WithLabelValues("full"))
			UpdateNotifyQueueSize(3)
			RecordNotifyQueueDrop("full")

			Convey("Then the gauge and drop counter follow", func() {
				So(testutil.ToFloat64(globalManager.notifyQueueSize), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.notifyQueueDropped.WithLabelValues("full")), ShouldEqual, dropped+1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordHTTPRequest("/api/get-event", "GET", "200")
					RecordHTTPRequestDuration("/api/get-event", "GET", "200", 3.5)
					RecordErrorByType("upstream", "error")
					RecordErrorByEndpoint("/api/get-event", "GET", "not_found")
					RecordErrorLatency("api", "not_found", 1.2)
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(8)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the exported registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then runclub metrics are present", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "runclub_events_"), ShouldBeTrue)
				}
			})
		})
	})
}
