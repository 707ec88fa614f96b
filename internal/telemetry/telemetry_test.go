package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/sitepulse/sitepulse/pkg/actions"
)

func TestRecorder(t *testing.T) {
	Convey("Given a fresh recorder", t, func() {
		r := NewRecorder()

		Convey("When a run succeeds", func() {
			r.ObserveRun(250*time.Millisecond, 688, map[string]int{"p1": 250, "p5": 50}, nil)

			Convey("Then the success counter and score gauges are set", func() {
				So(testutil.ToFloat64(r.runs.WithLabelValues(OutcomeSuccess)), ShouldEqual, 1)
				So(testutil.ToFloat64(r.runs.WithLabelValues(OutcomeFailure)), ShouldEqual, 0)
				So(testutil.ToFloat64(r.lastTotal), ShouldEqual, 688)
				So(testutil.ToFloat64(r.pillarScore.WithLabelValues("p5")), ShouldEqual, 50)
			})
		})

		Convey("When a run fails", func() {
			r.ObserveRun(time.Second, 688, nil, nil)
			r.ObserveRun(time.Second, 0, nil, errors.New("boom"))

			Convey("Then the last total is kept from the successful run", func() {
				So(testutil.ToFloat64(r.runs.WithLabelValues(OutcomeFailure)), ShouldEqual, 1)
				So(testutil.ToFloat64(r.lastTotal), ShouldEqual, 688)
			})
		})

		Convey("When actions are generated", func() {
			r.ObserveActions([]actions.Action{
				{Severity: actions.SeverityHigh},
				{Severity: actions.SeverityHigh},
				{Severity: actions.SeverityLow},
			})

			Convey("Then they are counted by severity", func() {
				So(testutil.ToFloat64(r.actionsByLvl.WithLabelValues("high")), ShouldEqual, 2)
				So(testutil.ToFloat64(r.actionsByLvl.WithLabelValues("low")), ShouldEqual, 1)
			})
		})

		Convey("When side effects fail", func() {
			r.ObserveSideEffectError()
			So(testutil.ToFloat64(r.archiveErrors), ShouldEqual, 1)
		})

		Convey("When the handler is scraped", func() {
			r.ObserveRun(time.Second, 700, nil, nil)
			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then it exposes the sitepulse metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(rec.Body.String(), "sitepulse_scoring_last_total_score 700"), ShouldBeTrue)
			})
		})
	})
}
