package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/babynames/internal/adapters/http/api"
	"github.com/okian/babynames/internal/adapters/repository"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// mockDependencies records the last call and returns canned answers.
type mockDependencies struct {
	err error

	gotName   string
	gotYear   int
	gotK      int
	gotSex    model.Sex
	gotLimit  int
	gotFrom   int
	gotTo     int
	gotParams dashboard.Params
}

func (m *mockDependencies) Defaults() dashboard.Defaults { return dashboard.StandardDefaults() }

func (m *mockDependencies) NameSeries(_ context.Context, name string) (dashboard.NameView, error) {
	m.gotName = name
	if m.err != nil {
		return dashboard.NameView{}, m.err
	}
	return dashboard.NameView{Series: query.NameSeries{Name: name, Rows: []query.NameRow{}}}, nil
}

func (m *mockDependencies) YearSummary(_ context.Context, year, k int, sex model.Sex) (dashboard.YearView, error) {
	m.gotYear, m.gotK, m.gotSex = year, k, sex
	if m.err != nil {
		return dashboard.YearView{}, m.err
	}
	return dashboard.YearView{Summary: query.YearSummary{Year: year, K: k, Sex: sex}}, nil
}

func (m *mockDependencies) OneHitWonders(_ context.Context, limit int) (query.OneHitWonderPage, error) {
	m.gotLimit = limit
	if m.err != nil {
		return query.OneHitWonderPage{}, m.err
	}
	return query.OneHitWonderPage{Total: 7, Pairs: 6, Rows: []model.Record{{Name: "John", Sex: model.Male, Count: 80, Year: 1901}}}, nil
}

func (m *mockDependencies) Filter(_ context.Context, sex model.Sex, from, to int) (query.FilterSummary, error) {
	m.gotSex, m.gotFrom, m.gotTo = sex, from, to
	if m.err != nil {
		return query.FilterSummary{}, m.err
	}
	return query.FilterSummary{Sex: sex, From: from, To: to, UniqueNames: 3}, nil
}

func (m *mockDependencies) Dashboard(_ context.Context, p dashboard.Params) (dashboard.Result, error) {
	m.gotParams = p
	if m.err != nil {
		return dashboard.Result{}, m.err
	}
	return dashboard.Result{Params: p}, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestRouter(deps *mockDependencies) http.Handler {
	r := api.NewRouter()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).Register(r)
	return r
}

func do(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		router := newTestRouter(deps)

		Convey("Then health endpoint should be accessible", func() {
			w := do(router, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("Then metrics endpoint should expose the registry", func() {
			w := do(router, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "babynames_dashboard_")
		})

		Convey("Then stats endpoint should be accessible", func() {
			w := do(router, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
		})

		Convey("Then unknown paths should be 404", func() {
			So(do(router, "/unknown").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then write methods should not be allowed", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader("{}")))
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestNamesHandler(t *testing.T) {
	Convey("Given the names endpoint", t, func() {
		deps := &mockDependencies{}
		router := newTestRouter(deps)

		Convey("When asking for a name", func() {
			w := do(router, "/api/names/Mary")

			Convey("Then the name should reach the service verbatim", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotName, ShouldEqual, "Mary")
				So(w.Body.String(), ShouldContainSubstring, `"rows":[]`)
			})
		})

		Convey("When the snapshot is not loaded", func() {
			deps.err = repository.ErrNotLoaded
			w := do(router, "/api/names/Mary")

			Convey("Then the response should be 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "not_loaded")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("boom")
			w := do(router, "/api/names/Mary")

			Convey("Then the response should be 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["message"], ShouldContainSubstring, "boom")
			})
		})
	})
}

func TestYearsHandler(t *testing.T) {
	Convey("Given the years endpoint", t, func() {
		deps := &mockDependencies{}
		router := newTestRouter(deps)

		Convey("When all parameters are given", func() {
			w := do(router, "/api/years/1901?k=5&sex=male")

			Convey("Then they should be parsed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotYear, ShouldEqual, 1901)
				So(deps.gotK, ShouldEqual, 5)
				So(deps.gotSex, ShouldEqual, model.Male)
			})
		})

		Convey("When only the year is given", func() {
			w := do(router, "/api/years/2000")

			Convey("Then k and sex should be left for the service to default", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotK, ShouldEqual, 0)
				So(deps.gotSex, ShouldEqual, model.Sex(""))
			})
		})

		Convey("When the year is not a number", func() {
			w := do(router, "/api/years/abc")

			Convey("Then the response should be 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When k is not a number", func() {
			So(do(router, "/api/years/2000?k=ten").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the sex is unknown", func() {
			w := do(router, "/api/years/2000?sex=X")

			Convey("Then the response should be 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "invalid sex")
			})
		})

		Convey("When k is negative", func() {
			w := do(router, "/api/years/2000?k=-5")

			Convey("Then the response should be 400 without calling the service", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "invalid limit")
				So(deps.gotYear, ShouldEqual, 0)
			})
		})

		Convey("When the service rejects the limit", func() {
			deps.err = query.ErrInvalidLimit
			So(do(router, "/api/years/2000").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOneHitWondersHandler(t *testing.T) {
	Convey("Given the one-hit-wonders endpoint", t, func() {
		deps := &mockDependencies{}
		router := newTestRouter(deps)

		Convey("When a limit is given", func() {
			w := do(router, "/api/one-hit-wonders?limit=3")

			Convey("Then the page should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotLimit, ShouldEqual, 3)

				var page query.OneHitWonderPage
				So(json.NewDecoder(w.Body).Decode(&page), ShouldBeNil)
				So(page.Total, ShouldEqual, 7)
				So(page.Rows[0].Name, ShouldEqual, "John")
			})
		})

		Convey("When the limit is negative", func() {
			So(do(router, "/api/one-hit-wonders?limit=-1").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFilterHandler(t *testing.T) {
	Convey("Given the filter endpoint", t, func() {
		deps := &mockDependencies{}
		router := newTestRouter(deps)

		Convey("When no parameters are given", func() {
			w := do(router, "/api/filter")

			Convey("Then the defaults should be used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotSex, ShouldEqual, model.Female)
				So(deps.gotFrom, ShouldEqual, 2000)
				So(deps.gotTo, ShouldEqual, 2023)
			})
		})

		Convey("When every parameter is given", func() {
			w := do(router, "/api/filter?sex=M&from=1990&to=1995")

			Convey("Then they should be passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotSex, ShouldEqual, model.Male)
				So(deps.gotFrom, ShouldEqual, 1990)
				So(deps.gotTo, ShouldEqual, 1995)
			})
		})

		Convey("When the range is reversed", func() {
			deps.err = query.ErrInvalidRange
			So(do(router, "/api/filter?from=2001&to=1999").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestDashboardHandler(t *testing.T) {
	Convey("Given the dashboard endpoint", t, func() {
		deps := &mockDependencies{}
		router := newTestRouter(deps)

		Convey("When every widget input is given", func() {
			w := do(router, "/api/dashboard?name=Anna&year=1999&k=5&sex=female&from=1990&to=2001&limit=4")

			Convey("Then the params should be parsed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotParams, ShouldResemble, dashboard.Params{
					Name: "Anna", Year: 1999, TopK: 5, Sex: model.Female, From: 1990, To: 2001, Preview: 4,
				})
			})
		})

		Convey("When a number is malformed", func() {
			So(do(router, "/api/dashboard?from=yesterday").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the preview is negative", func() {
			So(do(router, "/api/dashboard?limit=-2").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When k is negative", func() {
			So(do(router, "/api/dashboard?k=-5").Code, ShouldEqual, http.StatusBadRequest)
			So(deps.gotParams, ShouldResemble, dashboard.Params{})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"records":       1000,
				"oneHitWonders": 150,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["records"], ShouldEqual, 1000)
				So(response["oneHitWonders"], ShouldEqual, 150)
			})
		})
	})
}
