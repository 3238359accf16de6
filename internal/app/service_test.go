package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/babynames/internal/adapters/repository"
	"github.com/okian/babynames/internal/adapters/source"
	service "github.com/okian/babynames/internal/app"
	"github.com/okian/babynames/internal/domain/archive"
	"github.com/okian/babynames/internal/domain/archive/archivetest"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
	"github.com/okian/babynames/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// stubSource serves fixed bytes or a fixed error.
type stubSource struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (s *stubSource) Fetch(context.Context) ([]byte, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubSource) Location() string { return "stub://names.zip" }

func startSample(ctx context.Context, opts ...service.Option) *service.Service {
	opts = append([]service.Option{service.WithSource(&stubSource{data: archivetest.Sample()})}, opts...)
	svc := service.New(opts...)
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Defaults(), ShouldResemble, dashboard.StandardDefaults())
		})
	})

	Convey("Given a new service with custom options", t, func() {
		d := dashboard.StandardDefaults()
		d.Year = 1999
		svc := service.New(
			service.WithDefaults(d),
			service.WithQueryCacheSize(16),
			service.WithMaxTopK(5),
			service.WithMaxPreview(2),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Defaults().Year, ShouldEqual, 1999)
			So(svc.GetStats()["maxTopK"], ShouldEqual, 5)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service with a valid archive", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		src := &stubSource{data: archivetest.Scenario()}
		svc := service.New(service.WithSource(src))
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, 3)
				So(stats["firstYear"], ShouldEqual, 1900)
				So(stats["lastYear"], ShouldEqual, 1901)
				So(stats["source"], ShouldEqual, "stub://names.zip")
			})

			Convey("And starting again should not refetch", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(src.calls.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service whose fetch fails", t, func() {
		svc := service.New(service.WithSource(&stubSource{err: fmt.Errorf("%w: boom", source.ErrFetch)}))

		Convey("Then Start should return the fetch failure and stay stopped", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)

			_, err = svc.NameSeries(context.Background(), "Mary")
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
		})
	})

	Convey("Given a service whose archive has a bad filename", t, func() {
		data := archivetest.Build(archivetest.File{Name: "names1900.txt", Body: "Mary,F,1\n"})
		svc := service.New(service.WithSource(&stubSource{data: data}))

		Convey("Then Start should fail with MalformedFilename", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, archive.ErrMalformedFilename), ShouldBeTrue)
		})
	})

	Convey("Given a service without a source", t, func() {
		svc := service.New()

		Convey("Then Start should fail", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoSource), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startSample(context.Background())

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping twice should be harmless", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service over the sample archive", t, func() {
		ctx := context.Background()
		svc := startSample(ctx, service.WithMaxTopK(3), service.WithMaxPreview(4))
		defer svc.Stop()

		Convey("When asking for a name", func() {
			view, err := svc.NameSeries(ctx, "Jacob")

			Convey("Then every year should be returned with a chart", func() {
				So(err, ShouldBeNil)
				So(len(view.Series.Rows), ShouldEqual, 3)
				So(len(view.Chart.Series), ShouldEqual, 1)
				So(view.Chart.Series[0].Name, ShouldEqual, "Male")
			})
		})

		Convey("When asking for an absent name", func() {
			view, err := svc.NameSeries(ctx, "Nobody")

			Convey("Then the result should be empty without error", func() {
				So(err, ShouldBeNil)
				So(view.Series.Empty(), ShouldBeTrue)
			})
		})

		Convey("When asking for a year without k", func() {
			view, err := svc.YearSummary(ctx, 2000, 0, "")

			Convey("Then the default depth should be capped at the maximum", func() {
				So(err, ShouldBeNil)
				So(view.Summary.K, ShouldEqual, 3)
				So(len(view.Summary.Top), ShouldEqual, 3)
				So(view.Summary.Top[0].Name, ShouldEqual, "Jacob")
			})
		})

		Convey("When asking for a negative depth", func() {
			_, err := svc.YearSummary(ctx, 2000, -5, "")

			Convey("Then ErrInvalidLimit should be returned", func() {
				So(errors.Is(err, query.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When asking for a negative one-hit-wonder preview", func() {
			_, err := svc.OneHitWonders(ctx, -1)

			Convey("Then ErrInvalidLimit should be returned", func() {
				So(errors.Is(err, query.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When rendering the dashboard with negative limits", func() {
			_, kErr := svc.Dashboard(ctx, dashboard.Params{TopK: -5})
			_, previewErr := svc.Dashboard(ctx, dashboard.Params{Preview: -2})

			Convey("Then both should be rejected", func() {
				So(errors.Is(kErr, query.ErrInvalidLimit), ShouldBeTrue)
				So(errors.Is(previewErr, query.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When asking for one sex of a year", func() {
			view, err := svc.YearSummary(ctx, 2001, 10, model.Male)

			Convey("Then only that sex should be ranked", func() {
				So(err, ShouldBeNil)
				So(len(view.Summary.Top), ShouldEqual, 2)
				So(view.Summary.Top[1].Name, ShouldEqual, "Octavian")
			})
		})

		Convey("When asking for one-hit wonders", func() {
			page, err := svc.OneHitWonders(ctx, 0)

			Convey("Then the preview should be capped", func() {
				So(err, ShouldBeNil)
				So(page.Total, ShouldEqual, 5)
				So(len(page.Rows), ShouldEqual, 4)
			})
		})

		Convey("When filtering a reversed range", func() {
			_, err := svc.Filter(ctx, model.Female, 2001, 1999)

			Convey("Then ErrInvalidRange should be returned", func() {
				So(errors.Is(err, query.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When filtering a valid range", func() {
			summary, err := svc.Filter(ctx, model.Male, 1999, 2001)

			Convey("Then the distinct names should be counted", func() {
				So(err, ShouldBeNil)
				So(summary.UniqueNames, ShouldEqual, 4)
			})
		})

		Convey("When rendering the dashboard with defaults", func() {
			res, err := svc.Dashboard(ctx, dashboard.Params{Name: "Anna"})

			Convey("Then the defaults should be applied", func() {
				So(err, ShouldBeNil)
				So(res.Params.Year, ShouldEqual, 2000)
				So(res.Params.Sex, ShouldEqual, model.Female)
				So(res.Params.TopK, ShouldEqual, 3)
				So(len(res.Name.Series.Rows), ShouldEqual, 3)
				So(len(res.OneHitWonders.Rows), ShouldEqual, 4)
			})
		})

		Convey("When repeating a query", func() {
			first, err := svc.NameSeries(ctx, "Emily")
			So(err, ShouldBeNil)
			second, err := svc.NameSeries(ctx, "Emily")
			So(err, ShouldBeNil)

			Convey("Then the cached result should be returned", func() {
				So(second, ShouldResemble, first)
				So(svc.GetStats()["queryCacheEntries"], ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats, ShouldNotContainKey, "records")
			})
		})
	})
}
