package dashboard

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/babynames/internal/domain/archive"
	"github.com/okian/babynames/internal/domain/archive/archivetest"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/normalize"
	"github.com/okian/babynames/internal/domain/query"
)

type snapshot struct {
	table *model.Table
	ohw   *query.OneHitWonderSet
}

func (s snapshot) Table() *model.Table                   { return s.table }
func (s snapshot) OneHitWonders() *query.OneHitWonderSet { return s.ohw }

func sampleSnapshot() snapshot {
	res, err := archive.Parse(archivetest.Sample())
	So(err, ShouldBeNil)
	normalize.Apply(res.Records)
	t := model.NewTable(res.Records)
	return snapshot{table: t, ohw: query.OneHitWonders(t)}
}

func TestResolve(t *testing.T) {
	Convey("Given empty params", t, func() {
		p := Params{}.Resolve(StandardDefaults())

		Convey("Then every field should take the default", func() {
			So(p.Year, ShouldEqual, 2000)
			So(p.From, ShouldEqual, 2000)
			So(p.To, ShouldEqual, 2023)
			So(p.Sex, ShouldEqual, model.Female)
			So(p.TopK, ShouldEqual, 10)
			So(p.Preview, ShouldEqual, 10)
		})
	})

	Convey("Given explicit params", t, func() {
		p := Params{Name: "Emily", Year: 1999, TopK: -1, Sex: model.Male}.Resolve(StandardDefaults())

		Convey("Then they should be kept", func() {
			So(p.Name, ShouldEqual, "Emily")
			So(p.Year, ShouldEqual, 1999)
			So(p.TopK, ShouldEqual, -1)
			So(p.Sex, ShouldEqual, model.Male)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given the sample snapshot", t, func() {
		s := sampleSnapshot()

		Convey("When rendering with a name and defaults", func() {
			res, err := Render(s, Params{Name: "Emily", TopK: 2, To: 2001, From: 1999}, StandardDefaults())

			Convey("Then every panel should be filled", func() {
				So(err, ShouldBeNil)
				So(res.Years, ShouldResemble, []int{1999, 2000, 2001})
				So(len(res.Name.Series.Rows), ShouldEqual, 3)
				So(len(res.Name.Chart.Series), ShouldEqual, 1)
				So(res.Year.Summary.Year, ShouldEqual, 2000)
				So(len(res.Year.Summary.Top), ShouldEqual, 2)
				So(res.Year.Summary.Top[0].Name, ShouldEqual, "Emily")
				So(res.Year.Chart.Type, ShouldEqual, "bar")
				So(res.Filter.UniqueNames, ShouldEqual, 4)
				So(res.OneHitWonders.Total, ShouldEqual, 5)
			})
		})

		Convey("When the name is empty", func() {
			res, err := Render(s, Params{}, StandardDefaults())

			Convey("Then the name panel should be empty without error", func() {
				So(err, ShouldBeNil)
				So(res.Name.Series.Empty(), ShouldBeTrue)
				So(res.Name.Chart.Empty(), ShouldBeTrue)
			})
		})

		Convey("When the range is reversed", func() {
			_, err := Render(s, Params{From: 2001, To: 1999}, StandardDefaults())

			Convey("Then ErrInvalidRange should be returned", func() {
				So(errors.Is(err, query.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When the preview is negative", func() {
			_, err := Render(s, Params{Preview: -3}, StandardDefaults())

			Convey("Then ErrInvalidLimit should be returned", func() {
				So(errors.Is(err, query.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})
}
