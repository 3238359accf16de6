package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/babynames/internal/domain/query"
)

func newNameCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "name NAME",
		Short: "Show every year and sex a name was recorded under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := open(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			view, err := svc.NameSeries(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if view.Series.Empty() {
				fmt.Fprintf(out, "no records for %q\n", args[0])
				return nil
			}

			t := newTable(5).Headers("YEAR", "SEX", "COUNT", "PCT", "YEAR SHARE")
			for _, r := range view.Series.Rows {
				t.Row(strconv.Itoa(r.Year), string(r.Sex), humanize.Comma(r.Count), pct(r.Pct), pct(r.YearShare))
			}
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "%s: %s births across %d records\n", view.Series.Name, humanize.Comma(view.Series.Total), len(view.Series.Rows))
			return nil
		},
	}
}

func newYearCommand(g *globalFlags) *cobra.Command {
	var (
		top int
		sex string
	)
	cmd := &cobra.Command{
		Use:   "year YEAR",
		Short: "Rank the most popular names of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q: %w", args[0], err)
			}
			if top < 0 {
				return fmt.Errorf("%w: top=%d", query.ErrInvalidLimit, top)
			}
			s, err := query.ParseSexSelector(sex)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := open(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			view, err := svc.YearSummary(ctx, year, top, s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sum := view.Summary
			if sum.Empty() {
				fmt.Fprintf(out, "no records for %d\n", year)
				return nil
			}

			fmt.Fprintf(out, "Top %d names of %d (%s)\n", sum.K, sum.Year, sexLabel(sum.Sex))
			ranking := newTable(5).Headers("RANK", "NAME", "SEX", "COUNT", "PCT")
			for _, r := range sum.Top {
				ranking.Row(strconv.Itoa(r.Rank), r.Name, string(r.Sex), humanize.Comma(r.Count), pct(r.Pct))
			}
			fmt.Fprintln(out, ranking.Render())
			fmt.Fprintln(out)

			unique := newTable(4).Headers("SEX", "DISTINCT", "BIRTHS", "TOP NAME")
			for _, u := range sum.Unique {
				unique.Row(u.Sex.Label(), humanize.Comma(int64(u.DistinctNames)), humanize.Comma(u.TotalCount),
					fmt.Sprintf("%s (%s)", u.TopName, humanize.Comma(u.TopCount)))
			}
			fmt.Fprintln(out, unique.Render())
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of names to rank (defaults to default_top_k)")
	cmd.Flags().StringVar(&sex, "sex", "", "restrict to F or M")
	return cmd
}

func newOHWCommand(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ohw",
		Short: "List names that appear in exactly one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("%w: limit=%d", query.ErrInvalidLimit, limit)
			}

			ctx := cmd.Context()
			svc, err := open(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			page, err := svc.OneHitWonders(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s one-hit wonders across %s name/sex pairs\n", humanize.Comma(int64(page.Total)), humanize.Comma(int64(page.Pairs)))
			if len(page.Rows) == 0 {
				return nil
			}
			t := newTable(4).Headers("NAME", "SEX", "YEAR", "COUNT")
			for _, r := range page.Rows {
				t.Row(r.Name, string(r.Sex), strconv.Itoa(r.Year), humanize.Comma(r.Count))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of rows to print (defaults to one_hit_wonder_preview)")
	return cmd
}

func newFilterCommand(g *globalFlags) *cobra.Command {
	var (
		sex      string
		from, to int
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Count distinct names and births of one sex over a year range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := query.ParseSexSelector(sex)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := open(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			d := svc.Defaults()
			if s == "" {
				s = d.Sex
			}
			if !cmd.Flags().Changed("from") {
				from = d.From
			}
			if !cmd.Flags().Changed("to") {
				to = d.To
			}

			sum, err := svc.Filter(ctx, s, from, to)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s names %d-%d\n", sum.Sex.Label(), sum.From, sum.To)
			t := newTable(2).
				Row("unique names", humanize.Comma(int64(sum.UniqueNames))).
				Row("births", humanize.Comma(sum.TotalCount)).
				Row("records", humanize.Comma(int64(sum.Records)))
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&sex, "sex", "", "F or M (defaults to default_sex)")
	cmd.Flags().IntVar(&from, "from", 0, "first year, inclusive (defaults to default_range_from)")
	cmd.Flags().IntVar(&to, "to", 0, "last year, inclusive (defaults to default_range_to)")
	return cmd
}
