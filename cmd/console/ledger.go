package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/viewmodel"
)

func kardexCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "kardex",
		Usage: "Inventory movement ledger",
		Flags: append(rangeFlags(),
			&cli.Int64Flag{Name: "tool-id", Usage: "only movements of this tool"},
			jsonFlag(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			r, err := parseRange(c)
			if err != nil {
				return err
			}
			f := domain.KardexFilter{Range: r}
			if c.IsSet("tool-id") {
				toolID := c.Int64("tool-id")
				f.ToolID = &toolID
			}

			vm := viewmodel.NewKardex(a.gw.Kardex, a.gw.Tools)
			defer vm.Unmount()
			if err := vm.Mount(ctx); err != nil {
				return failure(vm.State().Error, err)
			}
			if !f.IsEmpty() {
				if err := vm.Filter(ctx, f); err != nil {
					return failure(vm.State().Error, err)
				}
			}

			if c.Bool("json") {
				return printJSON(a.out, vm.State().Entries)
			}
			printKardex(a.out, vm.State().Entries)
			return nil
		},
	}
}

type reportJSON struct {
	ActiveLoans    []domain.Loan       `json:"activeLoans"`
	DelayedClients []domain.Client     `json:"delayedClients"`
	Ranking        []domain.RankingRow `json:"ranking"`
	Errors         map[string]string   `json:"errors,omitempty"`
}

func reportsCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "reports",
		Usage: "Active loans, delayed clients and tool ranking",
		Flags: append(rangeFlags(), jsonFlag()),
		Action: func(ctx context.Context, c *cli.Command) error {
			r, err := parseRange(c)
			if err != nil {
				return err
			}

			report := viewmodel.NewReport(a.gw.Loans)
			defer report.Unmount()
			// A failing panel does not hide the others
			loadErr := report.Mount(ctx)
			if !r.IsUnbounded() {
				loadErr = errors.Join(loadErr,
					report.ActiveLoans.Filter(ctx, r),
					report.Ranking.Filter(ctx, r))
			}

			active := report.ActiveLoans.State()
			delayed := report.DelayedClients.State()
			ranking := report.Ranking.State()

			if c.Bool("json") {
				out := reportJSON{
					ActiveLoans:    active.Rows,
					DelayedClients: delayed.Rows,
					Ranking:        ranking.Rows,
					Errors:         map[string]string{},
				}
				for name, msg := range map[string]string{
					report.ActiveLoans.Name():    active.Error,
					report.DelayedClients.Name(): delayed.Error,
					report.Ranking.Name():        ranking.Error,
				} {
					if msg != "" {
						out.Errors[name] = msg
					}
				}
				if err := printJSON(a.out, out); err != nil {
					return err
				}
				return loadErr
			}

			printSection(a.out, "Active loans", rangeLabel(active.Filter), active.Error)
			printLoans(a.out, active.Rows)
			printSection(a.out, "Delayed clients", "", delayed.Error)
			printClients(a.out, delayed.Rows)
			printSection(a.out, "Tool ranking", rangeLabel(ranking.Filter), ranking.Error)
			printRanking(a.out, ranking.Rows)
			return loadErr
		},
	}
}

func rangeLabel(r domain.DateRange) string {
	if r.IsUnbounded() {
		return ""
	}
	return r.String()
}
