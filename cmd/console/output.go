package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/viewmodel"
)

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printKV(w io.Writer, rows [][2]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	_ = tw.Flush()
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "no results")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func refName(r *domain.EntityRef) string {
	if r == nil {
		return "-"
	}
	if r.Name != "" {
		return r.Name
	}
	return "#" + id(r.ID)
}

func printTools(w io.Writer, tools []domain.Tool) {
	rows := make([][]string, 0, len(tools))
	for _, t := range tools {
		rows = append(rows, []string{
			id(t.ID),
			t.Identifier,
			t.Name,
			t.Category,
			t.ReplacementCost.String(),
			t.Price.String(),
			strconv.Itoa(t.Stock),
			t.CurrentState.Label(),
		})
	}
	printTable(w, []string{"ID", "IDENTIFIER", "NAME", "CATEGORY", "REPLACEMENT_COST", "PRICE", "STOCK", "STATE"}, rows)
}

func printClients(w io.Writer, clients []domain.Client) {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{id(c.ID), c.Name, c.CurrentState.Label()})
	}
	printTable(w, []string{"ID", "NAME", "STATE"}, rows)
}

func printLoans(w io.Writer, loans []domain.Loan) {
	rows := make([]viewmodel.LoanRow, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, viewmodel.LoanRow{Loan: l})
	}
	printLoanRows(w, rows, false)
}

func printLoanRows(w io.Writer, loans []viewmodel.LoanRow, withActions bool) {
	headers := []string{"ID", "CLIENT", "TOOL", "DELIVERY", "RETURN", "DAMAGED", "DAILY_FINE", "TOTAL_FINE", "STATE"}
	if withActions {
		headers = append(headers, "ACTIONS")
	}
	rows := make([][]string, 0, len(loans))
	for _, r := range loans {
		l := r.Loan
		fine := "-"
		if l.TotalFine != nil {
			fine = l.TotalFine.String()
		}
		row := []string{
			id(l.ID),
			refName(&l.Client),
			refName(&l.Tool),
			orDash(l.DeliveryDate.String()),
			orDash(l.ReturnDate.String()),
			strconv.FormatBool(l.Damaged),
			l.DailyFineRate.String(),
			fine,
			l.CurrentState.String(),
		}
		if withActions {
			row = append(row, actionLabels(r.Actions))
		}
		rows = append(rows, row)
	}
	printTable(w, headers, rows)
}

func actionLabels(a viewmodel.LoanActions) string {
	var out []string
	if a.Return {
		out = append(out, "return")
	}
	if a.PayFine {
		out = append(out, "pay-fine")
	}
	return orDash(strings.Join(out, ","))
}

func printKardex(w io.Writer, entries []domain.KardexEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			id(e.ID),
			orDash(e.MovementDate.String()),
			refName(&e.Tool),
			e.Type.Name,
			strconv.Itoa(e.Quantity),
			refName(e.Client),
			refName(e.Loan),
		})
	}
	printTable(w, []string{"ID", "DATE", "TOOL", "TYPE", "QUANTITY", "CLIENT", "LOAN"}, rows)
}

func printRanking(w io.Writer, rows []domain.RankingRow) {
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		out = append(out, []string{strconv.Itoa(i + 1), r.ToolName, id(r.TotalLoans)})
	}
	printTable(w, []string{"#", "TOOL", "LOANS"}, out)
}

func printSection(w io.Writer, title, filter, errMsg string) {
	_, _ = fmt.Fprintf(w, "\n== %s", title)
	if filter != "" {
		_, _ = fmt.Fprintf(w, " %s", filter)
	}
	_, _ = fmt.Fprintln(w, " ==")
	if errMsg != "" {
		_, _ = fmt.Fprintln(w, "error:", errMsg)
	}
}
