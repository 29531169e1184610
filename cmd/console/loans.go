package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"toolrental-console/internal/viewmodel"
)

func loansCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "loans",
		Usage: "Loan lifecycle",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Refresh overdue statuses and list loans with their available actions",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return a.withLoanList(ctx, c, func(context.Context, *viewmodel.LoanList) error { return nil })
				},
			},
			{
				Name:  "filter",
				Usage: "List loans delivered within a date range",
				Flags: append(rangeFlags(), jsonFlag()),
				Action: func(ctx context.Context, c *cli.Command) error {
					r, err := parseRange(c)
					if err != nil {
						return err
					}
					return a.withLoanList(ctx, c, func(ctx context.Context, vm *viewmodel.LoanList) error {
						return vm.Filter(ctx, r)
					})
				},
			},
			{
				Name:  "add",
				Usage: "Register a loan",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "client", Required: true, Usage: "active client id"},
					&cli.Int64Flag{Name: "tool", Required: true, Usage: "available tool id"},
					&cli.StringFlag{Name: "delivery", Required: true, Usage: "delivery date, yyyy-mm-dd"},
					&cli.StringFlag{Name: "return", Required: true, Usage: "agreed return date, yyyy-mm-dd"},
					&cli.StringFlag{Name: "daily-fine", Usage: "daily fine rate, defaults to the configured rate"},
					jsonFlag(),
				},
				Action: a.addLoan,
			},
			{
				Name:  "return",
				Usage: "Return a loaned tool",
				Flags: []cli.Flag{
					idFlag(),
					&cli.BoolFlag{Name: "damaged", Usage: "the tool came back damaged"},
					jsonFlag(),
				},
				Action: a.returnLoan,
			},
			{
				Name:  "pay-fine",
				Usage: "Settle the fine of a returned loan",
				Flags: []cli.Flag{idFlag(), jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return a.withLoanList(ctx, c, func(ctx context.Context, vm *viewmodel.LoanList) error {
						return vm.PayFine(ctx, c.Int64("id"))
					})
				},
			},
			{
				Name:  "overdue-refresh",
				Usage: "Ask the backend to flag loans past their return date",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := a.gw.Loans.MarkOverdueLoans(ctx); err != nil {
						return err
					}
					_, err := fmt.Fprintln(a.out, "overdue statuses refreshed")
					return err
				},
			},
		},
	}
}

// withLoanList mounts the loan list, runs step and prints the resulting rows
func (a *app) withLoanList(ctx context.Context, c *cli.Command, step func(context.Context, *viewmodel.LoanList) error) error {
	vm := viewmodel.NewLoanList(a.gw.Loans, a.navigator(), a.policy)
	defer vm.Unmount()
	if err := vm.Mount(ctx); err != nil {
		return failure(vm.State().Error, err)
	}
	if err := step(ctx, vm); err != nil {
		return failure(vm.State().Error, err)
	}

	st := vm.State()
	if c.Bool("json") {
		return printJSON(a.out, st.Rows)
	}
	if !st.Filter.IsUnbounded() {
		_, _ = fmt.Fprintln(a.out, "delivery", st.Filter.String())
	}
	printLoanRows(a.out, st.Rows, true)
	return nil
}

func (a *app) addLoan(ctx context.Context, c *cli.Command) error {
	form := viewmodel.NewLoanForm(a.gw, a.navigator(), a.cfg.Console.DefaultDailyFineRate)
	defer form.Unmount()
	if err := form.Mount(ctx, 0); err != nil {
		return failure(form.State().Error, err)
	}

	steps := []func() error{
		func() error { return form.SetClient(c.Int64("client")) },
		func() error { return form.SetTool(c.Int64("tool")) },
		func() error { return form.SetDeliveryDate(c.String("delivery")) },
		func() error { return form.SetReturnDate(c.String("return")) },
	}
	if c.IsSet("daily-fine") {
		steps = append(steps, func() error { return form.SetDailyFineRate(c.String("daily-fine")) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	if err := form.Submit(ctx); err != nil {
		return failure(form.State().Error, err)
	}
	return a.printLoans(ctx, c)
}

func (a *app) returnLoan(ctx context.Context, c *cli.Command) error {
	form := viewmodel.NewLoanForm(a.gw, a.navigator(), a.cfg.Console.DefaultDailyFineRate)
	defer form.Unmount()
	if err := form.Mount(ctx, c.Int64("id")); err != nil {
		return failure(form.State().Error, err)
	}
	form.SetDamaged(c.Bool("damaged"))
	if err := form.Submit(ctx); err != nil {
		return failure(form.State().Error, err)
	}
	return a.printLoans(ctx, c)
}

func (a *app) printLoans(ctx context.Context, c *cli.Command) error {
	loans, err := a.gw.Loans.List(ctx)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(a.out, loans)
	}
	printLoans(a.out, loans)
	return nil
}
