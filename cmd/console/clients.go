package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"toolrental-console/internal/viewmodel"
)

func clientsCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "clients",
		Usage: "Client registry",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List clients",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					vm := viewmodel.NewClientList(a.gw.Clients)
					defer vm.Unmount()
					if err := vm.Mount(ctx); err != nil {
						return failure(vm.State().Error, err)
					}
					if c.Bool("json") {
						return printJSON(a.out, vm.State().Rows)
					}
					printClients(a.out, vm.State().Rows)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Register a client",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "state", Usage: "state id or label, e.g. Activo"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error { return a.saveClient(ctx, c, 0) },
			},
			{
				Name:  "edit",
				Usage: "Edit a client; unset flags keep their current value",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "state"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error { return a.saveClient(ctx, c, c.Int64("id")) },
			},
		},
	}
}

func (a *app) saveClient(ctx context.Context, c *cli.Command, clientID int64) error {
	form := viewmodel.NewClientForm(a.gw.Clients, a.navigator())
	defer form.Unmount()
	if err := form.Mount(ctx, clientID); err != nil {
		return failure(form.State().Error, err)
	}

	if c.IsSet("name") {
		form.SetName(c.String("name"))
	}
	if c.IsSet("state") {
		st, err := parseClientState(c.String("state"))
		if err != nil {
			return err
		}
		form.SetState(st)
	}

	if err := form.Submit(ctx); err != nil {
		return failure(form.State().Error, err)
	}

	clients, err := a.gw.Clients.List(ctx)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(a.out, clients)
	}
	printClients(a.out, clients)
	return nil
}
