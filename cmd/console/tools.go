package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/viewmodel"
)

func toolFieldFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "identifier", Required: required, Usage: "inventory identifier (SKU)"},
		&cli.StringFlag{Name: "name", Required: required},
		&cli.StringFlag{Name: "category", Required: required},
		&cli.StringFlag{Name: "replacement-cost", Required: required},
		&cli.StringFlag{Name: "price", Required: required, Usage: "daily rental price"},
		&cli.StringFlag{Name: "stock", Required: required},
		&cli.StringFlag{Name: "state", Usage: "state id or label, e.g. Disponible"},
		jsonFlag(),
	}
}

func toolsCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "Tool inventory",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tools",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					vm := viewmodel.NewToolList(a.gw.Tools)
					defer vm.Unmount()
					if err := vm.Mount(ctx); err != nil {
						return failure(vm.State().Error, err)
					}
					if c.Bool("json") {
						return printJSON(a.out, vm.State().Rows)
					}
					printTools(a.out, vm.State().Rows)
					return nil
				},
			},
			{
				Name:   "add",
				Usage:  "Register a tool",
				Flags:  toolFieldFlags(true),
				Action: func(ctx context.Context, c *cli.Command) error { return a.saveTool(ctx, c, 0) },
			},
			{
				Name:   "edit",
				Usage:  "Edit a tool; unset flags keep their current value",
				Flags:  append([]cli.Flag{idFlag()}, toolFieldFlags(false)...),
				Action: func(ctx context.Context, c *cli.Command) error { return a.saveTool(ctx, c, c.Int64("id")) },
			},
		},
	}
}

func (a *app) saveTool(ctx context.Context, c *cli.Command, toolID int64) error {
	form := viewmodel.NewToolForm(a.gw.Tools, a.navigator())
	defer form.Unmount()
	if err := form.Mount(ctx, toolID); err != nil {
		return failure(form.State().Error, err)
	}

	draft := form.State().Draft
	set := func(flag string, field *string) {
		if c.IsSet(flag) {
			*field = c.String(flag)
		}
	}
	set("identifier", &draft.Identifier)
	set("name", &draft.Name)
	set("category", &draft.Category)
	set("replacement-cost", &draft.ReplacementCost)
	set("price", &draft.Price)
	set("stock", &draft.Stock)
	if c.IsSet("state") {
		st, err := parseToolState(c.String("state"))
		if err != nil {
			return err
		}
		draft.State = st
	}
	if !draft.State.Valid() {
		draft.State = domain.ToolStateAvailable
	}
	form.SetDraft(draft)

	if err := form.Submit(ctx); err != nil {
		return failure(form.State().Error, err)
	}

	// The form does not keep the saved entity; show the list like the screen does
	tools, err := a.gw.Tools.List(ctx)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(a.out, tools)
	}
	printTools(a.out, tools)
	return nil
}
