package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"toolrental-console/internal/config"
	"toolrental-console/internal/domain"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
	"toolrental-console/internal/viewmodel"
)

// app carries what every command needs once the config is loaded
type app struct {
	cfg    *config.Config
	gw     *gateway.Gateway
	policy viewmodel.RefreshPolicy
	out    io.Writer
}

func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	policy, err := viewmodel.ParseRefreshPolicy(cfg.Console.RefreshPolicy)
	if err != nil {
		return ctx, err
	}

	// stdout is reserved for tables and JSON
	logger.InitializeWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	logger.Debug("Console configured", "base_url", cfg.API.BaseURL, "refresh_policy", policy.String())

	a.cfg = cfg
	a.gw = gateway.NewHTTPGateway(cfg.API, nil)
	a.policy = policy
	a.out = cmd.Root().Writer
	if a.out == nil {
		a.out = os.Stdout
	}
	return ctx, nil
}

// navigator records where a screen would go next; the CLI just logs it
func (a *app) navigator() viewmodel.Navigator {
	return viewmodel.NavigatorFunc(func(route string) {
		logger.Debug("Navigate", "route", route)
	})
}

// failure prefers the message a screen would have shown
func failure(shown string, err error) error {
	if shown != "" {
		return errors.New(shown)
	}
	return err
}

func parseRange(c *cli.Command) (domain.DateRange, error) {
	return domain.NewDateRange(c.String("from"), c.String("to"))
}

// parseToolState accepts a backend id or a label, case-insensitively
func parseToolState(s string) (domain.ToolState, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if st := domain.ToolState(id); st.Valid() {
			return st, nil
		}
	}
	for _, st := range domain.ToolStates() {
		if strings.EqualFold(st.Label(), s) {
			return st, nil
		}
	}
	return domain.ToolStateUnknown, fmt.Errorf("unknown tool state %q", s)
}

func parseClientState(s string) (domain.ClientState, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if st := domain.ClientState(id); st.Valid() {
			return st, nil
		}
	}
	for _, st := range domain.ClientStates() {
		if strings.EqualFold(st.Label(), s) {
			return st, nil
		}
	}
	return domain.ClientStateUnknown, fmt.Errorf("unknown client state %q", s)
}
