package gateway

import (
	"context"
	"fmt"
	"net/http"

	"toolrental-console/internal/domain"
)

type toolGateway struct {
	c *Client
}

func (g *toolGateway) List(ctx context.Context) ([]domain.Tool, error) {
	var tools []domain.Tool
	if err := g.c.request(ctx, "tools", "list", http.MethodGet, "/tools", nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (g *toolGateway) Get(ctx context.Context, id int64) (*domain.Tool, error) {
	var tool domain.Tool
	if err := g.c.request(ctx, "tools", "get", http.MethodGet, fmt.Sprintf("/tools/%d", id), nil, &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}

func (g *toolGateway) Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	req := *tool
	req.ID = 0
	var out domain.Tool
	if err := g.c.request(ctx, "tools", "create", http.MethodPost, "/tools", &req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *toolGateway) Update(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	if tool.ID == 0 {
		return nil, ErrMissingID
	}
	var out domain.Tool
	if err := g.c.request(ctx, "tools", "update", http.MethodPut, fmt.Sprintf("/tools/%d", tool.ID), tool, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
