package gateway

import (
	"context"
	"fmt"
	"net/http"

	"toolrental-console/internal/domain"
)

type clientGateway struct {
	c *Client
}

func (g *clientGateway) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := g.c.request(ctx, "clients", "list", http.MethodGet, "/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (g *clientGateway) Get(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	if err := g.c.request(ctx, "clients", "get", http.MethodGet, fmt.Sprintf("/clients/%d", id), nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (g *clientGateway) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	req := *client
	req.ID = 0
	var out domain.Client
	if err := g.c.request(ctx, "clients", "create", http.MethodPost, "/clients", &req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *clientGateway) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client.ID == 0 {
		return nil, ErrMissingID
	}
	var out domain.Client
	if err := g.c.request(ctx, "clients", "update", http.MethodPut, fmt.Sprintf("/clients/%d", client.ID), client, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
