package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"toolrental-console/internal/domain"
)

type kardexGateway struct {
	c *Client
}

func (g *kardexGateway) List(ctx context.Context) ([]domain.KardexEntry, error) {
	var entries []domain.KardexEntry
	if err := g.c.request(ctx, "kardex", "list", http.MethodGet, "/kardex", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (g *kardexGateway) Get(ctx context.Context, id int64) (*domain.KardexEntry, error) {
	var entry domain.KardexEntry
	if err := g.c.request(ctx, "kardex", "get", http.MethodGet, fmt.Sprintf("/kardex/%d", id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (g *kardexGateway) Filter(ctx context.Context, f domain.KardexFilter) ([]domain.KardexEntry, error) {
	q := rangeQuery(f.Range)
	if f.ToolID != nil {
		q.Set("toolId", strconv.FormatInt(*f.ToolID, 10))
	}
	var entries []domain.KardexEntry
	if err := g.c.request(ctx, "kardex", "filter", http.MethodGet, withQuery("/kardex", q), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
