package render

import (
	"context"
	"net/url"
	"strconv"
)

// listPageSize is the page size used for cursor-paginated list endpoints.
const listPageSize = 100

// List responses wrap each item together with the pagination cursor that
// points at it.
type serviceEnvelope struct {
	Service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"service"`
	Cursor string `json:"cursor"`
}

type keyValueEnvelope struct {
	KeyValue struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"keyValue"`
	Cursor string `json:"cursor"`
}

type postgresEnvelope struct {
	Postgres struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"postgres"`
	Cursor string `json:"cursor"`
}

// ListServices returns all compute services owned by the credential, following
// pagination cursors until the last page. If nameFilter is non-empty, only
// services whose name matches the filter are returned.
func (c *Client) ListServices(ctx context.Context, nameFilter string) ([]Resource, error) {
	var resources []Resource
	cursor := ""
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(listPageSize))
		if nameFilter != "" {
			query.Set("name", nameFilter)
		}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var page []serviceEnvelope
		if err := c.getJSON(ctx, "/services", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page {
			resources = append(resources, Resource{
				ID:   item.Service.ID,
				Name: item.Service.Name,
				Kind: KindFromID(item.Service.ID),
			})
		}

		if len(page) < listPageSize {
			return resources, nil
		}
		cursor = page[len(page)-1].Cursor
	}
}

// ListKeyValues returns all key value (Redis) instances owned by the credential.
func (c *Client) ListKeyValues(ctx context.Context) ([]Resource, error) {
	var resources []Resource
	cursor := ""
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(listPageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var page []keyValueEnvelope
		if err := c.getJSON(ctx, "/key-value", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page {
			resources = append(resources, Resource{
				ID:   item.KeyValue.ID,
				Name: item.KeyValue.Name,
				Kind: KindFromID(item.KeyValue.ID),
			})
		}

		if len(page) < listPageSize {
			return resources, nil
		}
		cursor = page[len(page)-1].Cursor
	}
}

// ListPostgres returns all Postgres databases owned by the credential.
func (c *Client) ListPostgres(ctx context.Context) ([]Resource, error) {
	var resources []Resource
	cursor := ""
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(listPageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var page []postgresEnvelope
		if err := c.getJSON(ctx, "/postgres", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page {
			resources = append(resources, Resource{
				ID:   item.Postgres.ID,
				Name: item.Postgres.Name,
				Kind: KindFromID(item.Postgres.ID),
			})
		}

		if len(page) < listPageSize {
			return resources, nil
		}
		cursor = page[len(page)-1].Cursor
	}
}
