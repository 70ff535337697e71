package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"payment-operations-console/internal/models"
)

type ZonesAPI struct {
	c *Client
}

func (c *Client) Zones() *ZonesAPI {
	return &ZonesAPI{c: c}
}

func (a *ZonesAPI) List(ctx context.Context) (models.ZoneList, error) {
	body, _, err := a.c.do(ctx, "GET", "/zones/", nil, nil)
	if err != nil {
		return models.ZoneList{}, err
	}
	results, count, err := decodeList[models.Zone](body)
	if err != nil {
		return models.ZoneList{}, fmt.Errorf("decoding zone list: %w", err)
	}
	return models.ZoneList{Results: results, Count: count}, nil
}

func (a *ZonesAPI) Create(ctx context.Context, zone models.Zone) (models.Zone, error) {
	var created models.Zone
	err := a.c.postJSON(ctx, "/zones/", zone, &created)
	return created, err
}

func (a *ZonesAPI) Update(ctx context.Context, zoneID string, zone models.Zone) (models.Zone, error) {
	var updated models.Zone
	err := a.c.putJSON(ctx, "/zones/"+url.PathEscape(zoneID)+"/", zone, &updated)
	return updated, err
}

func (a *ZonesAPI) Delete(ctx context.Context, zoneID string) error {
	return a.c.delete(ctx, "/zones/"+url.PathEscape(zoneID)+"/")
}
