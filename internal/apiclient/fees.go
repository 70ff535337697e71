package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"payment-operations-console/internal/models"
)

type FeesAPI struct {
	c *Client
}

func (c *Client) Fees() *FeesAPI {
	return &FeesAPI{c: c}
}

func (a *FeesAPI) List(ctx context.Context, clientCode string) (models.FeeList, error) {
	q := url.Values{}
	if clientCode != "" {
		q.Set("client_code", clientCode)
	}
	body, _, err := a.c.do(ctx, "GET", "/fees/", q, nil)
	if err != nil {
		return models.FeeList{}, err
	}
	results, count, err := decodeList[models.FeeConfiguration](body)
	if err != nil {
		return models.FeeList{}, fmt.Errorf("decoding fee list: %w", err)
	}
	return models.FeeList{Results: results, Count: count}, nil
}

func (a *FeesAPI) Create(ctx context.Context, fee models.FeeConfiguration) (models.FeeConfiguration, error) {
	var created models.FeeConfiguration
	err := a.c.postJSON(ctx, "/fees/", fee, &created)
	return created, err
}

func (a *FeesAPI) Update(ctx context.Context, feeID string, fee models.FeeConfiguration) (models.FeeConfiguration, error) {
	var updated models.FeeConfiguration
	err := a.c.putJSON(ctx, "/fees/"+url.PathEscape(feeID)+"/", fee, &updated)
	return updated, err
}
