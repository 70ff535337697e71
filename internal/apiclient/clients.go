package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"payment-operations-console/internal/models"
)

// ClientsAPI covers merchant accounts and their KYC documents.
type ClientsAPI struct {
	c *Client
}

func (c *Client) Clients() *ClientsAPI {
	return &ClientsAPI{c: c}
}

func (a *ClientsAPI) List(ctx context.Context, search, status string, page, pageSize int) (models.ClientList, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if status != "" {
		q.Set("status", status)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	body, _, err := a.c.do(ctx, "GET", "/clients/", q, nil)
	if err != nil {
		return models.ClientList{}, err
	}
	results, count, err := decodeList[models.ClientAccount](body)
	if err != nil {
		return models.ClientList{}, fmt.Errorf("decoding client list: %w", err)
	}
	return models.ClientList{Results: results, Count: count}, nil
}

func (a *ClientsAPI) Get(ctx context.Context, clientCode string) (models.ClientAccount, error) {
	var client models.ClientAccount
	err := a.c.getJSON(ctx, "/clients/"+url.PathEscape(clientCode)+"/", nil, &client)
	return client, err
}

func (a *ClientsAPI) SetStatus(ctx context.Context, clientCode, newStatus string) (models.ClientAccount, error) {
	var client models.ClientAccount
	err := a.c.postJSON(ctx, "/clients/"+url.PathEscape(clientCode)+"/status/", map[string]string{"status": newStatus}, &client)
	return client, err
}

func (a *ClientsAPI) KYCDocuments(ctx context.Context, clientCode string) (models.KYCList, error) {
	body, _, err := a.c.do(ctx, "GET", "/clients/"+url.PathEscape(clientCode)+"/kyc/", nil, nil)
	if err != nil {
		return models.KYCList{}, err
	}
	results, count, err := decodeList[models.KYCDocument](body)
	if err != nil {
		return models.KYCList{}, fmt.Errorf("decoding kyc documents: %w", err)
	}
	return models.KYCList{Results: results, Count: count}, nil
}
