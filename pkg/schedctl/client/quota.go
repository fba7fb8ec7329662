package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Quota reports a role's resource allocation and consumption.
type Quota struct {
	Role        string    `json:"role"`
	Allocated   Resources `json:"allocated"`
	Consumed    Resources `json:"consumed"`
	NonProdUsed Resources `json:"nonProdUsed,omitempty"`
}

func (c *Client) GetQuota(ctx context.Context, role string) (*Quota, error) {
	if role == "" {
		return nil, fmt.Errorf("role is required")
	}
	endpoint := fmt.Sprintf("api/quota/%s", url.PathEscape(role))
	var quota Quota
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &quota); err != nil {
		return nil, err
	}
	return &quota, nil
}
