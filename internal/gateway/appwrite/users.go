package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

func (c *Client) CreateUser(ctx context.Context, userID, email, phone, name string) (*gateway.User, error) {
	var user gateway.User
	body := map[string]string{
		"userId": userID,
		"email":  email,
		"phone":  phone,
		"name":   name,
	}
	err := c.do(ctx, http.MethodPost, "/users", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*gateway.User, error) {
	var user gateway.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context, queries ...gateway.Query) (*gateway.UserList, error) {
	var list gateway.UserList
	err := c.do(ctx, http.MethodGet, "/users", func(r *resty.Request) {
		r.SetQueryParamsFromValues(queryParams(queries))
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}
