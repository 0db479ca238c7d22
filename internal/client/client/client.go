package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/netx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

type userResponse struct {
	User *models.User `json:"user"`
}

type cahiersResponse struct {
	Cahiers []models.Cahier `json:"cahiers"`
}

type indicatifsResponse struct {
	Indicatifs []string `json:"indicatifs"`
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (c *Client) url(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	return c.mapError(netx.DoJSON(ctx, c.http, method, c.baseURL+path, in, out))
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", req, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// CurrentUser returns nil without error when no one is signed in.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) ListCahiers(ctx context.Context, archived bool) ([]models.Cahier, error) {
	var resp cahiersResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/cahiers?archived=%t", archived), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cahiers, nil
}

func (c *Client) GetCahier(ctx context.Context, id int64) (*models.CahierDetail, error) {
	var d models.CahierDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/cahiers/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveCahier creates the cahier when id is zero and updates it otherwise.
func (c *Client) SaveCahier(ctx context.Context, id int64, req models.SaveCahierRequest) (*models.CahierDetail, error) {
	method, path := http.MethodPost, "/api/cahiers"
	if id != 0 {
		method, path = http.MethodPut, fmt.Sprintf("/api/cahiers/%d", id)
	}
	var d models.CahierDetail
	if err := c.do(ctx, method, path, req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteCommunication(ctx context.Context, cahierID, commID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cahiers/%d/communications/%d", cahierID, commID), nil, nil)
}

func (c *Client) Archive(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/cahiers/%d/archive", id), nil, nil)
}

func (c *Client) ListIndicatifs(ctx context.Context, cahierID int64) ([]string, error) {
	var resp indicatifsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/cahiers/%d/indicatifs", cahierID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Indicatifs, nil
}

func (c *Client) AddIndicatif(ctx context.Context, cahierID int64, label string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/cahiers/%d/indicatifs", cahierID),
		models.IndicatifRequest{Indicatif: label}, nil)
}

func (c *Client) RemoveIndicatif(ctx context.Context, cahierID int64, label string) error {
	return c.do(ctx, http.MethodDelete,
		fmt.Sprintf("/api/cahiers/%d/indicatifs/%s", cahierID, url.PathEscape(label)), nil, nil)
}

// Export returns the PDF of a cahier and the file name suggested by the server.
func (c *Client) Export(ctx context.Context, id int64) ([]byte, string, error) {
	data, name, err := netx.Download(ctx, c.http, c.url("/api/cahiers/%d/export", id))
	if err != nil {
		return nil, "", c.mapError(err)
	}
	return data, name, nil
}
