package syncstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopkart-io/storefront/internal/models"
)

// Client talks to the remote product API. Mutating calls carry the shared
// admin key header and, when set, a bearer token issued at login.
type Client struct {
	baseURL  string
	adminKey string
	bearer   string
	httpc    *http.Client
}

func NewClient(baseURL, adminKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		adminKey: adminKey,
		httpc:    http.DefaultClient,
	}
}

// SetBearer attaches a bearer token to subsequent mutating calls.
func (c *Client) SetBearer(token string) {
	c.bearer = token
}

// RemoteError is a non-success response from the product API.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := c.do(req, false, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, draft Draft) (models.Product, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return models.Product{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", bytes.NewReader(body))
	if err != nil {
		return models.Product{}, err
	}

	var created models.Product
	if err := c.do(req, true, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return models.Product{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/products/"+id, bytes.NewReader(body))
	if err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	if err := c.do(req, true, &updated); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return err
	}
	return c.do(req, true, nil)
}

func (c *Client) do(req *http.Request, admin bool, out any) error {
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("x-admin-key", c.adminKey)
		if c.bearer != "" {
			req.Header.Set("Authorization", "Bearer "+c.bearer)
		}
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &RemoteError{Status: res.StatusCode, Message: errorMessage(res.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

// errorMessage extracts the {"error": ...} body the API sends on failure.
// A body that does not parse just yields an empty message.
func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}
