package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const maxErrorBody = 4 << 10

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Username string `json:"username"`
	} `json:"user"`
}

type stockRequest struct {
	Action string `json:"action,omitempty"`
	Qtd    *int   `json:"qtd,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPClient talks to the storefront product API. It holds the admin bearer
// token and attaches it to protected calls when one is set.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the API rooted at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) ClearToken() { c.SetToken("") }

func (c *HTTPClient) Authenticate(ctx context.Context, username, password string) (domain.Credential, error) {
	var resp loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, false, &resp)
	if err != nil {
		return domain.Credential{}, err
	}
	if resp.Token == "" {
		return domain.Credential{}, &domain.RemoteError{Op: "login", StatusCode: http.StatusOK, Kind: domain.ErrTransport, Message: "response carried no token"}
	}

	user := resp.User.Username
	if user == "" {
		user = username
	}
	return domain.Credential{Token: resp.Token, Username: user}, nil
}

func (c *HTTPClient) FetchAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, "list products", http.MethodGet, "/products", nil, false, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.log.Debugf("RemoteStore: fetched %d products", len(products))
	return products, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, "get product", http.MethodGet, productPath(id), nil, false, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *HTTPClient) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	// timestamps are assigned by the server
	product.CreatedAt, product.UpdatedAt = "", ""

	var created domain.Product
	if err := c.do(ctx, "create product", http.MethodPost, "/products", product, true, &created); err != nil {
		return nil, err
	}
	c.log.Infof("RemoteStore: created product %s", created.ID)
	return &created, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	var updated domain.Product
	if err := c.do(ctx, "update product", http.MethodPatch, productPath(id), patch, true, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, "delete product", http.MethodDelete, productPath(id), nil, true, nil); err != nil {
		return err
	}
	c.log.Infof("RemoteStore: deleted product %s", id)
	return nil
}

func (c *HTTPClient) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (*domain.Product, error) {
	var body stockRequest
	switch adj.Action {
	case domain.StockIncrement, domain.StockDecrement:
		body.Action = string(adj.Action)
	case domain.StockSet:
		qtd := adj.Quantity
		body.Qtd = &qtd
	default:
		return nil, fmt.Errorf("%w: unknown stock action %q", domain.ErrValidation, adj.Action)
	}

	var updated domain.Product
	if err := c.do(ctx, "adjust stock", http.MethodPatch, productPath(id)+"/stock", body, true, &updated); err != nil {
		return nil, err
	}
	c.log.Debugf("RemoteStore: %s on %s -> %d", adj, id, updated.Quantity)
	return &updated, nil
}

func (c *HTTPClient) StockHistory(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if productID != "" {
		q.Set("productId", productID)
	}

	var movements []domain.StockMovement
	if err := c.do(ctx, "stock history", http.MethodGet, "/stock-history?"+q.Encode(), nil, true, &movements); err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []domain.StockMovement{}
	}
	return movements, nil
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

// do sends one request. Protected requests carry the bearer token when one is
// held; without it the server is left to reject the call.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body any, protected bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if protected {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("RemoteStore: %s %s failed: %v", method, path, err)
		return &domain.RemoteError{Op: op, Kind: domain.ErrTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &domain.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
			Message:    readErrorMessage(resp.Body),
		}
		if errors.Is(rerr, domain.ErrTransport) {
			c.log.Errorf("RemoteStore: %s %s returned status %d: %s", method, path, resp.StatusCode, rerr.Message)
		} else {
			c.log.Warnf("RemoteStore: %s %s returned status %d: %s", method, path, resp.StatusCode, rerr.Message)
		}
		return rerr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Errorf("RemoteStore: failed to decode %s response: %v", op, err)
		return &domain.RemoteError{Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrTransport, Message: "decode response: " + err.Error()}
	}
	return nil
}

func kindForStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return domain.ErrValidation
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrTransport
	}
}

func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
