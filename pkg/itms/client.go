package itms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/itms-toolkit/itms-publisher/pkg/errors"
	"github.com/itms-toolkit/itms-publisher/pkg/version"
)

// Client talks to one iTMS address.
type Client struct {
	*resty.Client

	address string
}

// ClientFunc configures a Client.
type ClientFunc func(*Client)

// WithRequestID tags every request with id.
func WithRequestID(id string) ClientFunc {
	return func(c *Client) {
		if id != "" {
			c.SetHeader(RequestIDHeader, id)
		}
	}
}

// WithTimeout bounds every request. Zero keeps the transport default.
func WithTimeout(d time.Duration) ClientFunc {
	return func(c *Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// New creates a client posting to address.
func New(address string, cfs ...ClientFunc) *Client {
	c := &Client{
		Client:  newResty(resty.New()),
		address: strings.TrimSpace(address),
	}

	for _, cf := range cfs {
		cf(c)
	}

	return c
}

func newResty(r *resty.Client) *resty.Client {
	return r.SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent())
}

// Address returns the address the client posts to.
func (c *Client) Address() string {
	return c.address
}

// Submit posts one report submission. Any HTTP status is returned as a Response;
// only transport failures produce an error.
func (c *Client) Submit(ctx context.Context, s *Submission) (*Response, error) {
	return c.post(ctx, s)
}

// TestConnection posts the credentials alone. Callers treat Response.OK as success.
func (c *Client) TestConnection(ctx context.Context, cred Credentials) (*Response, error) {
	return c.post(ctx, &connectionCheck{
		Username:    cred.Username,
		ServiceName: ServiceName,
		Token:       cred.Token,
	})
}

// Cycles lists the test cycles of a project. The cycle list is nil unless iTMS answered 200.
func (c *Client) Cycles(ctx context.Context, projectID string) ([]Cycle, *Response, error) {
	url := strings.TrimSuffix(c.address, "/") + CyclePath
	res, err := c.R().
		SetContext(ctx).
		SetQueryParam("project_id", projectID).
		Get(url)
	if err != nil {
		return nil, nil, errors.NetworkError(fmt.Sprintf("GET %s failed", url), err)
	}

	resp := &Response{Code: res.StatusCode(), Body: res.String()}
	if !resp.OK() {
		return nil, resp, nil
	}

	var cycles []Cycle
	gjson.GetBytes(res.Body(), "test_cycle").ForEach(func(_, v gjson.Result) bool {
		cycles = append(cycles, Cycle{ID: v.Get("id").Int(), Name: v.Get("name").String()})
		return true
	})
	return cycles, resp, nil
}

func (c *Client) post(ctx context.Context, v interface{}) (*Response, error) {
	body, err := encode(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	res, err := c.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.address)
	if err != nil {
		return nil, errors.NetworkError(fmt.Sprintf("POST %s failed", c.address), err)
	}

	return &Response{Code: res.StatusCode(), Body: res.String()}, nil
}

// encode marshals v without HTML escaping so XML reports travel as written.
func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
