package canvas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/s0up4200/staffeli/entity"
)

// apiPrefix is appended to the site URL to reach the REST API.
const apiPrefix = "/api/v1"

// Client represents a Canvas API client
type Client struct {
	siteURL  string
	http     *resty.Client
	logger   zerolog.Logger
	pageSize int
}

// NewClient creates a new Canvas client for the site at baseURL, e.g.
// https://absalon.ku.dk. Requests are authorised with token.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: canvas URL is required", ErrInvalidConfig)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: canvas token is required", ErrInvalidConfig)
	}

	u, err := url.Parse(baseURL)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: canvas URL %q is not absolute", ErrInvalidConfig, baseURL)
	}

	// Accept both the site URL and the API base
	siteURL := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), apiPrefix)

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
		rc.SetTimeout(o.timeout)
	}
	rc.SetBaseURL(siteURL + apiPrefix)
	rc.SetAuthToken(token)
	rc.SetHeader("Accept", "application/json")
	rc.SetHeader("User-Agent", o.userAgent)

	return &Client{
		siteURL:  siteURL,
		http:     rc,
		logger:   logger,
		pageSize: o.pageSize,
	}, nil
}

// APIBase returns the REST API root.
func (c *Client) APIBase() string {
	return c.siteURL + apiPrefix
}

// WebURL returns the browser URL for a path relative to the site.
func (c *Client) WebURL(path string) string {
	return c.siteURL + "/" + strings.TrimLeft(path, "/")
}

// PageSize returns the per_page hint sent with list requests.
func (c *Client) PageSize() int {
	return c.pageSize
}

// TestConnection verifies the token by fetching the caller's profile.
func (c *Client) TestConnection(ctx context.Context) (entity.Entity, error) {
	profile, err := c.Call(ctx, http.MethodGet, "users/self/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Canvas: %w", err)
	}
	return profile, nil
}

// FetchAll issues the request and follows the Link header until the current
// page is the last, returning the entities of every page in order.
func (c *Client) FetchAll(ctx context.Context, method, path string, args Args) (entity.List, error) {
	args = args.withPageSize(c.pageSize)
	target := path
	all := make(entity.List, 0)

	for page := 1; ; page++ {
		resp, err := c.do(ctx, method, target, args)
		if err != nil {
			return nil, err
		}

		items, err := decode(resp)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		c.logger.Debug().
			Int("page", page).
			Int("count", len(items)).
			Int("total", len(all)).
			Msg("Retrieved page from Canvas")

		links, err := ParseLinks(resp.Header().Get("Link"))
		if err != nil {
			return nil, err
		}
		if links == nil {
			break
		}

		done, err := links.Done()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}

		next, err := links.Next()
		if err != nil {
			return nil, err
		}
		if next == resp.Request.URL || next == links[RelCurrent] {
			return nil, &PaginationError{Header: links.String(), Reason: "next page is the current page"}
		}

		args = argsForNext(method, next, args)
		target = next
	}

	return all, nil
}

// FetchPage issues exactly one request and returns the entities of the first
// page. Pagination links are ignored.
func (c *Client) FetchPage(ctx context.Context, method, path string, args Args) (entity.List, error) {
	resp, err := c.do(ctx, method, path, args.withPageSize(c.pageSize))
	if err != nil {
		return nil, err
	}
	return decode(resp)
}

// Call issues one request for a single resource. An empty body yields an
// empty entity.
func (c *Client) Call(ctx context.Context, method, path string, args Args) (entity.Entity, error) {
	resp, err := c.do(ctx, method, path, args)
	if err != nil {
		return nil, err
	}

	items, err := decode(resp)
	if err != nil {
		return nil, err
	}

	switch len(items) {
	case 0:
		return entity.Entity{}, nil
	case 1:
		return items[0], nil
	default:
		return nil, fmt.Errorf("%w: %s %s: expected one object, got %d", ErrTransport, method, path, len(items))
	}
}

// Get fetches every page of path.
func (c *Client) Get(ctx context.Context, path string, args Args) (entity.List, error) {
	return c.FetchAll(ctx, http.MethodGet, path, args)
}

// Post creates a resource.
func (c *Client) Post(ctx context.Context, path string, args Args) (entity.Entity, error) {
	return c.Call(ctx, http.MethodPost, path, args)
}

// Put updates a resource.
func (c *Client) Put(ctx context.Context, path string, args Args) (entity.Entity, error) {
	return c.Call(ctx, http.MethodPut, path, args)
}

// Delete removes a resource and returns what Canvas reports about it.
func (c *Client) Delete(ctx context.Context, path string, args Args) (entity.Entity, error) {
	return c.Call(ctx, http.MethodDelete, path, args)
}

// Download stores the body of rawURL at dest.
func (c *Client) Download(ctx context.Context, rawURL, dest string) error {
	c.logger.Debug().Str("url", rawURL).Str("dest", dest).Msg("Downloading file")

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrTransport, rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		excerpt, _ := io.ReadAll(io.LimitReader(body, maxBodyExcerpt))
		return newAPIError(http.MethodGet, rawURL, resp.StatusCode(), excerpt)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return f.Close()
}

// do performs a single authenticated request. GET and DELETE carry args in
// the query string, POST, PUT and PATCH as a form body.
func (c *Client) do(ctx context.Context, method, target string, args Args) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)

	if hasBody(method) {
		if len(args) > 0 {
			req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
			req.SetBody(args.Encode())
		}
	} else {
		target = withQuery(target, args)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Msg("Making Canvas API request")

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, target, err)
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(method, resp.Request.URL, resp.StatusCode(), resp.Body())
	}

	return resp, nil
}

func decode(resp *resty.Response) (entity.List, error) {
	items, err := entity.Decode(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, resp.Request.Method, resp.Request.URL, err)
	}
	return items, nil
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func withQuery(target string, args Args) string {
	if len(args) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + args.Encode()
}

// argsForNext drops query arguments Canvas already encoded into the next
// link, so they are not sent twice.
func argsForNext(method, next string, args Args) Args {
	if hasBody(method) {
		return args
	}
	u, err := url.Parse(next)
	if err != nil {
		return args
	}
	return args.without(u.Query())
}
