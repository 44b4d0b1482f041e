package notion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmoa-notion-sync/internal/components/assert"
	"cmoa-notion-sync/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_query_database = "client.query-database"
	report_client_update_page    = "client.update-page"
)

const (
	DefaultBaseUrl = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
	// MaxTextLength is the maximum length of a single rich text content.
	MaxTextLength = 2000
	maxPageSize   = 100
)

type ClientOptions struct {
	Token   string
	BaseUrl string
	Version string
	// RequestsPerSecond defaults to 3, the average rate the API allows per integration.
	RequestsPerSecond float64
	Timeout           time.Duration
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotEmptyStr(opts.Token, "notion token")
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("notion", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetAuthToken(opts.Token)
	httpClient.SetHeader("Notion-Version", opts.Version)
	httpClient.SetHeader("Content-Type", "application/json")
	httpClient.SetTimeout(opts.Timeout)

	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "cmoa-notion-sync/notion-http", tel)

	return &Client{
		http: httpClient,
		tel:  tel,
	}
}

func responseError(res *resty.Response) error {
	apiErr, ok := res.Error().(*APIError)
	if ok && apiErr != nil && apiErr.Code != "" {
		if apiErr.Status == 0 {
			apiErr.Status = res.StatusCode()
		}
		return apiErr
	}
	return &APIError{Status: res.StatusCode(), Code: "unknown", Message: res.Status()}
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// QueryDatabase fetches a single page of results.
func (c *Client) QueryDatabase(ctx context.Context, databaseId string, req QueryRequest) (QueryResponse, error) {
	if req.PageSize <= 0 || req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	c.tel.ReportDebug(report_client_query_database, databaseId, req.StartCursor)

	var out QueryResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("database_id", databaseId).
		SetBody(req).
		SetResult(&out).
		SetError(&APIError{}).
		Post("/v1/databases/{database_id}/query")
	if err != nil {
		c.tel.ReportBroken(report_client_query_database, fmt.Errorf("request: %w", err), databaseId)
		return QueryResponse{}, err
	}
	if res.IsError() {
		err = responseError(res)
		c.tel.ReportBroken(report_client_query_database, err, databaseId)
		return QueryResponse{}, err
	}
	return out, nil
}

// QueryAll follows cursors until every page matching the filter has been read.
func (c *Client) QueryAll(ctx context.Context, databaseId string, filter *Filter) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		res, err := c.QueryDatabase(ctx, databaseId, QueryRequest{
			Filter:      filter,
			StartCursor: cursor,
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, res.Results...)
		if !res.HasMore || res.Cursor() == "" {
			return pages, nil
		}
		cursor = res.Cursor()
	}
}

// UpdatePage overwrites the given properties of a page.
func (c *Client) UpdatePage(ctx context.Context, pageId string, properties map[string]any) error {
	c.tel.ReportDebug(report_client_update_page, pageId)

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("page_id", pageId).
		SetBody(map[string]any{"properties": properties}).
		SetError(&APIError{}).
		Patch("/v1/pages/{page_id}")
	if err != nil {
		c.tel.ReportBroken(report_client_update_page, fmt.Errorf("request: %w", err), pageId)
		return err
	}
	if res.IsError() {
		err = responseError(res)
		c.tel.ReportBroken(report_client_update_page, err, pageId)
		return err
	}
	return nil
}
