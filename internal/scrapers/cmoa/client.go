package cmoa

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"cmoa-notion-sync/internal/components/assert"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/lib/dom"
	"cmoa-notion-sync/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_client_fetch  = "client.fetch"
	report_client_scrape = "client.scrape"
)

const DefaultUserAgent = "cmoa-notion-sync/1.0"

var tracer = otel.Tracer("cmoa-notion-sync/internal/scrapers/cmoa")

type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
)

// ExtractionFailure is returned by Scrape for anything that went wrong
// before fields could be extracted.
type ExtractionFailure struct {
	URL   string
	Stage Stage
	Err   error
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("cmoa: %s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// Timeout bounds a single page request, defaults to 15 seconds.
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport with browser-like TLS settings and headers.
	CloudflareBypass bool
}

type Client struct {
	http      *resty.Client
	extractor Extractor
	tel       telemetry.API
}

func NewClient(opts ClientOptions, extractor Extractor, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("cmoa_scraper", tel)

	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 15
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	telemetry.InstrumentResty(httpClient, "cmoa-notion-sync/cmoa-http", tel)

	return &Client{
		http:      httpClient,
		extractor: extractor,
		tel:       tel,
	}
}

// DumpMessages writes every page response to output, see restyutil.DumpMessages.
func (c *Client) DumpMessages(output restyutil.Output) {
	restyutil.DumpMessages(c.http, output)
}

// Fetch retrieves the raw page once, there are no retries.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	c.tel.ReportDebug(report_client_fetch, url)

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status: %s", res.Status())
	}
	return res.Body(), nil
}

// Scrape fetches the page at url and extracts its fields. Any error returned
// is an *ExtractionFailure.
func (c *Client) Scrape(ctx context.Context, url string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	body, err := c.Fetch(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("fetch: %w", err), url)
		return Result{}, &ExtractionFailure{URL: url, Stage: StageFetch, Err: err}
	}

	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		c.tel.ReportBroken(report_client_scrape, fmt.Errorf("parse html: %w", err), url)
		return Result{}, &ExtractionFailure{URL: url, Stage: StageParse, Err: err}
	}

	result := c.extractor.Extract(doc)
	span.SetAttributes(
		attribute.Bool("synopsis", result.Synopsis != ""),
		attribute.Int("genres", len(result.Genres)),
		attribute.Int("tags", len(result.Tags)),
	)
	return result, nil
}
