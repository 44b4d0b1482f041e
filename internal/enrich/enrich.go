package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cmoa-notion-sync/internal/components/assert"
	"cmoa-notion-sync/internal/components/chrono"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/scrapers/cmoa"
	"cmoa-notion-sync/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_driver_fetch   = "driver.fetch"
	report_driver_extract = "driver.extract"
	report_driver_write   = "driver.write"
	report_driver_skip    = "driver.skip"

	report_driver_interrupted = "driver.interrupted"
)

const DefaultDelay = time.Second * 3

var meter = otel.Meter("cmoa-notion-sync/internal/enrich")

type Outcome int

const (
	OutcomeWrittenBack Outcome = iota
	OutcomeSkippedEmptySynopsis
	OutcomeFailedFetch
	OutcomeFailedExtract
	OutcomeFailedWrite
	// OutcomeInterrupted means the run was cancelled while the record was in
	// flight, it is not counted in a Report.
	OutcomeInterrupted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWrittenBack:
		return "written_back"
	case OutcomeSkippedEmptySynopsis:
		return "skipped_empty_synopsis"
	case OutcomeFailedFetch:
		return "failed_fetch"
	case OutcomeFailedExtract:
		return "failed_extract"
	case OutcomeFailedWrite:
		return "failed_write"
	case OutcomeInterrupted:
		return "interrupted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Scraper fetches a title page and extracts its fields.
type Scraper interface {
	Scrape(ctx context.Context, url string) (cmoa.Result, error)
}

type Report struct {
	Outcomes map[Outcome]int
	// Processed is the number of records that reached an outcome, it is less
	// than the number of candidates if the run was cancelled.
	Processed int
}

func (r Report) Updated() int {
	return r.Outcomes[OutcomeWrittenBack]
}

func (r Report) Failed() int {
	return r.Outcomes[OutcomeFailedFetch] +
		r.Outcomes[OutcomeFailedExtract] +
		r.Outcomes[OutcomeFailedWrite]
}

// LogValue lets a Report be passed directly to slog.
func (r Report) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("processed", r.Processed),
		slog.Int("updated", r.Updated()),
	}
	for o := OutcomeWrittenBack; o <= OutcomeFailedWrite; o++ {
		attrs = append(attrs, slog.Int(o.String(), r.Outcomes[o]))
	}
	return slog.GroupValue(attrs...)
}

type Driver struct {
	store   store.Updater
	scraper Scraper
	clock   chrono.API
	delay   time.Duration
	tel     telemetry.API

	records metric.Int64Counter
}

func NewDriver(
	updater store.Updater,
	scraper Scraper,
	clock chrono.API,
	delay time.Duration,
	tel telemetry.API,
) Driver {
	assert.NotNil(updater, "store")
	assert.NotNil(scraper, "scraper")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "telemetry")

	if delay < 0 {
		delay = 0
	}
	counter, err := meter.Int64Counter(
		"enrich.records",
		metric.WithDescription("Records processed by outcome."),
	)
	if err != nil {
		tel.ReportBroken("enrich: create counter", err)
	}

	return Driver{
		store:   updater,
		scraper: scraper,
		clock:   clock,
		delay:   delay,
		tel:     telemetry.NewScopedAPI("enrich", tel),
		records: counter,
	}
}

// Run processes every record in order, one at a time, waiting the configured
// delay after each. Individual failures never stop the run; only a cancelled
// context does, in which case the partial report is returned with ctx.Err().
func (d Driver) Run(ctx context.Context, records []store.CatalogRecord) (Report, error) {
	report := Report{Outcomes: map[Outcome]int{}}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome := d.ProcessRecord(ctx, record)
		if outcome == OutcomeInterrupted {
			return report, ctx.Err()
		}
		report.Outcomes[outcome]++
		report.Processed++
		if d.records != nil {
			d.records.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
		}

		err := d.clock.Sleep(ctx, d.delay)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// ProcessRecord fetches, extracts and writes back a single record.
func (d Driver) ProcessRecord(ctx context.Context, record store.CatalogRecord) Outcome {
	slog.Info("processing record", "title", record.Title, "url", record.URL)

	result, err := d.scraper.Scrape(ctx, record.URL)
	if err != nil {
		if ctx.Err() != nil {
			d.tel.ReportDebug(report_driver_interrupted, record.Title, record.URL)
			return OutcomeInterrupted
		}
		var failure *cmoa.ExtractionFailure
		if errors.As(err, &failure) && failure.Stage == cmoa.StageParse {
			d.tel.ReportWarning(report_driver_extract, err, record.Title, record.URL)
			return OutcomeFailedExtract
		}
		d.tel.ReportWarning(report_driver_fetch, err, record.Title, record.URL)
		return OutcomeFailedFetch
	}

	if result.Synopsis == "" {
		d.tel.ReportDebug(report_driver_skip, record.Title, record.URL)
		slog.Info("no synopsis found, skipping", "title", record.Title, "url", record.URL)
		return OutcomeSkippedEmptySynopsis
	}

	err = d.store.UpdateEnrichment(ctx, record.ID, store.Enrichment{
		Synopsis: result.Synopsis,
		Genres:   result.Genres,
		Magazine: result.Magazine,
		Tags:     result.Tags,
	})
	if err != nil {
		if ctx.Err() != nil {
			d.tel.ReportDebug(report_driver_interrupted, record.Title, record.URL)
			return OutcomeInterrupted
		}
		d.tel.ReportBroken(report_driver_write, err, record.Title, record.URL)
		return OutcomeFailedWrite
	}

	slog.Info(
		"updated record",
		"title", record.Title,
		"genres", result.Genres,
		"magazine", result.Magazine,
		"tags", len(result.Tags),
	)
	return OutcomeWrittenBack
}
