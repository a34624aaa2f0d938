package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skullbot/config"
	"skullbot/domain/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	log "github.com/sirupsen/logrus"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	mu          sync.Mutex
	initialized bool

	joinsCounter       metric.Int64Counter
	leavesCounter      metric.Int64Counter
	ticketsCounter     metric.Int64Counter
	drawsCounter       metric.Int64Counter
	drawWinnersCounter metric.Int64Counter
	ledgerTxCounter    metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{config: cfg}
}

// Initialize sets up the OpenTelemetry meter provider and instruments.
// Metrics go to an OTLP collector when an endpoint is configured, and to
// stdout otherwise.
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.initialized {
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("skullbot"),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var reader sdkmetric.Reader
	if mp.config.OTLPEndpoint != "" {
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second))
	} else {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(time.Minute))
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("skullbot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	if mp.joinsCounter, err = mp.meter.Int64Counter(
		"lottery.joins",
		metric.WithDescription("Lottery join operations"),
	); err != nil {
		return err
	}
	if mp.leavesCounter, err = mp.meter.Int64Counter(
		"lottery.leaves",
		metric.WithDescription("Lottery leave operations"),
	); err != nil {
		return err
	}
	if mp.ticketsCounter, err = mp.meter.Int64Counter(
		"lottery.tickets_purchased",
		metric.WithDescription("Lottery tickets purchased"),
	); err != nil {
		return err
	}
	if mp.drawsCounter, err = mp.meter.Int64Counter(
		"lottery.draws",
		metric.WithDescription("Lottery terminal transitions"),
	); err != nil {
		return err
	}
	if mp.drawWinnersCounter, err = mp.meter.Int64Counter(
		"lottery.draw_winners",
		metric.WithDescription("Winners selected across draws"),
	); err != nil {
		return err
	}
	if mp.ledgerTxCounter, err = mp.meter.Int64Counter(
		"ledger.transactions",
		metric.WithDescription("Ledger balance mutations"),
	); err != nil {
		return err
	}
	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if !mp.initialized {
		return nil
	}
	mp.initialized = false
	return mp.meterProvider.Shutdown(ctx)
}

// RecordJoin implements interfaces.MetricsRecorder
func (mp *MetricsProvider) RecordJoin(ctx context.Context, paid bool) {
	if !mp.ready() {
		return
	}
	mp.joinsCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("paid", paid)))
}

// RecordLeave implements interfaces.MetricsRecorder
func (mp *MetricsProvider) RecordLeave(ctx context.Context) {
	if !mp.ready() {
		return
	}
	mp.leavesCounter.Add(ctx, 1)
}

// RecordTicketPurchase implements interfaces.MetricsRecorder
func (mp *MetricsProvider) RecordTicketPurchase(ctx context.Context, quantity int) {
	if !mp.ready() {
		return
	}
	mp.ticketsCounter.Add(ctx, int64(quantity))
}

// RecordDraw implements interfaces.MetricsRecorder
func (mp *MetricsProvider) RecordDraw(ctx context.Context, winners int) {
	if !mp.ready() {
		return
	}
	mp.drawsCounter.Add(ctx, 1)
	mp.drawWinnersCounter.Add(ctx, int64(winners))
}

// RecordLedgerTransaction implements interfaces.MetricsRecorder
func (mp *MetricsProvider) RecordLedgerTransaction(ctx context.Context, kind string) {
	if !mp.ready() {
		return
	}
	mp.ledgerTxCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (mp *MetricsProvider) ready() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.initialized
}

var _ interfaces.MetricsRecorder = (*MetricsProvider)(nil)
