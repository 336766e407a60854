package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"TradeRelay/internal/domain/repository"
	"TradeRelay/internal/handler/api"
	mid "TradeRelay/internal/middleware"
	internalrepo "TradeRelay/internal/repository"
	icache "TradeRelay/internal/service/cache"
	"TradeRelay/internal/service/dedup"
	"TradeRelay/internal/service/stream"
	"TradeRelay/internal/service/tradier"
	"TradeRelay/internal/usecase"
	pkgcache "TradeRelay/pkg/cache"
	"TradeRelay/pkg/config"
	xhttp "TradeRelay/pkg/http"
	pkgkafka "TradeRelay/pkg/kafka"
	applogger "TradeRelay/pkg/logger"
	"TradeRelay/pkg/manifest"
	"TradeRelay/pkg/metrics"
	"TradeRelay/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBroker creates the Tradier brokerage client.
func ProvideBroker(cfg *config.Config) repository.Broker {
	return tradier.New(
		cfg.Tradier.BaseURL,
		cfg.Tradier.Token,
		cfg.Tradier.AccountID,
		cfg.Tradier.Timeout,
	)
}

// ProvideKafkaProducer creates a Kafka producer (kafka backend only).
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer (kafka backend only).
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideEventLog creates the bounded in-memory event log.
func ProvideEventLog(cfg *config.Config) repository.EventLog {
	return internalrepo.NewMemoryEventLog(cfg.Events.LogCapacity)
}

// ProvideEventPublisher creates the Kafka execution event publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideEventEmitter creates the backend-routing event emitter.
func ProvideEventEmitter(
	pub repository.Publisher,
	log repository.EventLog,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.EventEmitter {
	return usecase.NewEventEmitter(pub, log, m, cfg.Backend.Type)
}

// ProvideKafkaEventsHandler registers the handler for the events topic.
func ProvideKafkaEventsHandler(log repository.EventLog, m repository.Metrics, cfg *config.Config) *usecase.KafkaEventsHandler {
	return usecase.NewKafkaEventsHandler(cfg.Kafka.Topic, log, m)
}

// ProvideAlertProcessor creates the alert forwarding use case.
func ProvideAlertProcessor(broker repository.Broker, emitter *usecase.EventEmitter, m repository.Metrics) *usecase.AlertProcessor {
	return usecase.NewAlertProcessor(broker, emitter, m)
}

// ProvideAlertPipeline builds the validate/throttle pipeline in front of the processor.
func ProvideAlertPipeline(proc *usecase.AlertProcessor, m repository.Metrics, cfg *config.Config) *mid.AlertPipeline {
	opts := []mid.PipelineOption{}
	if cfg.Webhook.MaxPerSecond > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Webhook.MaxPerSecond))
	}
	return mid.NewAlertPipeline(proc, m, opts...)
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(l *applogger.Logger) *stream.Hub {
	return stream.NewHub(l)
}

// ProvideCacheService builds the cache backing dedup marks and quote
// responses. With Redis enabled a layered cache keeps hot reads in process
// memory in front of Redis, so suppression holds across replicas; otherwise
// a process-local memory cache serves alone.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix("traderelay"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc, pkgcache.WithPromoteTTL(cfg.Quotes.CacheTTL)), nil
}

// ProvideDeduper creates the duplicate-alert suppressor.
func ProvideDeduper(svc pkgcache.Service, cfg *config.Config) dedup.Deduper {
	if !cfg.Webhook.Dedup.Enabled {
		return nil
	}
	return dedup.New(svc, cfg.Webhook.Dedup.TTL)
}

// ProvideBytesCache adapts the cache service for quote responses.
func ProvideBytesCache(svc pkgcache.Service) icache.BytesCache {
	return icache.NewServiceCache(svc)
}

// ProvideRequirements parses the bundled demo manifest when configured.
func ProvideRequirements(cfg *config.Config) (*manifest.Manifest, error) {
	if cfg.Demo.RequirementsPath == "" {
		return nil, nil
	}
	m, err := manifest.ParseFile(cfg.Demo.RequirementsPath)
	if err != nil {
		return nil, fmt.Errorf("demo requirements: %w", err)
	}
	return m, nil
}

// ProvideApp assembles handlers and the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaEventsHandler,
	emitter *usecase.EventEmitter,
	pipe *mid.AlertPipeline,
	hub *stream.Hub,
	dd dedup.Deduper,
	broker repository.Broker,
	log repository.EventLog,
	producer *pkgkafka.Producer,
	bytesCache icache.BytesCache,
	reqs *manifest.Manifest,
) *server.App {
	// live feed wiring depends on the backend: memory emits directly,
	// kafka goes through the consumer handler
	switch cfg.Backend.Type {
	case "memory":
		emitter.SetNotifier(hub)
	case "kafka":
		kh.SetNotifier(hub)
		if consumer != nil {
			consumer.WithConsumerHook(pkgkafka.HookFuncs{
				Before: func(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
					ctx = pkgkafka.WithStartTime(ctx, time.Now())
					ctx = pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km))
					return ctx, km, data, nil
				},
				Err: func(_ context.Context, topic string, _ kafka.Message, _ []byte, err error) {
					l.Error("kafka handler failed", applogger.String("topic", topic), applogger.Error(err))
				},
			})
		}
		if producer != nil && cfg.Kafka.LogTopic != "" {
			l.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          cfg.Kafka.LogTopic,
				Publisher:      internalrepo.NewKafkaLogPublisher(producer),
			})
		}
	}

	webhook := api.NewWebhookEchoHandler(l, pipe, dd, cfg.Webhook.Source)
	dashboard := api.NewDashboardEchoHandler(l, log, broker, hub)
	dashboard.SetCache(bytesCache, cfg.Quotes.CacheTTL)
	if reqs != nil {
		dashboard.SetRequirements(reqs)
	}

	var kmh pkgkafka.MessageHandler
	if cfg.Backend.Type == "kafka" {
		kmh = kh
	}

	app := server.New(cfg, l, consumer, kmh, emitter, hub)
	app.SetHTTPHandler(xhttp.Handlers{webhook, dashboard})
	return app
}
