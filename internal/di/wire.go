//go:build wireinject
// +build wireinject

package di

import (
	"TradeRelay/pkg/config"
	"TradeRelay/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function into wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideBroker,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCacheService,
		ProvideDeduper,
		ProvideBytesCache,

		// Repositories
		ProvideEventLog,
		ProvideEventPublisher,

		// Use cases
		ProvideEventEmitter,
		ProvideKafkaEventsHandler,
		ProvideAlertProcessor,
		ProvideAlertPipeline,

		// Delivery
		ProvideHub,
		ProvideRequirements,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
