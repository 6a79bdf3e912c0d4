package app

import (
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/service/assignment"
	"service-delivery/internal/service/orders"
	"service-delivery/internal/transport/kafka"
)

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(svc *assignment.Service, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(svc, logger)
		},
		makeOrdersKafka,
		func(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h, logger)
		},
	)
}

func makeOrdersKafka(p *orders.Processor) kafka.HandleFunc {
	return p.Handle
}
