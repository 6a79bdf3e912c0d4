package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/gateway/notify"
	"service-delivery/internal/logx"
	"service-delivery/internal/service/assignment"
)

type notifyIn struct {
	dig.In
	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

// newNotifier builds the notification chain: HTTP gateway wrapped with
// retries. An empty base URL disables notifications entirely.
func newNotifier(in notifyIn) assignment.Notifier {
	gw := notify.NewHTTPGateway(in.Cfg.Notify.BaseURL, 5*time.Second)
	if gw == nil {
		return nil
	}
	retrying := notify.NewRetryingGateway(gw, in.Logger, in.Retries, notify.RetryConfig{
		MaxAttempts: in.Cfg.Notify.MaxAttempts,
		BaseDelay:   in.Cfg.Notify.BaseDelay,
		MaxDelay:    in.Cfg.Notify.MaxDelay,
	})
	return notify.NewAssignmentNotifier(retrying)
}
