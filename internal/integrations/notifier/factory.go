package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
)

// NewFromConfig выбирает брокер по notifications.driver
func NewFromConfig(ctx context.Context, cfg config.Notifications, log Logger, metrics MetricsRecorder) (*Notifier, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	var publisher Publisher
	switch cfg.Driver {
	case config.NotifierDriverNone:
	case config.NotifierDriverLog:
		publisher = NewLogPublisher(log)
	case config.NotifierDriverRedis:
		p, err := DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel)
		if err != nil {
			return nil, err
		}
		publisher = p
	case config.NotifierDriverAMQP:
		p, err := DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, err
		}
		publisher = p
	default:
		return nil, fmt.Errorf("notifier: unknown driver %q", cfg.Driver)
	}

	return New(publisher, timeout, log, metrics), nil
}
