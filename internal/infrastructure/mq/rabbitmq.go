package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"upload-url-api/config"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

// ActionUploadURLIssued is both the event action and its routing key.
const ActionUploadURLIssued = "upload_url.issued"

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id          uuid.UUID `json:"event_id"`
		TS          time.Time `json:"time_stamp"`
		Action      string    `json:"event_action"`
		Provider    string    `json:"provider"`
		Bucket      string    `json:"bucket"`
		Key         string    `json:"key"`
		ContentType string    `json:"content_type"`
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "uploadurlapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	return r.pubCh.QueueBind(q.Name, ActionUploadURLIssued, r.cfg.Exchange, false, nil)
}

// Enqueue hands the event to the publisher worker without blocking the
// request. It reports false when the buffer is full and the event was dropped.
func (r *RabbitMQ) Enqueue(e Event) bool {
	select {
	case r.in <- e:
		return true
	default:
		return false
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("event_id", e.Id.String()))
			}
		case <-ctx.Done():
			r.pubCh.Close()
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Action,
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
