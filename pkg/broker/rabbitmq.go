package broker

import (
	"encoding/json"
	"fmt"

	"framechain/pkg/api"
	"framechain/pkg/events"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const (
	// RabbitMQType Broker type RabbitMQ
	RabbitMQType Type = "rabbitmq"
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		asRabbitMQConf, isRabbitMQConf := c.(*RabbitMQConfig)
		if !isRabbitMQConf {
			return nil, errors.Errorf("given configuration struct is not type %v", RabbitMQConfig{})
		}
		return NewRabbitMQBroker(ctx, *asRabbitMQConf)
	}
	register(RabbitMQType, f, &RabbitMQConfig{})
}

type rabbitmq struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	config RabbitMQConfig
}

// RabbitMQConfig is configuration for rabbitmq broker implementation
type RabbitMQConfig struct {
	User     string `json:"user" env:"BROKER_RABBITMQ_USER"`
	Password string `json:"password" env:"BROKER_RABBITMQ_PASSWORD"`
	URI      string `json:"uri" env:"BROKER_RABBITMQ_URI"`
}

//NewRabbitMQBroker returns a Broker implementation based on RabbitMQ.
func NewRabbitMQBroker(ctx context.Context, conf RabbitMQConfig) (Broker, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s", conf.User, conf.Password, conf.URI)
	ctx.Logger().Infof("connecting to rabbitmq at '%s'", conf.URI)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to rabbitmq at '%s'", conf.URI)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "cannot open channel to rabbitmq")
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, errors.Wrap(err, "cannot set rabbitmq Qos controls")
	}
	return &rabbitmq{
		conn:   conn,
		ch:     ch,
		config: conf,
	}, nil
}

func (q *rabbitmq) Publish(ctx context.Context, evt events.Event, qname, routingkey string) error {
	ctx.Logger().Tracef("publishing event %s to exchange %s", evt, qname)
	//Headers
	headers := amqp.Table{
		api.HeaderRunID:   evt.RunID,
		api.HeaderSegment: int32(evt.SegmentIndex),
		api.HeaderType:    string(evt.Type),
		api.HeaderStatus:  string(evt.Status),
	}

	// Marshal body
	data := evt.Data
	if data == nil {
		data = struct{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return q.ch.Publish(
		qname,      // exchange
		routingkey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     headers,
		})
}

func (q *rabbitmq) Receive(ctx context.Context, f HandleFunc, ferr ErrorHandler, qname string) error {
	ctx.Logger().Infof("receiving events from queue %s", qname)
	msgs, err := q.ch.Consume(
		qname,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Wrapf(err, "cannot register consumer to queue %s", qname)
	}

	for d := range msgs {
		// Unmarshal body
		var data interface{}
		switch d.ContentType {
		case "application/json":
			if err := json.Unmarshal(d.Body, &data); err != nil {
				d.Reject(false)
				return errors.Wrapf(err, "cannot unmarshal received event %s for run %s, droping event", d.Headers[api.HeaderType], d.Headers[api.HeaderRunID])
			}
		default:
			ctx.Logger().Warnf("received event with unsupported content-type %s, dropping event", d.ContentType)
			d.Reject(false)
			continue
		}

		// Create event
		rid, _ := d.Headers[api.HeaderRunID].(string)
		index := -1
		if i, isInt := d.Headers[api.HeaderSegment].(int32); isInt {
			index = int(i)
		}
		typ, _ := d.Headers[api.HeaderType].(string)
		status, _ := d.Headers[api.HeaderStatus].(string)
		evt := events.Event{
			Type:         events.EventType(typ),
			RunID:        rid,
			SegmentIndex: index,
			Status:       api.Status(status),
			Data:         data,
		}

		// Create context
		ectx := context.WithRunID(context.Background(), rid)
		if index >= 0 {
			ectx = context.WithSegment(ectx, index)
		}

		if err := f(ectx, evt); err != nil {
			ectx.Logger().Errorf("cannot handle event %s, %s", evt, err)
			if ferr != nil {
				ferr(ectx, err)
			}
			if err := d.Nack(false, true); err != nil {
				ectx.Logger().Errorf("cannot nack event %s, %s", evt, err)
			}
			continue
		}
		if err := d.Ack(false); err != nil {
			ectx.Logger().Errorf("cannot ack event %s, %s", evt, err)
		}
	}
	return errors.New("delivery channel closed")
}

func (q *rabbitmq) CreateQueue(ctx context.Context, name, bindTo string) error {
	ctx.Logger().Tracef("creating queue %s bound to exchange %s", name, bindTo)
	_, err := q.ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "cannot declare queue %s", name)
	}

	err = q.ch.QueueBind(
		name,   // queue name
		"",     // routing key
		bindTo, // exchange
		false,
		nil,
	)
	if err != nil {
		return errors.Wrapf(err, "cannot bind queue %s to exchange %s", name, bindTo)
	}
	return nil
}

func (q *rabbitmq) DeleteQueue(ctx context.Context, name string) error {
	ctx.Logger().Tracef("deleting queue %s", name)
	q.ch.QueueDelete(
		name, //queue name
		false,
		false,
		false,
	)
	return nil
}

func (q *rabbitmq) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	if err := q.conn.Close(); err != nil {
		return err
	}
	return nil
}
