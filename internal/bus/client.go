// Package bus wraps the MQTT client shared by both processes behind a
// small publish/subscribe surface.
package bus

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/config"
)

// Role distinguishes the two processes on the broker so their client
// ids don't collide.
type Role string

// Publisher is the write half of the bus, what most components need.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Client connects to the broker over the fx lifecycle: connect failure
// at startup is fatal and rolls back anything already acquired.
type Client struct {
	mqtt   mqtt.Client
	logger *zap.Logger
}

// NewClientParams holds dependencies for NewClient.
type NewClientParams struct {
	fx.In
	Cfg    *config.Config
	Role   Role
	Logger *zap.Logger
	LC     fx.Lifecycle
}

// NewClient creates the bus client and ties connect/disconnect to the
// application lifecycle. Handler delivery is kept ordered: the brain
// relies on serialized telemetry callbacks to mutate the channel model
// without further locking.
func NewClient(params NewClientParams) *Client {
	opts := mqtt.NewClientOptions().
		AddBroker(params.Cfg.MQTT.Broker).
		SetClientID(fmt.Sprintf("%s-%s", params.Cfg.MQTT.ClientIDPrefix, params.Role)).
		SetOrderMatters(true).
		SetAutoReconnect(true)

	c := &Client{
		mqtt:   mqtt.NewClient(opts),
		logger: params.Logger,
	}

	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			token := c.mqtt.Connect()
			token.Wait()
			if err := token.Error(); err != nil {
				return fmt.Errorf("connect to broker %s: %w", params.Cfg.MQTT.Broker, err)
			}
			c.logger.Info("connected to broker",
				zap.String("broker", params.Cfg.MQTT.Broker),
				zap.String("role", string(params.Role)))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.mqtt.Disconnect(250)
			c.logger.Info("disconnected from broker")
			return nil
		},
	})

	return c
}

// Publish sends a payload at QoS 1, matching the at-least-once delivery
// the decision loop assumes.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.mqtt.Publish(topic, 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers a handler for a topic (wildcards allowed).
func (c *Client) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := c.mqtt.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}
