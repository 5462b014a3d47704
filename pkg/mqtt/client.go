package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type Config struct {
	Broker               string
	ClientID             string
	Username             string
	Password             string
	CleanSession         bool
	KeepAlive            int
	ConnectTimeout       int
	AutoReconnect        bool
	MaxReconnectInterval time.Duration
}

type Client struct {
	client mqtt.Client
	config *Config
	log    *zap.Logger
}

func NewClient(config *Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetCleanSession(config.CleanSession)
	opts.SetKeepAlive(time.Duration(config.KeepAlive) * time.Second)
	opts.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	opts.SetAutoReconnect(config.AutoReconnect)
	opts.SetMaxReconnectInterval(config.MaxReconnectInterval)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Info("MQTT client connected", zap.String("broker", config.Broker))
	})

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Warn("MQTT connection lost", zap.Error(err))
	})

	opts.SetReconnectingHandler(func(c mqtt.Client, opts *mqtt.ClientOptions) {
		log.Info("Reconnecting to MQTT broker")
	})

	return &Client{
		client: mqtt.NewClient(opts),
		config: config,
		log:    log,
	}
}

// Connect establishes a connection to the MQTT broker
func (c *Client) Connect() error {
	c.log.Info("Connecting to MQTT broker", zap.String("broker", c.config.Broker))

	token := c.client.Connect()
	token.Wait()

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return nil
}

// Publish publishes a message to a topic, giving up when ctx is done.
func (c *Client) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishJSON marshals v and publishes it.
func (c *Client) PublishJSON(ctx context.Context, topic string, qos byte, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode MQTT payload: %w", err)
	}
	return c.Publish(ctx, topic, qos, false, payload)
}

// Disconnect disconnects from MQTT broker
func (c *Client) Disconnect() {
	c.log.Info("Disconnecting from MQTT broker")
	c.client.Disconnect(250)
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
