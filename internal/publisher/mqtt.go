package publisher

import (
	"context"
	"fmt"
	"time"

	"brew_control"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTopic carries the retained status snapshot.
const DefaultTopic = "brew/control/status"

// MQTTPublisher publishes status snapshots to a broker as retained messages,
// so a new subscriber immediately gets the latest state.
type MQTTPublisher struct {
	client paho.Client
	topic  string
}

// NewMQTTPublisher connects to broker (e.g. "tcp://localhost:1883").
func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to broker %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, st brew_control.Status) error {
	payload, err := FormatPayload(st)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	wait := 5 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		wait = time.Until(dl)
	}
	token := p.client.Publish(p.topic, 0, true, payload)
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
