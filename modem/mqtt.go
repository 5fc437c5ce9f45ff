package modem

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTEventSink publishes every Event it receives as JSON to
// "<TopicPrefix>/<event-code>" on a background goroutine, so a slow or
// disconnected broker never blocks the engine thread that calls Dispatch.
// Grounded on the abandoned sms-gw.go prototype's startMQTT, repurposed
// from an inbound send-request subscriber into an outbound event
// publisher for the Dispatcher (§C6).
type MQTTEventSink struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string

	client mqtt.Client
	queue  chan Event
	logger *slog.Logger
}

// NewMQTTEventSink connects to broker and starts the background publish
// loop. queueSize bounds how many events can be buffered while the broker
// is unreachable before further events are dropped.
func NewMQTTEventSink(broker, clientID, topicPrefix, username, password string, queueSize int, logger *slog.Logger) (*MQTTEventSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	if queueSize <= 0 {
		queueSize = 64
	}
	sink := &MQTTEventSink{
		Broker:      broker,
		ClientID:    clientID,
		TopicPrefix: topicPrefix,
		client:      client,
		queue:       make(chan Event, queueSize),
		logger:      logger,
	}
	go sink.publishLoop()
	return sink, nil
}

// Listener returns the Listener function to pass to Dispatcher.Subscribe.
// It never blocks: a full queue drops the event rather than stalling the
// engine goroutine.
func (s *MQTTEventSink) Listener() Listener {
	return func(ev Event) {
		select {
		case s.queue <- ev:
		default:
			s.logger.Warn("mqtt event queue full, dropping event", "code", ev.Code)
		}
	}
}

func (s *MQTTEventSink) publishLoop() {
	for ev := range s.queue {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.logger.Warn("mqtt event marshal failed", "error", err)
			continue
		}
		topic := fmt.Sprintf("%s/%s", s.TopicPrefix, ev.Code)
		token := s.client.Publish(topic, 0, false, payload)
		if token.Wait() && token.Error() != nil {
			s.logger.Warn("mqtt publish failed", "topic", topic, "error", token.Error())
		}
	}
}

// Close stops the publish loop and disconnects from the broker.
func (s *MQTTEventSink) Close() {
	close(s.queue)
	s.client.Disconnect(500)
}
