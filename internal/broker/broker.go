// Package broker embeds an MQTT broker so a device that keeps a socket open
// can push readings and receive commands instead of polling HTTP.
package broker

import (
	"encoding/json"
	"errors"
	"fmt"

	"lumen_bridge/internal/config"
	"lumen_bridge/internal/logger"
	"lumen_bridge/internal/models"
	"lumen_bridge/internal/service"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
)

const listenerID = "t1"

// commandMessage mirrors the GET /controle/ body.
type commandMessage struct {
	Modo string        `json:"modo"`
	Cor  *models.Color `json:"cor,omitempty"`
}

// Broker owns the embedded server. It publishes every stored command retained
// on the command topic and feeds readings-topic payloads into the register.
type Broker struct {
	server        *mqtt.Server
	readingsTopic string
	commandTopic  string
	log           *logger.Logger
	attached      bool
}

// New builds the broker and its TCP listener. An empty address skips the
// listener (in-process use only).
func New(cfg config.MQTTConfig, log *logger.Logger) (*Broker, error) {
	server := mqtt.New(&mqtt.Options{InlineClient: true})
	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, fmt.Errorf("add auth hook: %w", err)
	}
	if cfg.Address != "" {
		tcp := listeners.NewTCP(listeners.Config{ID: listenerID, Address: cfg.Address})
		if err := server.AddListener(tcp); err != nil {
			return nil, fmt.Errorf("add mqtt listener %s: %w", cfg.Address, err)
		}
	}
	return &Broker{
		server:        server,
		readingsTopic: cfg.ReadingsTopic,
		commandTopic:  cfg.CommandTopic,
		log:           log,
	}, nil
}

// Attach routes readings-topic publishes into reg. Call once, before Start.
func (b *Broker) Attach(reg service.Register) error {
	if b.attached {
		return errors.New("broker: register already attached")
	}
	hook := &readingsHook{topic: b.readingsTopic, register: reg, log: b.log}
	if err := b.server.AddHook(hook, nil); err != nil {
		return fmt.Errorf("add readings hook: %w", err)
	}
	b.attached = true
	return nil
}

// Start begins accepting clients. It does not block.
func (b *Broker) Start() error {
	if err := b.server.Serve(); err != nil {
		return fmt.Errorf("start mqtt broker: %w", err)
	}
	if b.log != nil {
		b.log.Infow("mqtt_broker_started", "readings_topic", b.readingsTopic, "command_topic", b.commandTopic)
	}
	return nil
}

func (b *Broker) Close() error {
	return b.server.Close()
}

// PublishCommand publishes c retained (QoS 0) so a device subscribing later
// still receives the current command.
func (b *Broker) PublishCommand(c models.ControlCommand) error {
	msg := commandMessage{Modo: c.Mode}
	if c.Mode == models.ModeManual {
		color := c.Color
		msg.Cor = &color
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	if err := b.server.Publish(b.commandTopic, payload, true, 0); err != nil {
		if b.log != nil {
			b.log.Errorw("mqtt_publish_command_failed", "err", err, "topic", b.commandTopic)
		}
		return fmt.Errorf("publish command: %w", err)
	}
	return nil
}
