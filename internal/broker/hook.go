package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"lumen_bridge/internal/logger"
	"lumen_bridge/internal/service"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
)

const appendTimeout = 5 * time.Second

// readingsHook appends every valid readings-topic payload to the register.
// Invalid payloads are logged and not delivered to subscribers.
type readingsHook struct {
	mqtt.HookBase
	topic    string
	register service.Register
	log      *logger.Logger
}

func (h *readingsHook) ID() string { return "lumen-readings" }

func (h *readingsHook) Provides(b byte) bool {
	return bytes.Contains([]byte{mqtt.OnPublish}, []byte{b})
}

func (h *readingsHook) OnPublish(cl *mqtt.Client, pk packets.Packet) (packets.Packet, error) {
	if pk.TopicName != h.topic {
		return pk, nil
	}
	clientID := ""
	if cl != nil {
		clientID = cl.ID
	}

	var p service.ReadingParams
	if err := json.Unmarshal(pk.Payload, &p); err != nil {
		h.drop(clientID, "mqtt_reading_malformed", service.NewValidationError("json", err.Error()))
		return pk, packets.ErrRejectPacket
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	rd, err := h.register.Append(ctx, p)
	if err != nil {
		h.drop(clientID, "mqtt_reading_rejected", err)
		return pk, packets.ErrRejectPacket
	}
	if h.log != nil {
		h.log.Debugw("mqtt_reading_stored", "client", clientID, "id", rd.ID, "valor", rd.Value)
	}
	return pk, nil
}

func (h *readingsHook) drop(clientID, key string, err error) {
	if h.log == nil {
		return
	}
	if service.IsValidation(err) {
		h.log.Infow(key, "client", clientID, "topic", h.topic, "err", err)
		return
	}
	h.log.Errorw(key, "client", clientID, "topic", h.topic, "err", err)
}
