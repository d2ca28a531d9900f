package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscribeMessage is the first frame a live-feed client sends.
type subscribeMessage struct {
	Crop        string `json:"crop"`
	Region      string `json:"region"`
	IntervalSec int    `json:"interval_sec"`
}

// ClientGauge tracks connected live-feed clients. prometheus.Gauge
// satisfies it.
type ClientGauge interface {
	Inc()
	Dec()
}

// SetClientGauge wires the websocket client gauge. Optional.
func (h *Handlers) SetClientGauge(g ClientGauge) {
	h.wsClients = g
}

// LiveScores handles GET /ws/scores. The client sends one subscribe
// frame {crop, region, interval_sec} and then receives scoring results
// on the requested interval until it disconnects.
func (h *Handlers) LiveScores(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	if h.wsClients != nil {
		h.wsClients.Inc()
		defer h.wsClients.Dec()
	}

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var sub subscribeMessage
	if err := conn.ReadJSON(&sub); err != nil {
		log.Debug().Err(err).Msg("Live feed subscribe frame invalid")
		conn.WriteJSON(map[string]string{"error": "expected subscribe frame {crop, region}"})
		return
	}
	if !signalsCrops[sub.Crop] {
		conn.WriteJSON(map[string]string{"error": "invalid crop"})
		return
	}
	if sub.Region == "" {
		sub.Region = "US"
	}
	interval := time.Duration(sub.IntervalSec) * time.Second
	if interval < 5*time.Second {
		interval = 60 * time.Second
	}

	log.Info().
		Str("crop", sub.Crop).
		Str("region", sub.Region).
		Dur("interval", interval).
		Msg("Live score feed started")

	// Drain client frames so pings and close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Time{})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	req := requestFromQuery(r)
	req.Crop = sub.Crop
	req.Region = sub.Region

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	push := func() bool {
		result, err := h.service.Score(r.Context(), req)
		if err != nil {
			log.Warn().Err(err).Str("crop", req.Crop).Msg("Live feed scoring failed")
			return conn.WriteJSON(map[string]string{"error": err.Error()}) == nil
		}
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(result) == nil
	}

	if !push() {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
