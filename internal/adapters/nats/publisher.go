package natsadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/ridemap/internal/core/ports"
)

// SubjectTrackLoaded is the subject prefix for track-loaded events; the route id is appended.
const SubjectTrackLoaded = "tracks.loaded."

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      "TRACK_EVENTS",
		Subjects:  []string{"tracks.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; update it instead
		if _, err := js.UpdateStream(cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishTrackLoaded publishes ev on tracks.loaded.<route id>.
func (p *Publisher) PublishTrackLoaded(ctx context.Context, ev *ports.TrackLoaded) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(trackSubject(ev.RouteID), data, nats.Context(ctx))
	return err
}

// IsConnected reports whether the underlying connection is up.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

var subjectReplacer = strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_")

// trackSubject builds a single-token subject for a route id.
func trackSubject(routeID string) string {
	return SubjectTrackLoaded + subjectReplacer.Replace(routeID)
}
