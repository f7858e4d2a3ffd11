package live

import (
	"context"
	"log"
	"time"

	"desynflow-backend/internal/models"
)

// LocationSource supplies the current location snapshot; implemented by the
// inspector location service.
type LocationSource interface {
	Snapshot(ctx context.Context) ([]models.InspectorLocation, error)
}

// Poller snapshots inspector locations on a fixed interval and broadcasts
// them to hub clients. The dashboard sees fresh positions without each
// browser polling the API.
type Poller struct {
	hub      *Hub
	source   LocationSource
	interval time.Duration
}

const DefaultPollInterval = 10 * time.Second

func NewPoller(hub *Hub, source LocationSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{hub: hub, source: source, interval: interval}
}

// Run blocks until ctx is cancelled. Skips a cycle when no clients are
// connected.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("[Live] Location poller running every %s", p.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Live] Location poller stopped")
			return
		case <-ticker.C:
			if p.hub.ClientCount() == 0 {
				continue
			}
			locations, err := p.source.Snapshot(ctx)
			if err != nil {
				log.Printf("[Live] Snapshot failed: %v", err)
				continue
			}
			p.hub.Broadcast("locations", locations)
		}
	}
}
