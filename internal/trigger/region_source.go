package trigger

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/events"
	"github.com/google/uuid"
)

// containment tracks whether the device was last seen inside a region.
type containment int

const (
	containmentUnknown containment = iota
	containmentInside
	containmentOutside
)

// fix is a reported device location.
type fix struct {
	lat float64
	lng float64
}

// regionEntry is a live geofence registration.
type regionEntry struct {
	region domain.Region
	state  containment
}

// RegionSource monitors circular geofences against device location fixes
// reported via UpdateLocation. A registration fires on the first
// enter-or-exit transition, whichever comes first, and is removed once
// fired; subsequent transitions for that region are never delivered.
type RegionSource struct {
	emitter events.FireEmitter
	logger  *slog.Logger

	mu      sync.Mutex
	regions map[uuid.UUID]*regionEntry
	lastFix *fix
}

// NewRegionSource creates a RegionSource delivering fires through the given emitter.
func NewRegionSource(emitter events.FireEmitter, logger *slog.Logger) *RegionSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegionSource{
		emitter: emitter,
		logger:  logger.With("component", "region_source"),
		regions: make(map[uuid.UUID]*regionEntry),
	}
}

// Ensure RegionSource implements RegionMonitor
var _ RegionMonitor = (*RegionSource)(nil)

// Register begins monitoring the region for reminderID. If the last known
// fix is already inside the region, the registration fires immediately
// (enter-on-register). Registering the same ID again replaces the entry.
func (s *RegionSource) Register(ctx context.Context, reminderID uuid.UUID, region domain.Region) error {
	if err := region.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	entry := &regionEntry{region: region}
	if s.lastFix != nil {
		if withinRegion(s.lastFix.lat, s.lastFix.lng, region) {
			// Already inside: enter-on-register. Delivered asynchronously,
			// the way an OS geofence callback would arrive; the caller may
			// still hold the note's lock.
			s.mu.Unlock()
			s.logger.Debug("region entered at registration",
				"reminder_id", reminderID)
			go s.fire(context.Background(), reminderID)
			return nil
		}
		entry.state = containmentOutside
	}
	s.regions[reminderID] = entry
	s.mu.Unlock()

	s.logger.Debug("registered geofence",
		"reminder_id", reminderID,
		"latitude", region.Latitude,
		"longitude", region.Longitude,
		"radius_meters", region.RadiusMeters)
	return nil
}

// Unregister stops monitoring the region for reminderID. No-op if not registered.
func (s *RegionSource) Unregister(ctx context.Context, reminderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.regions[reminderID]; ok {
		delete(s.regions, reminderID)
		s.logger.Debug("unregistered geofence", "reminder_id", reminderID)
	}
	return nil
}

// UpdateLocation records a device location fix and evaluates every live
// registration for an enter or exit transition. The first fix establishes
// a baseline: inside counts as an enter and fires, outside only sets state.
func (s *RegionSource) UpdateLocation(ctx context.Context, lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return domain.ErrInvalidCoordinates
	}

	s.mu.Lock()
	s.lastFix = &fix{lat: lat, lng: lng}

	var fired []uuid.UUID
	for id, entry := range s.regions {
		inside := withinRegion(lat, lng, entry.region)

		switch entry.state {
		case containmentUnknown:
			if inside {
				fired = append(fired, id)
			} else {
				entry.state = containmentOutside
			}
		case containmentInside:
			if !inside {
				fired = append(fired, id)
			}
		case containmentOutside:
			if inside {
				fired = append(fired, id)
			}
		}
	}

	// Tear down fired registrations before releasing the lock so a
	// concurrent fix cannot fire them twice.
	for _, id := range fired {
		delete(s.regions, id)
	}
	s.mu.Unlock()

	for _, id := range fired {
		s.fire(ctx, id)
	}
	return nil
}

// fire dispatches a region fire event. Called without the lock held, since
// the handler may call back into Unregister.
func (s *RegionSource) fire(ctx context.Context, reminderID uuid.UUID) {
	event := events.NewFireEvent(reminderID, events.FireSourceRegion)
	if err := s.emitter.EmitFire(ctx, event); err != nil {
		s.logger.Error("failed to dispatch region fire",
			"error", err,
			"reminder_id", reminderID,
			"event_id", event.ID)
	}
}

// earthRadiusMeters is the mean Earth radius used for haversine distance.
const earthRadiusMeters = 6371000.0

// withinRegion reports whether the point lies inside the circular region.
func withinRegion(lat, lng float64, region domain.Region) bool {
	return haversineMeters(lat, lng, region.Latitude, region.Longitude) <= region.RadiusMeters
}

// haversineMeters computes the great-circle distance between two coordinates.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
