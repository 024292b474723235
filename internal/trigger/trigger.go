package trigger

import (
	"context"
	"time"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/google/uuid"
)

// TimeScheduler is the contract the lifecycle core consumes for wall-clock
// reminders. Scheduling the same reminder ID again replaces the prior
// schedule. Cancel is a no-op for unknown IDs.
type TimeScheduler interface {
	// Schedule arranges for a fire event to be emitted for reminderID once,
	// at or after triggerAt. Past-dated instants are silently dropped.
	Schedule(ctx context.Context, reminderID uuid.UUID, triggerAt time.Time) error

	// Cancel removes any pending schedule for reminderID.
	Cancel(ctx context.Context, reminderID uuid.UUID) error
}

// RegionMonitor is the contract the lifecycle core consumes for geofence
// reminders. A registration fires on the first enter-or-exit transition,
// whichever comes first. Unregister is a no-op for unknown IDs.
type RegionMonitor interface {
	// Register begins monitoring the region for reminderID. May fire
	// immediately if the last known location is already inside the region.
	Register(ctx context.Context, reminderID uuid.UUID, region domain.Region) error

	// Unregister stops monitoring the region for reminderID.
	Unregister(ctx context.Context, reminderID uuid.UUID) error
}
