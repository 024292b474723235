package trigger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/events"
)

// Test coordinates: a 100m geofence in central Berlin, with fixes well
// inside and roughly 1.5km outside.
var (
	testRegion  = domain.Region{Latitude: 52.5200, Longitude: 13.4050, RadiusMeters: 100}
	insideFix   = fix{lat: 52.5201, lng: 13.4051}
	outsideFix  = fix{lat: 52.5340, lng: 13.4050}
	farAwayFix  = fix{lat: 48.8566, lng: 2.3522}
	testContext = context.Background()
)

func TestRegionSourceEnterFires(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	reminderID := uuid.New()

	require.NoError(t, source.Register(testContext, reminderID, testRegion))

	// Baseline outside, then enter.
	require.NoError(t, source.UpdateLocation(testContext, outsideFix.lat, outsideFix.lng))
	assert.Equal(t, 0, emitter.count())

	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))
	require.Equal(t, 1, emitter.count())
	assert.Equal(t, reminderID, emitter.events[0].ReminderID)
	assert.Equal(t, events.FireSourceRegion, emitter.events[0].Source)
}

func TestRegionSourceExitFires(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	reminderID := uuid.New()

	// Force the inside state to exercise the exit path in isolation; the
	// enter path would otherwise consume the registration first.
	require.NoError(t, source.Register(testContext, reminderID, testRegion))
	source.mu.Lock()
	source.regions[reminderID].state = containmentInside
	source.mu.Unlock()

	require.NoError(t, source.UpdateLocation(testContext, outsideFix.lat, outsideFix.lng))
	require.Equal(t, 1, emitter.count())
	assert.Equal(t, reminderID, emitter.events[0].ReminderID)
}

func TestRegionSourceFirstFixInsideFires(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	reminderID := uuid.New()

	require.NoError(t, source.Register(testContext, reminderID, testRegion))

	// No baseline yet: an inside first fix counts as an enter.
	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))
	assert.Equal(t, 1, emitter.count())
}

func TestRegionSourceFiresAtMostOnce(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	reminderID := uuid.New()

	require.NoError(t, source.Register(testContext, reminderID, testRegion))
	require.NoError(t, source.UpdateLocation(testContext, outsideFix.lat, outsideFix.lng))
	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))
	require.Equal(t, 1, emitter.count())

	// The fired registration is gone; bouncing in and out stays silent.
	require.NoError(t, source.UpdateLocation(testContext, outsideFix.lat, outsideFix.lng))
	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))
	assert.Equal(t, 1, emitter.count())
}

func TestRegionSourceEnterOnRegister(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	reminderID := uuid.New()

	// The device is already inside when the registration arrives.
	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))
	require.NoError(t, source.Register(testContext, reminderID, testRegion))

	event, ok := emitter.waitForFire(2 * time.Second)
	require.True(t, ok, "expected enter-on-register to fire")
	assert.Equal(t, reminderID, event.ReminderID)

	// The registration never entered the live table.
	source.mu.Lock()
	assert.Empty(t, source.regions)
	source.mu.Unlock()
}

func TestRegionSourceUnregister(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	reminderID := uuid.New()

	require.NoError(t, source.Register(testContext, reminderID, testRegion))
	require.NoError(t, source.Unregister(testContext, reminderID))

	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))
	assert.Equal(t, 0, emitter.count())

	// Unregistering twice is a no-op.
	require.NoError(t, source.Unregister(testContext, reminderID))
}

func TestRegionSourceInvalidInputs(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())

	err := source.Register(testContext, uuid.New(), domain.Region{Latitude: 91, Longitude: 0, RadiusMeters: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)

	err = source.Register(testContext, uuid.New(), domain.Region{Latitude: 0, Longitude: 0, RadiusMeters: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRadius)

	err = source.UpdateLocation(testContext, 120, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestRegionSourceIndependentRegions(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewRegionSource(emitter, slog.Default())
	berlinID := uuid.New()
	parisID := uuid.New()

	parisRegion := domain.Region{Latitude: farAwayFix.lat, Longitude: farAwayFix.lng, RadiusMeters: 100}

	require.NoError(t, source.Register(testContext, berlinID, testRegion))
	require.NoError(t, source.Register(testContext, parisID, parisRegion))

	require.NoError(t, source.UpdateLocation(testContext, outsideFix.lat, outsideFix.lng))
	require.NoError(t, source.UpdateLocation(testContext, insideFix.lat, insideFix.lng))

	// Only the Berlin fence fired; the Paris one is still live.
	require.Equal(t, 1, emitter.count())
	assert.Equal(t, berlinID, emitter.events[0].ReminderID)

	source.mu.Lock()
	_, stillRegistered := source.regions[parisID]
	source.mu.Unlock()
	assert.True(t, stillRegistered)
}

func TestHaversineMeters(t *testing.T) {
	// Berlin to Paris is roughly 878km.
	distance := haversineMeters(52.5200, 13.4050, 48.8566, 2.3522)
	assert.InDelta(t, 878000, distance, 10000)

	// Identical points.
	assert.Equal(t, 0.0, haversineMeters(10, 20, 10, 20))
}
