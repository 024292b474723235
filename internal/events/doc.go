// Package events provides the fire-event dispatch seam between the trigger
// sources and the reminder lifecycle core. Both the wall-clock scheduler and
// the geofence monitor emit FireEvents through an EventEmitter; the core
// registers a single handler, so every fire resolves to the same entry point
// regardless of which source raised it.
package events
