// Package trigger implements the two trigger sources that fire reminders:
// a wall-clock scheduler (TimeSource) and a geofence monitor (RegionSource).
// Both deliver fires through the events package so the lifecycle core sees a
// single dispatch point. Registrations live in memory only; the core re-arms
// them from the store on startup.
package trigger
