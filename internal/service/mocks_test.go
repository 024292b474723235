package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/store"
	"github.com/anchornotes/anchornotes/internal/trigger"
	"github.com/google/uuid"
)

// fakeNoteStore is an in-memory store.NoteStore for service tests.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]domain.Note
}

var _ store.NoteStore = (*fakeNoteStore)(nil)

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[uuid.UUID]domain.Note)}
}

func (f *fakeNoteStore) Create(ctx context.Context, note *domain.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[note.ID] = *note
	return nil
}

func (f *fakeNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	copy := note
	return &copy, nil
}

func (f *fakeNoteStore) Update(ctx context.Context, note *domain.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[note.ID]; !ok {
		return store.ErrNoteNotFound
	}
	f.notes[note.ID] = *note
	return nil
}

func (f *fakeNoteStore) UpdateReminderRef(ctx context.Context, noteID uuid.UUID, reminderID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[noteID]
	if !ok {
		return store.ErrNoteNotFound
	}
	note.ReminderID = reminderID
	note.UpdatedAt = time.Now().UTC()
	f.notes[noteID] = note
	return nil
}

func (f *fakeNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[id]; !ok {
		return store.ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeNoteStore) List(ctx context.Context, limit, offset int) ([]*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes := make([]*domain.Note, 0, len(f.notes))
	for _, note := range f.notes {
		copy := note
		notes = append(notes, &copy)
	}
	return notes, nil
}

func (f *fakeNoteStore) WithTx(tx *sql.Tx) store.NoteStore { return f }

// fakeReminderStore is an in-memory store.ReminderStore for service tests.
type fakeReminderStore struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]domain.Reminder
}

var _ store.ReminderStore = (*fakeReminderStore)(nil)

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{reminders: make(map[uuid.UUID]domain.Reminder)}
}

func (f *fakeReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reminder.Active {
		for _, existing := range f.reminders {
			if existing.NoteID == reminder.NoteID && existing.Active {
				return store.ErrActiveReminderExists
			}
		}
	}
	f.reminders[reminder.ID] = *reminder
	return nil
}

func (f *fakeReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reminder, ok := f.reminders[id]
	if !ok {
		return nil, store.ErrReminderNotFound
	}
	copy := reminder
	return &copy, nil
}

func (f *fakeReminderStore) GetActiveByNoteID(ctx context.Context, noteID uuid.UUID) (*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reminder := range f.reminders {
		if reminder.NoteID == noteID && reminder.Active {
			copy := reminder
			return &copy, nil
		}
	}
	return nil, store.ErrReminderNotFound
}

func (f *fakeReminderStore) Update(ctx context.Context, reminder *domain.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reminders[reminder.ID]; !ok {
		return store.ErrReminderNotFound
	}
	f.reminders[reminder.ID] = *reminder
	return nil
}

func (f *fakeReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reminders[id]; !ok {
		return store.ErrReminderNotFound
	}
	delete(f.reminders, id)
	return nil
}

func (f *fakeReminderStore) FindActive(ctx context.Context) ([]*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reminders []*domain.Reminder
	for _, reminder := range f.reminders {
		if reminder.Active {
			copy := reminder
			reminders = append(reminders, &copy)
		}
	}
	return reminders, nil
}

func (f *fakeReminderStore) WithTx(tx *sql.Tx) store.ReminderStore { return f }

func (f *fakeReminderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reminders)
}

// fakeTimeScheduler records schedule/cancel calls.
type fakeTimeScheduler struct {
	mu          sync.Mutex
	scheduled   map[uuid.UUID]time.Time
	cancelled   []uuid.UUID
	scheduleErr error
}

var _ trigger.TimeScheduler = (*fakeTimeScheduler)(nil)

func newFakeTimeScheduler() *fakeTimeScheduler {
	return &fakeTimeScheduler{scheduled: make(map[uuid.UUID]time.Time)}
}

func (f *fakeTimeScheduler) Schedule(ctx context.Context, reminderID uuid.UUID, triggerAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled[reminderID] = triggerAt
	return nil
}

func (f *fakeTimeScheduler) Cancel(ctx context.Context, reminderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, reminderID)
	f.cancelled = append(f.cancelled, reminderID)
	return nil
}

func (f *fakeTimeScheduler) isScheduled(reminderID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.scheduled[reminderID]
	return ok
}

func (f *fakeTimeScheduler) wasCancelled(reminderID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.cancelled {
		if id == reminderID {
			return true
		}
	}
	return false
}

// fakeRegionMonitor records register/unregister calls.
type fakeRegionMonitor struct {
	mu           sync.Mutex
	registered   map[uuid.UUID]domain.Region
	unregistered []uuid.UUID
	registerErr  error
}

var _ trigger.RegionMonitor = (*fakeRegionMonitor)(nil)

func newFakeRegionMonitor() *fakeRegionMonitor {
	return &fakeRegionMonitor{registered: make(map[uuid.UUID]domain.Region)}
}

func (f *fakeRegionMonitor) Register(ctx context.Context, reminderID uuid.UUID, region domain.Region) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered[reminderID] = region
	return nil
}

func (f *fakeRegionMonitor) Unregister(ctx context.Context, reminderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.registered, reminderID)
	f.unregistered = append(f.unregistered, reminderID)
	return nil
}

func (f *fakeRegionMonitor) isRegistered(reminderID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.registered[reminderID]
	return ok
}

// fakeTagStore is an in-memory store.TagStore for service tests.
type fakeTagStore struct {
	mu          sync.Mutex
	tags        map[uuid.UUID]domain.Tag
	attachments map[uuid.UUID][]uuid.UUID // noteID -> tagIDs
}

var _ store.TagStore = (*fakeTagStore)(nil)

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{
		tags:        make(map[uuid.UUID]domain.Tag),
		attachments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tags {
		if existing.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	f.tags[tag.ID] = *tag
	return nil
}

func (f *fakeTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.tags {
		if tag.Name == name {
			copy := tag
			return &copy, nil
		}
	}
	return nil, store.ErrTagNotFound
}

func (f *fakeTagStore) List(ctx context.Context) ([]*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tags := make([]*domain.Tag, 0, len(f.tags))
	for _, tag := range f.tags {
		copy := tag
		tags = append(tags, &copy)
	}
	return tags, nil
}

func (f *fakeTagStore) ListForNote(ctx context.Context, noteID uuid.UUID) ([]*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tags []*domain.Tag
	for _, tagID := range f.attachments[noteID] {
		if tag, ok := f.tags[tagID]; ok {
			copy := tag
			tags = append(tags, &copy)
		}
	}
	return tags, nil
}

func (f *fakeTagStore) AttachToNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.attachments[noteID] {
		if id == tagID {
			return nil
		}
	}
	f.attachments[noteID] = append(f.attachments[noteID], tagID)
	return nil
}

func (f *fakeTagStore) DetachFromNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.attachments[noteID]
	for i, id := range ids {
		if id == tagID {
			f.attachments[noteID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeTagStore) WithTx(tx *sql.Tx) store.TagStore { return f }

// fakeNotifier records delivered notifications.
type fakeNotifier struct {
	mu            sync.Mutex
	notifications []notification
}

type notification struct {
	noteID uuid.UUID
	title  string
	body   string
}

var _ Notifier = (*fakeNotifier)(nil)

func (f *fakeNotifier) Notify(ctx context.Context, noteID uuid.UUID, title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, notification{noteID: noteID, title: title, body: body})
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

// passthroughTx bypasses real transaction management so service logic can
// be exercised against the in-memory fakes.
func passthroughTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}
