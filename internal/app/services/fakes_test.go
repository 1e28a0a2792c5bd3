package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/auth"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/export"
)

// memDB is an in-memory stand-in for every store the services use
type memDB struct {
	mu            sync.Mutex
	events        map[uuid.UUID]*models.Event
	organizers    map[uuid.UUID]*models.Organizer
	exhibitors    map[uuid.UUID]*models.Exhibitor
	applications  map[uuid.UUID]*models.Application
	notifications map[uuid.UUID]*models.Notification

	// CreateNotificationFunc overrides notification inserts when set
	CreateNotificationFunc func(n *models.Notification) error
}

func newMemDB() *memDB {
	return &memDB{
		events:        map[uuid.UUID]*models.Event{},
		organizers:    map[uuid.UUID]*models.Organizer{},
		exhibitors:    map[uuid.UUID]*models.Exhibitor{},
		applications:  map[uuid.UUID]*models.Application{},
		notifications: map[uuid.UUID]*models.Notification{},
	}
}

func strPtr(s string) *string { return &s }

func (db *memDB) addOrganizer(keys models.AccountKeys, email string) *models.Organizer {
	o := &models.Organizer{ID: uuid.New(), AccountKeys: keys, OrganizerProfile: models.OrganizerProfile{Name: "Org", Email: email}}
	db.organizers[o.ID] = o
	return o
}

func (db *memDB) addExhibitor(keys models.AccountKeys) *models.Exhibitor {
	e := &models.Exhibitor{ID: uuid.New(), AccountKeys: keys, ExhibitorProfile: models.ExhibitorProfile{Name: "Stall"}}
	db.exhibitors[e.ID] = e
	return e
}

func (db *memDB) addEvent(organizerID uuid.UUID) *models.Event {
	ev := &models.Event{ID: uuid.New(), OrganizerID: organizerID, Name: "秋マルシェ", ApprovalStatus: models.EventApprovalApproved}
	db.events[ev.ID] = ev
	return ev
}

func (db *memDB) notificationsFor(rcpt models.Recipient) []*models.Notification {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.Notification
	for _, n := range db.notifications {
		if n.Recipient() == rcpt {
			out = append(out, n)
		}
	}
	return out
}

func (db *memDB) applicationCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.applications)
}

type eventStore struct{ *memDB }

func (s eventStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (s eventStore) Create(ctx context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.New()
	e.ApprovalStatus = models.EventApprovalPending
	s.events[e.ID] = e
	return nil
}

func (s eventStore) Update(ctx context.Context, e *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.events[e.ID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	cp := *e
	cp.OrganizerID = stored.OrganizerID
	cp.ApprovalStatus = stored.ApprovalStatus
	cp.IsApplicationClosed = stored.IsApplicationClosed
	s.events[e.ID] = &cp
	out := cp
	return &out, nil
}

func (s eventStore) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Event
	for _, ev := range s.events {
		if ev.OrganizerID == organizerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s eventStore) ListOpen(ctx context.Context, f models.EventFilter, offset uint64, limit int) ([]*models.Event, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Event
	for _, ev := range s.events {
		if ev.ApprovalStatus == models.EventApprovalApproved && ev.AcceptsApplications(f.Today) {
			out = append(out, ev)
		}
	}
	return out, int64(len(out)), nil
}

func (s eventStore) ListPastDeadline(ctx context.Context, day time.Time) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Event
	for _, ev := range s.events {
		if !ev.IsApplicationClosed && ev.ApplicationEndDate != nil && ev.ApplicationEndDate.Before(day) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s eventStore) MarkApplicationsClosed(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok || ev.IsApplicationClosed {
		return apperrors.ErrApplicationsClosed
	}
	ev.IsApplicationClosed = true
	return nil
}

func (s eventStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

type organizerStore struct{ *memDB }

func (s organizerStore) find(match func(o *models.Organizer) bool) (*models.Organizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.organizers {
		if match(o) {
			return o, nil
		}
	}
	return nil, apperrors.ErrOrganizerNotFound
}

func (s organizerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Organizer, error) {
	return s.find(func(o *models.Organizer) bool { return o.ID == id })
}

func (s organizerStore) FindByUserID(ctx context.Context, id string) (*models.Organizer, error) {
	return s.find(func(o *models.Organizer) bool { return o.UserID != nil && *o.UserID == id })
}

func (s organizerStore) FindByLineUserID(ctx context.Context, id string) (*models.Organizer, error) {
	return s.find(func(o *models.Organizer) bool { return o.LineUserID != nil && *o.LineUserID == id })
}

func (s organizerStore) Create(ctx context.Context, o *models.Organizer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.New()
	s.organizers[o.ID] = o
	return nil
}

func (s organizerStore) UpdateProfile(ctx context.Context, id uuid.UUID, p models.OrganizerProfile) (*models.Organizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.organizers[id]
	if !ok {
		return nil, apperrors.ErrOrganizerNotFound
	}
	o.OrganizerProfile = p
	return o, nil
}

type exhibitorStore struct{ *memDB }

func (s exhibitorStore) find(match func(e *models.Exhibitor) bool) (*models.Exhibitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.exhibitors {
		if match(e) {
			return e, nil
		}
	}
	return nil, apperrors.ErrExhibitorNotFound
}

func (s exhibitorStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Exhibitor, error) {
	return s.find(func(e *models.Exhibitor) bool { return e.ID == id })
}

func (s exhibitorStore) FindByUserID(ctx context.Context, id string) (*models.Exhibitor, error) {
	return s.find(func(e *models.Exhibitor) bool { return e.UserID != nil && *e.UserID == id })
}

func (s exhibitorStore) FindByLineUserID(ctx context.Context, id string) (*models.Exhibitor, error) {
	return s.find(func(e *models.Exhibitor) bool { return e.LineUserID != nil && *e.LineUserID == id })
}

func (s exhibitorStore) Create(ctx context.Context, e *models.Exhibitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.New()
	s.exhibitors[e.ID] = e
	return nil
}

func (s exhibitorStore) UpdateProfile(ctx context.Context, id uuid.UUID, p models.ExhibitorProfile) (*models.Exhibitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exhibitors[id]
	if !ok {
		return nil, apperrors.ErrExhibitorNotFound
	}
	e.ExhibitorProfile = p
	return e, nil
}

func (s exhibitorStore) UpdateDocument(ctx context.Context, id uuid.UUID, kind models.DocumentKind, url string) (*models.Exhibitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exhibitors[id]
	if !ok {
		return nil, apperrors.ErrExhibitorNotFound
	}
	switch kind {
	case models.DocumentBusinessLicense:
		e.Documents.BusinessLicenseImageURL = url
	case models.DocumentPLInsurance:
		e.Documents.PLInsuranceImageURL = url
	default:
		return nil, apperrors.ErrInvalidDocumentKind
	}
	return e, nil
}

// applicationStore mirrors the locked insert: the existence check and the
// insert happen under one mutex like under the event row lock
type applicationStore struct{ *memDB }

func (s applicationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (s applicationStore) existsLocked(exhibitorID, eventID uuid.UUID) bool {
	for _, a := range s.applications {
		if a.ExhibitorID == exhibitorID && a.EventID == eventID {
			return true
		}
	}
	return false
}

func (s applicationStore) ExistsForExhibitor(ctx context.Context, exhibitorID, eventID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existsLocked(exhibitorID, eventID), nil
}

func (s applicationStore) CreatePending(ctx context.Context, exhibitorID, eventID uuid.UUID, today time.Time) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok || !ev.IsApproved() {
		return nil, apperrors.ErrEventNotFound
	}
	if !ev.AcceptsApplications(today) {
		return nil, apperrors.ErrApplicationsClosed
	}
	if s.existsLocked(exhibitorID, eventID) {
		return nil, apperrors.ErrDuplicateApplication
	}
	a := &models.Application{
		ID:          uuid.New(),
		ExhibitorID: exhibitorID,
		EventID:     eventID,
		Status:      models.ApplicationStatusPending,
		AppliedAt:   today,
		UpdatedAt:   today,
	}
	s.applications[a.ID] = a
	cp := *a
	return &cp, nil
}

func (s applicationStore) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok || a.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrInvalidTransition
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (s applicationStore) ListByExhibitor(ctx context.Context, exhibitorID uuid.UUID) ([]*models.ApplicationWithEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ApplicationWithEvent
	for _, a := range s.applications {
		if a.ExhibitorID == exhibitorID {
			out = append(out, &models.ApplicationWithEvent{Application: *a, Event: s.events[a.EventID].Summary()})
		}
	}
	return out, nil
}

func (s applicationStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.ApplicationWithExhibitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ApplicationWithExhibitor
	for _, a := range s.applications {
		if a.EventID == eventID {
			x := s.exhibitors[a.ExhibitorID]
			out = append(out, &models.ApplicationWithExhibitor{
				Application: *a,
				Exhibitor:   models.ExhibitorContact{ID: x.ID, Name: x.Name, Email: x.Email},
			})
		}
	}
	return out, nil
}

type notificationStore struct{ *memDB }

func (s notificationStore) Create(ctx context.Context, n *models.Notification) error {
	if s.CreateNotificationFunc != nil {
		if err := s.CreateNotificationFunc(n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	s.notifications[n.ID] = n
	return nil
}

func (s notificationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	return n, nil
}

func (s notificationStore) ListForRecipient(ctx context.Context, rcpt models.Recipient, offset uint64, limit int) ([]*models.Notification, int64, error) {
	items := s.notificationsFor(rcpt)
	total := int64(len(items))
	if int(offset) >= len(items) {
		return []*models.Notification{}, total, nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

func (s notificationStore) CountUnread(ctx context.Context, rcpt models.Recipient) (int64, error) {
	var count int64
	for _, n := range s.notificationsFor(rcpt) {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s notificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (s notificationStore) MarkAllRead(ctx context.Context, rcpt models.Recipient) (int64, error) {
	var updated int64
	for _, n := range s.notificationsFor(rcpt) {
		if !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeExporter struct {
	ExportFunc func(ctx context.Context, req export.Request) (*export.Result, error)
	calls      []export.Request
}

func (f *fakeExporter) Export(ctx context.Context, req export.Request) (*export.Result, error) {
	f.calls = append(f.calls, req)
	if f.ExportFunc == nil {
		return nil, fmt.Errorf("no export configured")
	}
	return f.ExportFunc(ctx, req)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.Notification
}

func (p *fakePublisher) Publish(n *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
}

type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFileWithPath(h *multipart.FileHeader, path string) (string, error) {
	url := fmt.Sprintf("/uploads/%s/%d-%s", path, len(f.saved), h.Filename)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// fixture wires every service against one memDB with a synchronous fan-out
type fixture struct {
	db        *memDB
	mailer    *fakeMailer
	exporter  *fakeExporter
	publisher *fakePublisher
	storage   *fakeStorage

	resolver      *auth.IdentityResolver
	notifications NotificationService
	applications  ApplicationService
	events        EventService
	exhibitors    ExhibitorService
	organizers    OrganizerService
}

func newFixture(notifyExhibitor bool) *fixture {
	db := newMemDB()
	f := &fixture{
		db:        db,
		mailer:    &fakeMailer{},
		exporter:  &fakeExporter{},
		publisher: &fakePublisher{},
		storage:   &fakeStorage{},
	}
	log := zerolog.Nop()

	f.resolver = auth.NewIdentityResolver(exhibitorStore{db}, organizerStore{db})
	authz := auth.NewAuthorizationService(eventStore{db})
	f.notifications = NewNotificationService(notificationStore{db}, f.publisher, authz, log)
	f.applications = NewApplicationService(ApplicationServiceDeps{
		Applications:              applicationStore{db},
		Events:                    eventStore{db},
		Organizers:                organizerStore{db},
		Exhibitors:                exhibitorStore{db},
		Resolver:                  f.resolver,
		Authz:                     authz,
		Notifications:             f.notifications,
		Mailer:                    f.mailer,
		Exporter:                  f.exporter,
		FanOut:                    NewFanOut(false, time.Second, log),
		Logger:                    log,
		NotifyExhibitorOnDecision: notifyExhibitor,
	})
	f.events = NewEventService(eventStore{db}, authz)
	f.exhibitors = NewExhibitorService(exhibitorStore{db}, f.resolver, f.storage)
	f.organizers = NewOrganizerService(organizerStore{db}, f.resolver)
	return f
}
