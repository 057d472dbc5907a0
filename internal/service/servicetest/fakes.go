// Package servicetest provides in-memory stores that satisfy the service
// ports. They mirror the MySQL repositories closely enough for service and
// HTTP tests: same sentinel errors, same ordering, same limits.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/identity"
	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/repository"
	"github.com/iliyamo/fleetease-rental/internal/service"
)

var (
	_ service.UserStore         = (*Users)(nil)
	_ service.SessionStore      = (*Sessions)(nil)
	_ service.VehicleStore      = (*Catalog)(nil)
	_ service.LocationStore     = Locations{}
	_ service.CampaignStore     = (*Catalog)(nil)
	_ service.CatalogSeeder     = (*Catalog)(nil)
	_ service.ReservationStore  = (*Reservations)(nil)
	_ service.NotificationStore = (*Notifications)(nil)
	_ service.IdentityProvider  = (*Identity)(nil)
	_ service.Notifier          = (*RecordingNotifier)(nil)
	_ service.Pusher            = (*RecordingPusher)(nil)
	_ service.CachePurger       = (*CountingPurger)(nil)
)

// Users keeps users by id.
type Users struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func NewUsers() *Users { return &Users{byID: map[string]model.User{}} }

func (s *Users) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.byID {
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Phone != nil && other.Phone != nil && *other.Phone == *u.Phone {
			return repository.ErrDuplicatePhone
		}
	}
	s.byID[u.ID] = *u
	return nil
}

func (s *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Users) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Phone != nil && *u.Phone == phone {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Users) UpdateProfile(_ context.Context, id string, upd model.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Phone != nil {
		for oid, other := range s.byID {
			if oid != id && other.Phone != nil && *other.Phone == *upd.Phone {
				return repository.ErrDuplicatePhone
			}
		}
	}
	upd.Apply(&u)
	s.byID[id] = u
	return nil
}

// LinkExternal keeps an existing picture, like COALESCE in SQL.
func (s *Users) LinkExternal(_ context.Context, id, externalID string, picture *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	ext := externalID
	u.ExternalID = &ext
	if u.Picture == nil {
		u.Picture = picture
	}
	s.byID[id] = u
	return nil
}

// Len reports the number of stored users.
func (s *Users) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sessions keeps sessions by token hash.
type Sessions struct {
	mu     sync.Mutex
	byHash map[string]model.Session
}

func NewSessions() *Sessions { return &Sessions{byHash: map[string]model.Session{}} }

func (s *Sessions) Create(_ context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[sess.TokenHash] = sess
	return nil
}

func (s *Sessions) Get(_ context.Context, tokenHash string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byHash[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (s *Sessions) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byHash, tokenHash)
	return nil
}

func (s *Sessions) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for h, sess := range s.byHash {
		if !sess.ExpiresAt.After(before) {
			delete(s.byHash, h)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byHash)
}

// Catalog holds vehicles, locations and campaigns in insertion order.
type Catalog struct {
	mu        sync.Mutex
	vehicles  []model.Vehicle
	locations []model.Location
	campaigns []model.Campaign
}

func NewCatalog() *Catalog { return &Catalog{} }

// AddVehicles appends vehicles as if inserted in that order.
func (c *Catalog) AddVehicles(vs ...model.Vehicle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicles = append(c.vehicles, vs...)
}

func (c *Catalog) AddLocations(ls ...model.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locations = append(c.locations, ls...)
}

func (c *Catalog) AddCampaigns(cs ...model.Campaign) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.campaigns = append(c.campaigns, cs...)
}

// SetAvailable flips a vehicle's availability flag.
func (c *Catalog) SetAvailable(id string, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.vehicles {
		if c.vehicles[i].ID == id {
			c.vehicles[i].Available = available
		}
	}
}

func (c *Catalog) List(_ context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []model.Vehicle{}
	for _, v := range c.vehicles {
		if matchVehicle(v, f) {
			out = append(out, v)
		}
	}
	asc := f.SortOrder == "asc"
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return vehicleLess(out[i], out[j], f.SortBy)
		}
		return vehicleLess(out[j], out[i], f.SortBy)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matchVehicle(v model.Vehicle, f model.VehicleFilter) bool {
	switch {
	case f.Segment != "" && v.Segment != f.Segment:
		return false
	case f.Brand != "" && !strings.Contains(strings.ToLower(v.Brand), strings.ToLower(f.Brand)):
		return false
	case f.Transmission != "" && v.Transmission != f.Transmission:
		return false
	case f.FuelType != "" && v.FuelType != f.FuelType:
		return false
	case f.MinPrice != nil && v.DailyPrice < *f.MinPrice:
		return false
	case f.MaxPrice != nil && v.DailyPrice > *f.MaxPrice:
		return false
	case f.Available != nil && v.Available != *f.Available:
		return false
	}
	return true
}

// vehicleLess covers the sort fields the tests use; others fall back to
// daily_price.
func vehicleLess(a, b model.Vehicle, field string) bool {
	switch field {
	case "brand":
		return a.Brand < b.Brand
	case "model":
		return a.Model < b.Model
	case "year":
		return a.Year < b.Year
	case "km":
		return a.Km < b.Km
	case "seats":
		return a.Seats < b.Seats
	case "deposit":
		return a.Deposit < b.Deposit
	case "vehicle_id":
		return a.ID < b.ID
	}
	return a.DailyPrice < b.DailyPrice
}

func (c *Catalog) ListAvailable(_ context.Context, limit int) ([]model.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []model.Vehicle{}
	for _, v := range c.vehicles {
		if v.Available {
			out = append(out, v)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (c *Catalog) Get(_ context.Context, id string) (*model.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.vehicles {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *Catalog) listLocations(city string, limit int) []model.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []model.Location{}
	for _, l := range c.locations {
		if city != "" && !strings.Contains(strings.ToLower(l.City), strings.ToLower(city)) {
			continue
		}
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (c *Catalog) ListActive(_ context.Context, now time.Time, limit int) ([]model.Campaign, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []model.Campaign{}
	for _, cp := range c.campaigns {
		if cp.Active && cp.ValidUntil.After(now) {
			out = append(out, cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (c *Catalog) ReplaceCatalog(_ context.Context, vs []model.Vehicle, ls []model.Location, cs []model.Campaign) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicles = append([]model.Vehicle(nil), vs...)
	c.locations = append([]model.Location(nil), ls...)
	c.campaigns = append([]model.Campaign(nil), cs...)
	return nil
}

// Counts reports how many vehicles, locations and campaigns are stored.
func (c *Catalog) Counts() (int, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vehicles), len(c.locations), len(c.campaigns)
}

// Locations adapts a Catalog to LocationStore; Catalog.List already
// serves vehicles.
type Locations struct{ C *Catalog }

func (l Locations) List(_ context.Context, city string, limit int) ([]model.Location, error) {
	return l.C.listLocations(city, limit), nil
}

// Reservations keeps reservations in insertion order.
type Reservations struct {
	mu    sync.Mutex
	items []model.Reservation
}

func NewReservations() *Reservations { return &Reservations{} }

func (s *Reservations) Create(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	cp.Extras = append([]string{}, r.Extras...)
	s.items = append(s.items, cp)
	return nil
}

func (s *Reservations) GetForUser(_ context.Context, id, userID string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.ID == id && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Reservations) ListByUser(_ context.Context, userID, status string, limit int) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Reservation{}
	for i := len(s.items) - 1; i >= 0; i-- {
		r := s.items[i]
		if r.UserID != userID || (status != "" && r.Status != status) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Reservations) UpdateStatus(_ context.Context, id, userID, status string) error {
	return s.update(id, userID, func(r *model.Reservation) { r.Status = status })
}

func (s *Reservations) SetPayment(_ context.Context, id, userID, paymentStatus, status string) error {
	return s.update(id, userID, func(r *model.Reservation) {
		r.PaymentStatus = paymentStatus
		r.Status = status
	})
}

// ForceStatus sets a status directly, for states no endpoint reaches.
func (s *Reservations) ForceStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
		}
	}
}

func (s *Reservations) update(id, userID string, fn func(*model.Reservation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			fn(&s.items[i])
			return nil
		}
	}
	return repository.ErrNotFound
}

// Notifications keeps notifications in insertion order.
type Notifications struct {
	mu    sync.Mutex
	items []model.Notification
	// Err, when set, is returned by Insert.
	Err error
}

func NewNotifications() *Notifications { return &Notifications{} }

func (s *Notifications) Insert(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.items = append(s.items, *n)
	return nil
}

func (s *Notifications) ListByUser(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Notification{}
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UserID == userID {
			out = append(out, s.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Notifications) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		if it.UserID == userID && !it.Read {
			n++
		}
	}
	return n, nil
}

func (s *Notifications) MarkRead(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Notifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.items {
		if s.items[i].UserID == userID && !s.items[i].Read {
			s.items[i].Read = true
			n++
		}
	}
	return n, nil
}

// All returns a copy of every stored notification.
func (s *Notifications) All() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.items...)
}

// Identity answers FetchSession from a fixed table.
type Identity struct {
	Profiles map[string]identity.Profile
	Err      error
}

func (p *Identity) FetchSession(_ context.Context, sessionID string) (identity.Profile, error) {
	if p.Err != nil {
		return identity.Profile{}, p.Err
	}
	prof, ok := p.Profiles[sessionID]
	if !ok {
		return identity.Profile{}, identity.ErrInvalidSession
	}
	return prof, nil
}

// RecordingNotifier captures drafts and optionally fails.
type RecordingNotifier struct {
	mu     sync.Mutex
	Drafts []model.NotificationDraft
	Err    error
}

func (n *RecordingNotifier) Notify(_ context.Context, d model.NotificationDraft) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Drafts = append(n.Drafts, d)
	return n.Err
}

// Sent returns a copy of the captured drafts.
func (n *RecordingNotifier) Sent() []model.NotificationDraft {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.NotificationDraft(nil), n.Drafts...)
}

// RecordingPusher captures pushed notifications.
type RecordingPusher struct {
	mu     sync.Mutex
	Pushed []model.Notification
}

func (p *RecordingPusher) Push(_ string, n *model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Pushed = append(p.Pushed, *n)
}

// CountingPurger counts Purge calls.
type CountingPurger struct {
	mu    sync.Mutex
	Calls int
}

func (p *CountingPurger) Purge(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	return nil
}
