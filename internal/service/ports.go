package service

import (
	"context"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/identity"
	"github.com/iliyamo/fleetease-rental/internal/model"
)

// Storage ports. The MySQL implementations live in internal/repository and
// the in-memory ones in internal/service/servicetest. Lookups return
// repository.ErrNotFound when nothing matches.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) error
	LinkExternal(ctx context.Context, id, externalID string, picture *string) error
}

type SessionStore interface {
	Create(ctx context.Context, s model.Session) error
	Get(ctx context.Context, tokenHash string) (*model.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type VehicleStore interface {
	List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error)
	ListAvailable(ctx context.Context, limit int) ([]model.Vehicle, error)
	Get(ctx context.Context, id string) (*model.Vehicle, error)
}

type LocationStore interface {
	List(ctx context.Context, city string, limit int) ([]model.Location, error)
}

type CampaignStore interface {
	ListActive(ctx context.Context, now time.Time, limit int) ([]model.Campaign, error)
}

type CatalogSeeder interface {
	ReplaceCatalog(ctx context.Context, vehicles []model.Vehicle, locations []model.Location, campaigns []model.Campaign) error
}

type ReservationStore interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetForUser(ctx context.Context, id, userID string) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID, status string, limit int) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id, userID, status string) error
	SetPayment(ctx context.Context, id, userID, paymentStatus, status string) error
}

type NotificationStore interface {
	Insert(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// IdentityProvider resolves an external session id. Implementations return
// errors wrapping identity.ErrInvalidSession or identity.ErrUnavailable.
type IdentityProvider interface {
	FetchSession(ctx context.Context, sessionID string) (identity.Profile, error)
}

// Notifier delivers lifecycle notifications, synchronously or via a queue.
type Notifier interface {
	Notify(ctx context.Context, d model.NotificationDraft) error
}

// Pusher forwards a stored notification to live connections of its owner.
type Pusher interface {
	Push(userID string, n *model.Notification)
}

// CachePurger drops cached catalog responses.
type CachePurger interface {
	Purge(ctx context.Context) error
}
