package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/fleetease-rental/internal/identity"
	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/service"
	"github.com/iliyamo/fleetease-rental/internal/service/servicetest"
	"github.com/iliyamo/fleetease-rental/internal/utils"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type authFixture struct {
	svc      *service.AuthService
	users    *servicetest.Users
	sessions *servicetest.Sessions
	idp      *servicetest.Identity
	now      *time.Time
}

func newAuth(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    servicetest.NewUsers(),
		sessions: servicetest.NewSessions(),
		idp:      &servicetest.Identity{Profiles: map[string]identity.Profile{}},
	}
	now := t0
	f.now = &now
	hasher := utils.NewPasswordHasher(utils.AlgoBcrypt, bcrypt.MinCost)
	f.svc = service.NewAuthService(f.users, f.sessions, hasher, 7*24*time.Hour, f.idp, nil)
	f.svc.SetClock(func() time.Time { return *f.now })
	return f
}

func register(t *testing.T, f *authFixture, email, phone string) *service.AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name: "Ayşe Yılmaz", Email: email, Phone: phone, Password: "secret123",
	})
	require.NoError(t, err)
	return res
}

func TestRegister_OpensSession(t *testing.T) {
	f := newAuth(t)
	res := register(t, f, "Ayse@Example.com ", "5551112233")

	require.Equal(t, "ayse@example.com", res.User.Email)
	require.Equal(t, "5551112233", *res.User.Phone)
	require.True(t, res.User.HasPassword())
	require.NotEqual(t, "secret123", res.User.PasswordHash)
	require.NotEmpty(t, res.Token)
	require.Equal(t, t0.Add(7*24*time.Hour), res.ExpiresAt)
	require.Equal(t, 1, f.sessions.Len())

	u, err := f.svc.Resolve(context.Background(), res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, u.ID)
}

func TestRegister_Duplicates(t *testing.T) {
	f := newAuth(t)
	register(t, f, "a@x.com", "111")

	_, err := f.svc.Register(context.Background(), service.RegisterInput{Name: "B", Email: "A@x.com", Phone: "222", Password: "p"})
	require.ErrorIs(t, err, service.ErrDuplicateEmail)

	_, err = f.svc.Register(context.Background(), service.RegisterInput{Name: "B", Email: "b@x.com", Phone: "111", Password: "p"})
	require.ErrorIs(t, err, service.ErrDuplicatePhone)

	// both clash: email is reported
	_, err = f.svc.Register(context.Background(), service.RegisterInput{Name: "B", Email: "a@x.com", Phone: "111", Password: "p"})
	require.ErrorIs(t, err, service.ErrDuplicateEmail)
	require.Equal(t, 1, f.users.Len())
}

func TestRegister_RequiresFields(t *testing.T) {
	f := newAuth(t)
	_, err := f.svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Phone: "1", Password: "p"})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "name", ve.Field)
}

func TestLogin(t *testing.T) {
	f := newAuth(t)
	reg := register(t, f, "a@x.com", "111")

	res, err := f.svc.Login(context.Background(), "A@X.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, res.User.ID)
	require.NotEqual(t, reg.Token, res.Token)
	require.Equal(t, 2, f.sessions.Len())

	_, err = f.svc.Login(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "nobody@x.com", "secret123")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_ExternalAccountHasNoPassword(t *testing.T) {
	f := newAuth(t)
	f.idp.Profiles["ext-1"] = identity.Profile{ID: "g-1", Email: "g@x.com", Name: "G"}
	_, err := f.svc.ExchangeExternal(context.Background(), "ext-1")
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "g@x.com", "")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestResolve_ExpiryAndLogout(t *testing.T) {
	f := newAuth(t)
	res := register(t, f, "a@x.com", "111")
	ctx := context.Background()

	_, err := f.svc.Resolve(ctx, "")
	require.ErrorIs(t, err, service.ErrUnauthenticated)
	_, err = f.svc.Resolve(ctx, "not-a-token")
	require.ErrorIs(t, err, service.ErrUnauthenticated)

	*f.now = res.ExpiresAt.Add(-time.Second)
	_, err = f.svc.Resolve(ctx, res.Token)
	require.NoError(t, err)

	*f.now = res.ExpiresAt
	_, err = f.svc.Resolve(ctx, res.Token)
	require.ErrorIs(t, err, service.ErrUnauthenticated)

	n, err := f.svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, 0, f.sessions.Len())

	*f.now = t0
	res2, err := f.svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, res2.Token))
	require.NoError(t, f.svc.Logout(ctx, res2.Token))
	_, err = f.svc.Resolve(ctx, res2.Token)
	require.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestExchangeExternal(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()
	f.idp.Profiles["sess-new"] = identity.Profile{ID: "g-1", Email: "New@x.com", Name: "Yeni", Picture: "https://p/1.png"}

	res, err := f.svc.ExchangeExternal(ctx, "sess-new")
	require.NoError(t, err)
	require.Equal(t, "new@x.com", res.User.Email)
	require.Nil(t, res.User.Phone)
	require.False(t, res.User.HasPassword())
	require.Equal(t, "g-1", *res.User.ExternalID)

	// second exchange reuses the account
	f.idp.Profiles["sess-again"] = identity.Profile{ID: "g-1", Email: "new@x.com", Name: "Yeni"}
	again, err := f.svc.ExchangeExternal(ctx, "sess-again")
	require.NoError(t, err)
	require.Equal(t, res.User.ID, again.User.ID)
	require.Equal(t, 1, f.users.Len())
}

func TestExchangeExternal_LinksPasswordUserKeepingPicture(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()
	reg := register(t, f, "a@x.com", "111")
	f.idp.Profiles["s"] = identity.Profile{ID: "g-9", Email: "a@x.com", Picture: "https://p/9.png"}

	res, err := f.svc.ExchangeExternal(ctx, "s")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, res.User.ID)
	require.Equal(t, "g-9", *res.User.ExternalID)
	require.Equal(t, "https://p/9.png", *res.User.Picture)
	require.True(t, res.User.HasPassword())

	f.idp.Profiles["s2"] = identity.Profile{ID: "g-10", Email: "a@x.com", Picture: "https://p/10.png"}
	res, err = f.svc.ExchangeExternal(ctx, "s2")
	require.NoError(t, err)
	require.Equal(t, "https://p/9.png", *res.User.Picture)
}

func TestExchangeExternal_Errors(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()

	_, err := f.svc.ExchangeExternal(ctx, " ")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.svc.ExchangeExternal(ctx, "unknown")
	require.ErrorIs(t, err, service.ErrInvalidExternalSession)

	f.idp.Err = identity.ErrUnavailable
	_, err = f.svc.ExchangeExternal(ctx, "whatever")
	require.ErrorIs(t, err, service.ErrProviderUnavailable)
	require.Equal(t, 0, f.users.Len())
}

func TestUpdateProfile(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()
	a := register(t, f, "a@x.com", "111")
	register(t, f, "b@x.com", "222")

	addr := "Kadıköy, İstanbul"
	class := "B"
	u, err := f.svc.UpdateProfile(ctx, a.User.ID, model.ProfileUpdate{Address: &addr, LicenseClass: &class})
	require.NoError(t, err)
	require.Equal(t, addr, *u.Address)
	require.Equal(t, "B", *u.LicenseClass)
	require.Equal(t, "Ayşe Yılmaz", u.Name)

	taken := "222"
	_, err = f.svc.UpdateProfile(ctx, a.User.ID, model.ProfileUpdate{Phone: &taken})
	require.ErrorIs(t, err, service.ErrDuplicatePhone)

	own := "111"
	_, err = f.svc.UpdateProfile(ctx, a.User.ID, model.ProfileUpdate{Phone: &own})
	require.NoError(t, err)

	// empty update returns the current profile
	u, err = f.svc.UpdateProfile(ctx, a.User.ID, model.ProfileUpdate{})
	require.NoError(t, err)
	require.Equal(t, addr, *u.Address)
}
