package session

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitplanhub-web/internal/lib/jwt"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

func newTestBag(t *testing.T) (*Bag, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return newBag("sid", store, time.Hour, nil), store
}

func TestBag_SetGetPersists(t *testing.T) {
	bag, store := newTestBag(t)
	ctx := context.Background()

	require.NoError(t, bag.Set(ctx, "token", "t1"))
	assert.Equal(t, "t1", bag.Get("token"))
	assert.Equal(t, "", bag.Get("missing"))

	stored, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "t1", stored["token"])
}

func TestBag_ClearRemovesEverything(t *testing.T) {
	bag, store := newTestBag(t)
	ctx := context.Background()

	res := models.LoginResult{Token: "t1", ID: 5, Email: "a@b.com", Role: models.RoleUser, FullName: "Ann"}
	require.NoError(t, bag.SetAll(ctx, LoginKeys(models.RoleUser, res)))
	require.NoError(t, bag.Set(ctx, "unrelated", "keep?"))

	require.NoError(t, bag.Clear(ctx))

	assert.Empty(t, bag.Values())
	assert.False(t, bag.Principal().Authenticated())

	_, err := store.Load(ctx, "sid")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBag_DeleteAndPop(t *testing.T) {
	bag, _ := newTestBag(t)
	ctx := context.Background()

	require.NoError(t, bag.SetAll(ctx, map[string]string{"a": "1", KeyFlash: "Successfully subscribed!"}))

	msg, err := bag.Pop(ctx, KeyFlash)
	require.NoError(t, err)
	assert.Equal(t, "Successfully subscribed!", msg)

	msg, err = bag.Pop(ctx, KeyFlash)
	require.NoError(t, err)
	assert.Equal(t, "", msg)

	require.NoError(t, bag.Delete(ctx, "a"))
	require.NoError(t, bag.Delete(ctx, "a"))
	assert.Empty(t, bag.Values())
}

func TestBag_Detached(t *testing.T) {
	bag := newBag("", nil, 0, nil)

	assert.ErrorIs(t, bag.Set(context.Background(), "k", "v"), ErrDetached)
	assert.ErrorIs(t, bag.Clear(context.Background()), ErrDetached)
	assert.ErrorIs(t, bag.Renew(context.Background(), map[string]string{"k": "v"}), ErrDetached)
	assert.Equal(t, "", bag.Get("k"))
}

type failingStore struct{ MemoryStore }

func (*failingStore) Save(context.Context, string, map[string]string, time.Duration) error {
	return errors.New("store down")
}

func TestBag_FailedSaveKeepsOldValues(t *testing.T) {
	bag := newBag("sid", &failingStore{}, time.Hour, map[string]string{"token": "old"})

	err := bag.Set(context.Background(), "token", "new")
	assert.Error(t, err)
	assert.Equal(t, "old", bag.Get("token"))

	err = bag.Renew(context.Background(), map[string]string{"token": "new"})
	assert.Error(t, err)
	assert.Equal(t, "sid", bag.ID())
	assert.Equal(t, "old", bag.Get("token"))
}

func TestLoginKeys(t *testing.T) {
	res := models.LoginResult{Token: "t1", ID: 42, Email: "a@b.com", Role: models.RoleUser, FullName: "Ann"}

	assert.Equal(t, map[string]string{
		"token":     "t1",
		"userId":    "42",
		"userRole":  "USER",
		"userEmail": "a@b.com",
		"userName":  "Ann",
	}, LoginKeys(models.RoleUser, res))

	res.Role = models.RoleTrainer
	assert.Equal(t, map[string]string{
		"token":        "t1",
		"trainerId":    "42",
		"trainerRole":  "TRAINER",
		"trainerEmail": "a@b.com",
		"trainerName":  "Ann",
	}, LoginKeys(models.RoleTrainer, res))
}

func TestBag_Principal(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		Role:             "TRAINER",
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(exp)},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		values map[string]string
		want   models.Principal
	}{
		{
			name:   "anonymous",
			values: nil,
			want:   models.Principal{},
		},
		{
			name: "user with opaque token",
			values: map[string]string{
				"token": "opaque", "userId": "1", "userRole": "USER", "userEmail": "a@b.com", "userName": "Ann",
			},
			want: models.Principal{Token: "opaque", Role: models.RoleUser, ID: "1", Name: "Ann", Email: "a@b.com"},
		},
		{
			name: "trainer role read from trainerRole",
			values: map[string]string{
				"token": token, "trainerId": "9", "trainerRole": "TRAINER", "trainerEmail": "t@b.com", "trainerName": "Tom",
			},
			want: models.Principal{Token: token, Role: models.RoleTrainer, ID: "9", Name: "Tom", Email: "t@b.com", ExpiresAt: exp},
		},
		{
			name:   "unknown role",
			values: map[string]string{"token": "x", "userRole": "ADMIN"},
			want:   models.Principal{Token: "x", Role: "ADMIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newBag("sid", nil, 0, tt.values).Principal()
			assert.Equal(t, tt.want.Token, got.Token)
			assert.Equal(t, tt.want.Role, got.Role)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Email, got.Email)
			assert.True(t, tt.want.ExpiresAt.Equal(got.ExpiresAt))
		})
	}
}

func TestBag_PrincipalExpired(t *testing.T) {
	sign := func(exp time.Time) string {
		tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
			RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(exp)},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		return tok
	}

	past := newBag("sid", nil, 0, map[string]string{"token": sign(time.Now().Add(-time.Minute))}).Principal()
	assert.True(t, past.Expired)
	assert.Equal(t, time.UTC, past.ExpiresAt.Location())

	future := newBag("sid", nil, 0, map[string]string{"token": sign(time.Now().Add(time.Hour))}).Principal()
	assert.False(t, future.Expired)

	opaque := newBag("sid", nil, 0, map[string]string{"token": "opaque"}).Principal()
	assert.False(t, opaque.Expired)
	assert.True(t, opaque.ExpiresAt.IsZero())
}
