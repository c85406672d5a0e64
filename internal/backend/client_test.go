package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient поднимает фейковый бэкенд с обработчиком h.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second, newNoopLogger())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})

	_, err := c.UserPlans(context.Background(), "t1")
	require.NoError(t, err)
	_, err = c.PopularPlans(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer t1", ""}, gotAuth)
}

func TestClient_PopularPlans(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/public/plans", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 1, "title": "Cut", "price": 19.99, "duration": 30, "trainerName": "Bob"},
			},
		})
	})

	plans, err := c.PopularPlans(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, int64(1), plans[0].ID)
	assert.Equal(t, "Cut", plans[0].Title)
	assert.InDelta(t, 19.99, plans[0].Price, 0.0001)
	assert.Equal(t, 30, plans[0].Duration)
	assert.Equal(t, "Bob", plans[0].TrainerName)
}

func TestClient_ErrorNormalisation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success false with 2xx",
			status:      http.StatusOK,
			body:        map[string]any{"success": false, "message": "Already subscribed"},
			wantStatus:  http.StatusOK,
			wantMessage: "Already subscribed",
		},
		{
			name:        "non 2xx with message",
			status:      http.StatusBadRequest,
			body:        map[string]any{"success": false, "message": "Plan not found"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Plan not found",
		},
		{
			name:       "non 2xx without body",
			status:     http.StatusInternalServerError,
			body:       nil,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(t, w, tt.status, tt.body)
			})

			_, err := c.Subscribe(context.Background(), "t1", 5)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.False(t, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, newNoopLogger())
	_, err := c.Trainers(context.Background(), "t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Feed(ctx, "t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_PlanDetailVariant(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantAccess models.PlanAccess
		wantDesc   string
	}{
		{
			name:       "full detail",
			data:       `{"id":7,"title":"Bulk","description":"Eat more","price":25,"duration":60,"trainerName":"Ann"}`,
			wantAccess: models.PlanFullDetail,
			wantDesc:   "Eat more",
		},
		{
			name:       "null description still counts as full",
			data:       `{"id":7,"title":"Bulk","description":null,"price":25,"duration":60,"trainerName":"Ann"}`,
			wantAccess: models.PlanFullDetail,
		},
		{
			name:       "preview",
			data:       `{"id":7,"title":"Bulk","price":25,"duration":60,"trainerName":"Ann"}`,
			wantAccess: models.PlanPreview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/plans/7", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, `{"success":true,"data":`+tt.data+`}`)
			})

			detail, err := c.PlanDetail(context.Background(), "", 7)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccess, detail.Access)
			assert.Equal(t, tt.wantDesc, detail.Plan.Description)
			assert.Equal(t, "Bulk", detail.Plan.Title)
		})
	}
}

func TestClient_Login(t *testing.T) {
	t.Run("raw body on success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/login/trainer", r.URL.Path)

			var form models.LoginForm
			require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
			assert.Equal(t, "a@b.com", form.Email)

			writeJSON(t, w, http.StatusOK, map[string]any{
				"token": "t1", "id": 3, "email": "a@b.com", "role": "TRAINER", "fullName": "Ann",
			})
		})

		res, err := c.Login(context.Background(), models.RoleTrainer, models.LoginForm{Email: "a@b.com", Password: "x"})
		require.NoError(t, err)
		assert.Equal(t, models.LoginResult{Token: "t1", ID: 3, Email: "a@b.com", Role: models.RoleTrainer, FullName: "Ann"}, res)
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Bad credentials"})
		})

		_, err := c.Login(context.Background(), models.RoleUser, models.LoginForm{Email: "a@b.com", Password: "x"})
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Bad credentials", apiErr.Message)
	})

	t.Run("unknown role", func(t *testing.T) {
		c := NewClient("http://localhost", time.Second, newNoopLogger())
		_, err := c.Login(context.Background(), "", models.LoginForm{})
		assert.Error(t, err)
	})
}

func TestClient_SignupStatusOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup/user", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":false}`)
	})

	err := c.SignupUser(context.Background(), models.UserSignupForm{FullName: "Ann"})
	assert.NoError(t, err)
}

func TestClient_TrainerMutations(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var got []seen

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path}
		if r.ContentLength > 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&s.body))
		}
		got = append(got, s)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
	})

	ctx := context.Background()
	form := models.PlanForm{Title: "Cut", Description: "d", Price: 19.99, Duration: 30}

	_, err := c.CreatePlan(ctx, "t", form)
	require.NoError(t, err)
	_, err = c.UpdatePlan(ctx, "t", 9, form)
	require.NoError(t, err)
	msg, err := c.DeletePlan(ctx, "t", 9)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)

	require.Len(t, got, 3)
	assert.Equal(t, http.MethodPost, got[0].method)
	assert.Equal(t, "/api/trainer/plans", got[0].path)
	assert.InDelta(t, 19.99, got[0].body["price"], 0.0001)
	assert.InDelta(t, 30, got[0].body["duration"], 0.0001)
	assert.Equal(t, http.MethodPut, got[1].method)
	assert.Equal(t, "/api/trainer/plans/9", got[1].path)
	assert.Equal(t, http.MethodDelete, got[2].method)
	assert.Equal(t, "/api/trainer/plans/9", got[2].path)
}

func TestClient_Trainers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/user/trainers/search":
			assert.Equal(t, "yoga & pilates", r.URL.Query().Get("keyword"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"trainerId": 2, "name": "Ann", "following": true}},
			})
		case r.URL.Path == "/api/user/trainers/follow/2" && r.Method == http.MethodPost:
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "Followed"})
		case r.URL.Path == "/api/user/trainers/follow/2" && r.Method == http.MethodDelete:
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "Unfollowed"})
		case r.URL.Path == "/api/user/following":
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []int{2, 5}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	trainers, err := c.SearchTrainers(ctx, "t", "yoga & pilates")
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, int64(2), trainers[0].TrainerID)
	assert.True(t, trainers[0].Following)

	msg, err := c.Follow(ctx, "t", 2)
	require.NoError(t, err)
	assert.Equal(t, "Followed", msg)

	msg, err = c.Unfollow(ctx, "t", 2)
	require.NoError(t, err)
	assert.Equal(t, "Unfollowed", msg)

	ids, err := c.Following(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids)
}
