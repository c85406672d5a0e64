package trainer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitplanhub-web/internal/backend"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/response"
	"github.com/magabrotheeeer/fitplanhub-web/internal/http/view"
	"github.com/magabrotheeeer/fitplanhub-web/internal/models"
	"github.com/magabrotheeeer/fitplanhub-web/internal/session"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) TrainerPlans(ctx context.Context, token string) ([]models.Plan, error) {
	args := m.Called(ctx, token)
	plans, _ := args.Get(0).([]models.Plan)
	return plans, args.Error(1)
}

func (m *MockService) CreatePlan(ctx context.Context, token string, form models.PlanForm) (string, error) {
	args := m.Called(ctx, token, form)
	return args.String(0), args.Error(1)
}

func (m *MockService) UpdatePlan(ctx context.Context, token string, id int64, form models.PlanForm) (string, error) {
	args := m.Called(ctx, token, id, form)
	return args.String(0), args.Error(1)
}

func (m *MockService) DeletePlan(ctx context.Context, token string, id int64) (string, error) {
	args := m.Called(ctx, token, id)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func trainerBag() *session.Bag {
	return session.NewBag("sid", session.NewMemoryStore(), time.Hour, map[string]string{
		session.KeyToken:       "t9",
		session.KeyTrainerRole: "TRAINER",
		session.KeyTrainerName: "Bob",
	})
}

// newRouter собирает маршруты кабинета так же, как приложение.
func newRouter(t *testing.T, svc *MockService) chi.Router {
	t.Helper()
	v, err := view.New(newNoopLogger())
	require.NoError(t, err)

	h := New(newNoopLogger(), svc, v)
	r := chi.NewRouter()
	r.Get("/trainer/dashboard", h.Dashboard)
	r.Post("/trainer/plans", h.Save)
	r.Post("/trainer/plans/{id}", h.Save)
	r.Get("/trainer/plans/{id}/delete", h.Delete)
	r.Post("/trainer/plans/{id}/delete", h.Delete)
	return r
}

func serve(r chi.Router, bag *session.Bag, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(session.WithBag(req.Context(), bag))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

var plans = []models.Plan{
	{ID: 11, Title: "Cut", Description: "Lose *fat*", Price: 19.99, Duration: 30},
}

func TestDashboard(t *testing.T) {
	t.Run("lists plans without modal", func(t *testing.T) {
		svc := new(MockService)
		svc.On("TrainerPlans", mock.Anything, "t9").Return(plans, nil)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodGet, "/trainer/dashboard", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Welcome, Bob!")
		assert.Contains(t, body, "<em>fat</em>")
		assert.Contains(t, body, "$19.99")
		assert.NotContains(t, body, "modal-overlay")
	})

	t.Run("edit modal is prefilled", func(t *testing.T) {
		svc := new(MockService)
		svc.On("TrainerPlans", mock.Anything, "t9").Return(plans, nil)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodGet, "/trainer/dashboard?modal=edit&id=11", nil)

		body := rr.Body.String()
		assert.Contains(t, body, "Edit Plan")
		assert.Contains(t, body, `action="/trainer/plans/11"`)
		assert.Contains(t, body, `value="19.99"`)
		assert.Contains(t, body, `value="30"`)
	})

	t.Run("backend failure shows empty state", func(t *testing.T) {
		svc := new(MockService)
		svc.On("TrainerPlans", mock.Anything, "t9").Return(nil, backend.ErrUnavailable)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodGet, "/trainer/dashboard?modal=create", nil)

		body := rr.Body.String()
		assert.Contains(t, body, "You haven't created any fitness plans yet.")
		assert.Contains(t, body, "Create New Plan")
	})
}

func TestSave(t *testing.T) {
	valid := url.Values{"title": {"Cut"}, "description": {"d"}, "price": {"19.99"}, "duration": {"30"}}
	wantForm := models.PlanForm{Title: "Cut", Description: "d", Price: 19.99, Duration: 30}

	t.Run("create coerces numbers and redirects", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreatePlan", mock.Anything, "t9", wantForm).Return("Plan created", nil)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodPost, "/trainer/plans", valid)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, PathDashboard, rr.Header().Get("Location"))
		svc.AssertExpectations(t)
		svc.AssertNotCalled(t, "TrainerPlans", mock.Anything, mock.Anything)
	})

	t.Run("update sends id", func(t *testing.T) {
		svc := new(MockService)
		svc.On("UpdatePlan", mock.Anything, "t9", int64(11), wantForm).Return("ok", nil)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodPost, "/trainer/plans/11", valid)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejected keeps modal open with message", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreatePlan", mock.Anything, "t9", wantForm).
			Return("", &backend.Error{Status: http.StatusOK, Message: "Title already used"})
		svc.On("TrainerPlans", mock.Anything, "t9").Return(plans, nil)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodPost, "/trainer/plans", valid)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "modal-overlay")
		assert.Contains(t, body, "Title already used")
		assert.Contains(t, body, `value="19.99"`)
		svc.AssertExpectations(t)
	})

	t.Run("unavailable", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreatePlan", mock.Anything, "t9", wantForm).Return("", backend.ErrUnavailable)
		svc.On("TrainerPlans", mock.Anything, "t9").Return(plans, nil)

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodPost, "/trainer/plans", valid)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), response.MsgUnavailableAction)
	})

	t.Run("invalid price is not sent", func(t *testing.T) {
		svc := new(MockService)
		svc.On("TrainerPlans", mock.Anything, "t9").Return(plans, nil)
		bad := url.Values{"title": {"Cut"}, "description": {"d"}, "price": {"abc"}, "duration": {"30"}}

		rr := serve(newRouter(t, svc), trainerBag(), http.MethodPost, "/trainer/plans", bad)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), ErrInvalidPrice.Error())
		svc.AssertNotCalled(t, "CreatePlan", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestParsePlanForm(t *testing.T) {
	tests := []struct {
		name    string
		in      view.PlanFormInput
		want    models.PlanForm
		wantErr error
	}{
		{
			name: "numbers",
			in:   view.PlanFormInput{Title: " Cut ", Description: "d", Price: "49.99", Duration: "30"},
			want: models.PlanForm{Title: "Cut", Description: "d", Price: 49.99, Duration: 30},
		},
		{
			name: "fractional duration truncated",
			in:   view.PlanFormInput{Title: "Cut", Price: "10", Duration: "30.7"},
			want: models.PlanForm{Title: "Cut", Price: 10, Duration: 30},
		},
		{
			name:    "bad price",
			in:      view.PlanFormInput{Price: "", Duration: "30"},
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "bad duration",
			in:      view.PlanFormInput{Price: "1", Duration: "month"},
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlanForm(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelete(t *testing.T) {
	t.Run("get shows confirmation only", func(t *testing.T) {
		svc := new(MockService)
		rr := serve(newRouter(t, svc), trainerBag(), http.MethodGet, "/trainer/plans/11/delete", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Are you sure you want to delete this plan?")
		assert.Contains(t, rr.Body.String(), `name="confirm" value="yes"`)
		svc.AssertNotCalled(t, "DeletePlan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("post without confirmation sends nothing", func(t *testing.T) {
		svc := new(MockService)
		rr := serve(newRouter(t, svc), trainerBag(), http.MethodPost, "/trainer/plans/11/delete", url.Values{})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Are you sure you want to delete this plan?")
		svc.AssertNotCalled(t, "DeletePlan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed delete", func(t *testing.T) {
		svc := new(MockService)
		svc.On("DeletePlan", mock.Anything, "t9", int64(11)).Return("Deleted", nil)
		bag := trainerBag()

		rr := serve(newRouter(t, svc), bag, http.MethodPost, "/trainer/plans/11/delete", url.Values{"confirm": {"yes"}})

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, PathDashboard, rr.Header().Get("Location"))
		assert.Equal(t, response.MsgPlanDeleted, bag.Get(session.KeyFlash))
		svc.AssertExpectations(t)
	})

	t.Run("confirmed delete rejected", func(t *testing.T) {
		svc := new(MockService)
		svc.On("DeletePlan", mock.Anything, "t9", int64(11)).Return("", &backend.Error{Status: http.StatusForbidden})
		bag := trainerBag()

		rr := serve(newRouter(t, svc), bag, http.MethodPost, "/trainer/plans/11/delete", url.Values{"confirm": {"yes"}})

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, response.MsgPlanDeleteFailed, bag.Get(session.KeyFlash))
	})
}
