package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/shared/model"
)

type fakeStore struct {
	bookings map[string]*model.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: map[string]*model.Booking{}}
}

func (f *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, id string) (*model.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeStore) ListBookingsByEmail(_ context.Context, email string) ([]*model.Booking, error) {
	out := []*model.Booking{}
	for _, b := range f.bookings {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, id string) (int64, error) {
	if _, ok := f.bookings[id]; !ok {
		return 0, nil
	}
	delete(f.bookings, id)
	return 1, nil
}

type fakeUsers struct {
	users map[string]*model.User
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return f.users[email], nil
}

func authCfg() auth.Config {
	return auth.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.IssueToken(authCfg(), email)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return token
}

// doDelete 通过带守卫的路由发起删除
func doDelete(t *testing.T, h *Handler, id, token string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, auth.RequireAuth(authCfg()))

	r := httptest.NewRequest("DELETE", "/bookings/"+id, nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestDelete_RequiresToken(t *testing.T) {
	store := newFakeStore()
	store.bookings["book-1"] = &model.Booking{ID: "book-1", Email: "owner@example.com"}
	h := NewHandler(store, &fakeUsers{}, DeleteAnyAuthenticated)

	w := doDelete(t, h, "book-1", "")
	if w.Code != 401 {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if _, ok := store.bookings["book-1"]; !ok {
		t.Error("booking must not be deleted without a token")
	}
}

// TestDelete_AnyAuthenticated 历史默认策略：任何登录用户都能删任何预订
func TestDelete_AnyAuthenticated(t *testing.T) {
	store := newFakeStore()
	store.bookings["book-1"] = &model.Booking{ID: "book-1", Email: "owner@example.com"}
	h := NewHandler(store, &fakeUsers{}, DeleteAnyAuthenticated)

	w := doDelete(t, h, "book-1", tokenFor(t, "stranger@example.com"))
	if w.Code != 200 {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if _, ok := store.bookings["book-1"]; ok {
		t.Error("booking should be deleted")
	}
}

func TestDelete_OwnerOrAdmin(t *testing.T) {
	users := &fakeUsers{users: map[string]*model.User{
		"admin@example.com": {ID: "usr-1", Email: "admin@example.com", Role: model.UserRoleAdmin},
		"owner@example.com": {ID: "usr-2", Email: "owner@example.com"},
	}}

	tests := []struct {
		name       string
		caller     string
		wantStatus int
		wantGone   bool
	}{
		{"owner may delete", "owner@example.com", 200, true},
		{"admin may delete", "admin@example.com", 200, true},
		{"stranger forbidden", "stranger@example.com", 403, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.bookings["book-1"] = &model.Booking{ID: "book-1", Email: "owner@example.com"}
			h := NewHandler(store, users, DeleteOwnerOrAdmin)

			w := doDelete(t, h, "book-1", tokenFor(t, tt.caller))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			_, present := store.bookings["book-1"]
			if present == tt.wantGone {
				t.Errorf("booking present = %v, want gone = %v", present, tt.wantGone)
			}
		})
	}
}

// TestDelete_MissingBookingStaysIdempotent owner_or_admin 策略下删除不存在
// 的预订仍返回零计数，不报错
func TestDelete_MissingBookingStaysIdempotent(t *testing.T) {
	h := NewHandler(newFakeStore(), &fakeUsers{}, DeleteOwnerOrAdmin)

	w := doDelete(t, h, "book-missing", tokenFor(t, "anyone@example.com"))
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]int64
	json.NewDecoder(w.Body).Decode(&body)
	if body["deleted_count"] != 0 {
		t.Errorf("deleted_count = %d, want 0", body["deleted_count"])
	}
}

func TestCreate_Validation(t *testing.T) {
	h := NewHandler(newFakeStore(), &fakeUsers{}, DeleteAnyAuthenticated)

	r := httptest.NewRequest("POST", "/bookings", strings.NewReader(`{"email":"a@b.com"}`))
	w := httptest.NewRecorder()
	h.Create(w, r)

	if w.Code != 400 {
		t.Errorf("status = %d, want 400 (missing productId)", w.Code)
	}
}

// TestCreate_StartsUnpaid 新预订强制未支付，无视请求体
func TestCreate_StartsUnpaid(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store, &fakeUsers{}, DeleteAnyAuthenticated)

	body := `{"email":"buyer@example.com","productId":"prod-1","price":"1,234.50","paid":true}`
	r := httptest.NewRequest("POST", "/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, r)

	if w.Code != 201 {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	for _, b := range store.bookings {
		if b.Paid {
			t.Error("new booking must start unpaid")
		}
	}
}
