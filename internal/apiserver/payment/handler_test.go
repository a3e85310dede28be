package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		price   string
		want    int64
		wantErr bool
	}{
		{"1,234.50", 123450, false},
		{"350", 35000, false},
		{"0.99", 99, false},
		{"12,345,678.9", 1234567890, false},
		{" 42 ", 4200, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			got, err := parseAmount(tt.price)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseAmount(%q) expected error, got %d", tt.price, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q): %v", tt.price, err)
			}
			if got != tt.want {
				t.Errorf("parseAmount(%q) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

// fakeStore 内存支付存储：记录支付并回放预订状态
type fakeStore struct {
	payments map[string]*model.Payment
	bookings map[string]*model.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		payments: map[string]*model.Payment{},
		bookings: map[string]*model.Booking{},
	}
}

func (f *fakeStore) RecordPayment(_ context.Context, p *model.Payment) (*storage.UpdateResult, error) {
	f.payments[p.ID] = p
	booking, ok := f.bookings[p.BookingID]
	if !ok {
		return &storage.UpdateResult{}, nil
	}
	booking.Paid = true
	return &storage.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeStore) GetPayment(_ context.Context, id string) (*model.Payment, error) {
	return f.payments[id], nil
}

// fakeIntents 记录请求参数的支付桥
type fakeIntents struct {
	gotAmount   int64
	gotCurrency string
	err         error
}

func (f *fakeIntents) CreateIntent(_ context.Context, amount int64, currency string) (string, error) {
	f.gotAmount = amount
	f.gotCurrency = currency
	if f.err != nil {
		return "", f.err
	}
	return "cs_test_secret", nil
}

func authCfg() auth.Config {
	return auth.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}
}

func paymentMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, auth.RequireAuth(authCfg()))
	return mux
}

func authedPost(t *testing.T, path, body string) *http.Request {
	t.Helper()
	token, err := auth.IssueToken(authCfg(), "buyer@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	r := httptest.NewRequest("POST", path, strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestCreateIntent(t *testing.T) {
	intents := &fakeIntents{}
	h := NewHandler(newFakeStore(), intents)
	mux := paymentMux(h)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedPost(t, "/create-payment-intent", `{"price":"1,234.50","email":"buyer@example.com"}`))

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if intents.gotAmount != 123450 {
		t.Errorf("bridge amount = %d, want 123450", intents.gotAmount)
	}
	if intents.gotCurrency != "usd" {
		t.Errorf("bridge currency = %q, want usd", intents.gotCurrency)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["clientSecret"] != "cs_test_secret" {
		t.Errorf("clientSecret = %q", body["clientSecret"])
	}
}

func TestCreateIntent_RequiresAuth(t *testing.T) {
	intents := &fakeIntents{}
	h := NewHandler(newFakeStore(), intents)
	mux := paymentMux(h)

	r := httptest.NewRequest("POST", "/create-payment-intent", strings.NewReader(`{"price":"100"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != 401 {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if intents.gotAmount != 0 {
		t.Error("bridge must not be called without credentials")
	}
}

func TestCreateIntent_BadPrice(t *testing.T) {
	h := NewHandler(newFakeStore(), &fakeIntents{})
	mux := paymentMux(h)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedPost(t, "/create-payment-intent", `{"price":"not-a-number"}`))

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateIntent_BridgeFailure(t *testing.T) {
	h := NewHandler(newFakeStore(), &fakeIntents{err: fmt.Errorf("stripe unavailable")})
	mux := paymentMux(h)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedPost(t, "/create-payment-intent", `{"price":"100"}`))

	if w.Code != 500 {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// TestRecord_MarksBookingPaid 支付落库且对应预订变为已支付
func TestRecord_MarksBookingPaid(t *testing.T) {
	store := newFakeStore()
	store.bookings["book-1"] = &model.Booking{ID: "book-1", Email: "buyer@example.com", Paid: false}
	h := NewHandler(store, &fakeIntents{})
	mux := paymentMux(h)

	body := `{"productId":"book-1","email":"buyer@example.com","price":"1,234.50","transactionId":"txn-1"}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedPost(t, "/payment", body))

	if w.Code != 201 {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if len(store.payments) != 1 {
		t.Fatalf("payments stored = %d, want 1", len(store.payments))
	}
	for _, p := range store.payments {
		if p.BookingID != "book-1" {
			t.Errorf("BookingID = %q, want book-1", p.BookingID)
		}
		if p.Amount != 123450 {
			t.Errorf("Amount = %d, want 123450 (derived from price)", p.Amount)
		}
	}
	if !store.bookings["book-1"].Paid {
		t.Error("booking should be paid after recording payment")
	}
}

func TestRecord_MissingBookingID(t *testing.T) {
	h := NewHandler(newFakeStore(), &fakeIntents{})
	mux := paymentMux(h)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedPost(t, "/payment", `{"price":"100"}`))

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
