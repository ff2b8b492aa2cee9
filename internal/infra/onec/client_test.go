package onec

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
)

func TestFetchSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/get-settings" {
			http.Error(w, "bad route", http.StatusNotFound)
			return
		}
		var req settingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Subdivision != "Север" {
			t.Errorf("subdivision = %q", req.Subdivision)
		}
		_, _ = w.Write([]byte(`{
			"success": true,
			"mechanics": ["Иванов"],
			"materials": [{"id": 1, "name": "Грузик", "price": 50}],
			"services": [{"id": "7", "name": "Монтаж", "price": 300, "radius": "16-18", "carType": "jeep"}]
		}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/", Timeout: time.Second})
	s, err := c.FetchSettings(context.Background(), "Север")
	if err != nil {
		t.Fatal(err)
	}
	if s.Subdivision != "Север" || len(s.Mechanics) != 1 || s.Materials[0].ID != "1" {
		t.Fatalf("got %+v", s)
	}
	if sv := s.Services[0]; sv.Radius != catalog.Range(16, 18) || sv.Category != catalog.CategoryJeep {
		t.Fatalf("service %+v", sv)
	}
}

func TestFetchSettingsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "подразделение не найдено"}`))
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}).FetchSettings(context.Background(), "X")
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestFetchSettingsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := New(Options{BaseURL: srv.URL}).FetchSettings(context.Background(), "X"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSubmitOrderSendsSelectedOnly(t *testing.T) {
	var got orderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/create-order" {
			http.Error(w, "bad route", http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success": true, "number": "ЗН-000123"}`))
	}))
	defer srv.Close()

	d := order.Draft{
		Mechanics: []string{"Иванов"},
		Materials: []order.MaterialLine{
			{Material: catalog.Material{ID: "m1", Name: "Грузик", Price: 50}, Qty: 4, Selected: true},
			{Material: catalog.Material{ID: "m2", Name: "Вентиль", Price: 100}, Qty: 4, Selected: false},
		},
		Services: []order.ServiceLine{
			{Service: catalog.Service{ID: "s1", Name: "Мойка", Price: 200}, Qty: 1, Selected: true},
			{Service: catalog.Service{ID: "s2", Name: "Монтаж", Price: 300}, Qty: 0, Selected: true},
		},
	}
	number, err := New(Options{BaseURL: srv.URL, RPS: 100}).SubmitOrder(context.Background(), "Север", d)
	if err != nil {
		t.Fatal(err)
	}
	if number != "ЗН-000123" {
		t.Fatalf("number = %q", number)
	}
	if len(got.Materials) != 1 || len(got.Services) != 1 || got.Total != 400 {
		t.Fatalf("request %+v", got)
	}
}

func TestCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{BaseURL: srv.URL}).FetchSettings(ctx, "X"); err == nil {
		t.Fatal("expected error on canceled context")
	}
}
