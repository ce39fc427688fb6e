package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cardly/internal/design"
	"cardly/models"
)

func TestMenuLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(MenuResource, http.MethodPost, "/app/api/menus", menuRequest{
		Name:     ptr("Corner Bistro"),
		Currency: ptr("eur"),
		Design:   &design.State{Mode: design.ModeTemplate, Template: "template8"},
	}, f.owner)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[menuResponse](t, w)
	if created.Slug != "corner-bistro" || created.Currency != "EUR" {
		t.Fatalf("unexpected menu: %+v", created)
	}
	if created.Style.Ref != "/assets/templates/template8.webp" {
		t.Fatalf("unexpected style: %+v", created.Style)
	}

	items := []menuItemPayload{
		{Section: "Starters", Name: "Burrata", PriceCents: 1200},
		{Section: "Mains", Name: "Roast chicken", Description: "Lemon, thyme", PriceCents: 2200},
	}
	w = f.do(MenuResource, http.MethodPut, fmt.Sprintf("/app/api/menus/%d/items", created.ID), items, f.owner)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if diff := cmp.Diff(items, decodeBody[menuResponse](t, w).Items); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}

	w = f.do(MenuResource, http.MethodPost, fmt.Sprintf("/app/api/menus/%d/design", created.ID), designActionRequest{Action: "generate_ai", Value: "https://cdn.example.com/bg.png"}, f.owner)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if style := decodeBody[designResponse](t, w).Style; style.Overlay != design.OverlayMedium {
		t.Fatalf("expected medium overlay for AI background, got %+v", style)
	}

	if w := f.do(MenuResource, http.MethodGet, fmt.Sprintf("/app/api/menus/%d", created.ID), nil, f.other); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's menu, got %d", w.Code)
	}
	if w := f.do(MenuResource, http.MethodDelete, fmt.Sprintf("/app/api/menus/%d", created.ID), nil, f.owner); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	var remaining int64
	if err := f.db.Model(&models.MenuItem{}).Where("menu_id = ?", created.ID).Count(&remaining).Error; err != nil || remaining != 0 {
		t.Fatalf("expected items removed with menu, count=%d err=%v", remaining, err)
	}
}

func TestMenuValidation(t *testing.T) {
	f := newAPIFixture(t)

	if w := f.do(MenuResource, http.MethodPost, "/app/api/menus", menuRequest{Name: ptr("Cafe"), Currency: ptr("euro")}, f.owner); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad currency, got %d", w.Code)
	}
	if w := f.do(MenuResource, http.MethodPost, "/app/api/menus", menuRequest{Description: ptr("no name")}, f.owner); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", w.Code)
	}

	menu := models.Menu{OwnerID: f.owner.ID, Slug: "cafe", Name: "Cafe", Currency: "USD", Published: true}
	if err := f.db.Create(&menu).Error; err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	target := fmt.Sprintf("/app/api/menus/%d/items", menu.ID)
	if w := f.do(MenuResource, http.MethodPut, target, []menuItemPayload{{Name: "Tea", PriceCents: -1}}, f.owner); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", w.Code)
	}
	if w := f.do(MenuResource, http.MethodPut, target, []menuItemPayload{{PriceCents: 100}}, f.owner); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unnamed item, got %d", w.Code)
	}
	if w := f.do(MenuResource, http.MethodGet, fmt.Sprintf("/app/api/menus/%d/photos", menu.ID), nil, f.owner); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown sub-resource, got %d", w.Code)
	}
}
