package newtablinks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func setupTestApp(t *testing.T) (*App, func()) {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "links.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cfg := SiteConfig{
		AdminPassword: "test-password",
		SessionSecret: "test-secret",
	}
	cfg.setDefaults()

	views := ViewFuncs{}
	views.fillDefaults()

	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		Store:        store,
		Views:        views,
		loginLimiter: NewLoginLimiter(5, time.Minute),
		staticDir:    t.TempDir(),
	}
	a.Echo.HTTPErrorHandler = a.httpErrorHandler
	a.setupRoutes()

	return a, func() { store.Close() }
}

func get(t *testing.T, a *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeLinks(t *testing.T, rec *httptest.ResponseRecorder) []linkPayload {
	t.Helper()
	var links []linkPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &links); err != nil {
		t.Fatalf("failed to decode links response: %v\nbody: %s", err, rec.Body.String())
	}
	return links
}

func TestLinksEmptyReturnsNoLinks(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	rec := get(t, a, "/links")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if apiErr.Code != "no_links" {
		t.Errorf("Code = %q, want %q", apiErr.Code, "no_links")
	}
	if apiErr.Message != "No links found" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "No links found")
	}
}

func TestLinksReturnsOnlyPublished(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	draft, _ := a.Store.CreateLink("Draft", "http://draft.test")
	pub1, _ := a.Store.CreateLink("Pub 1", "http://one.test")
	pub2, _ := a.Store.CreateLink("Pub 2", "http://two.test")
	trashed, _ := a.Store.CreateLink("Trashed", "http://gone.test")
	for _, id := range []int64{pub1.ID, pub2.ID, trashed.ID} {
		if err := a.Store.Publish(id); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	if err := a.Store.Trash(trashed.ID); err != nil {
		t.Fatalf("Trash failed: %v", err)
	}

	rec := get(t, a, "/links")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	links := decodeLinks(t, rec)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	ids := map[int64]bool{links[0].ID: true, links[1].ID: true}
	if !ids[pub1.ID] || !ids[pub2.ID] {
		t.Errorf("ids = %v, want the two published ids %d and %d", ids, pub1.ID, pub2.ID)
	}
	if ids[draft.ID] || ids[trashed.ID] {
		t.Errorf("draft or trashed link leaked into the listing: %v", ids)
	}
}

func TestLinksUsesNativeStoreIDs(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	first, _ := a.Store.CreateLink("First", "http://one.test")
	second, _ := a.Store.CreateLink("Second", "http://two.test")
	if err := a.Store.Publish(second.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	// first stays a draft; the published link must keep id 2, not be
	// renumbered to 1.
	_ = first

	links := decodeLinks(t, get(t, a, "/links"))
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].ID != second.ID {
		t.Errorf("ID = %d, want native store id %d", links[0].ID, second.ID)
	}
}

func TestLinksFilterByID(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	pub, _ := a.Store.CreateLink("Pub", "http://pub.test")
	draft, _ := a.Store.CreateLink("Draft", "http://draft.test")
	if err := a.Store.Publish(pub.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	rec := get(t, a, "/links?id="+itoa(pub.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	links := decodeLinks(t, rec)
	if len(links) != 1 || links[0].ID != pub.ID {
		t.Errorf("got %+v, want only link %d", links, pub.ID)
	}

	// A draft id filters to nothing and surfaces as no_links.
	rec = get(t, a, "/links?id="+itoa(draft.ID))
	if rec.Code != http.StatusNotFound {
		t.Errorf("draft id: status = %d, want 404", rec.Code)
	}

	rec = get(t, a, "/links?id=999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", rec.Code)
	}
}

func TestLinksRejectsNonNumericID(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	rec := get(t, a, "/links?id=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if apiErr.Code != "invalid_param" {
		t.Errorf("Code = %q, want %q", apiErr.Code, "invalid_param")
	}
}

func TestLinksEscapesOutput(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	link, _ := a.Store.CreateLink(`R&D <script>alert("x")</script>`, "javascript:alert(1)")
	if err := a.Store.Publish(link.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	links := decodeLinks(t, get(t, a, "/links"))
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}

	title := links[0].Title
	if strings.Contains(title, "<script>") {
		t.Errorf("title contains raw markup: %q", title)
	}
	if !strings.Contains(title, "&lt;script&gt;") {
		t.Errorf("title should be entity-encoded, got %q", title)
	}
	// Escaped once, not twice.
	if strings.Contains(title, "&amp;amp;") {
		t.Errorf("title is double-escaped: %q", title)
	}
	if links[0].URL != "" {
		t.Errorf("javascript: URL should serialize empty, got %q", links[0].URL)
	}
}

func TestInfoAlwaysSucceeds(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	rec := get(t, a, "/info")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info infoPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode info: %v", err)
	}
	if info.Name != "" || info.Logo != "" {
		t.Errorf("unset config should serve empty strings, got %+v", info)
	}
}

func TestInfoRoundTrip(t *testing.T) {
	a, cleanup := setupTestApp(t)
	defer cleanup()

	if err := a.Store.SetInfo("Acme", "http://acme.test/logo.png"); err != nil {
		t.Fatalf("SetInfo failed: %v", err)
	}

	rec := get(t, a, "/info")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info infoPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode info: %v", err)
	}
	if info.Name != "Acme" {
		t.Errorf("Name = %q, want %q", info.Name, "Acme")
	}
	if info.Logo != "http://acme.test/logo.png" {
		t.Errorf("Logo = %q, want %q", info.Logo, "http://acme.test/logo.png")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
