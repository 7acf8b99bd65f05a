package http

import (
	"context"
	"encoding/base64"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"supplier_server/core/domain"
	"supplier_server/core/port/out"
	"supplier_server/core/service/auth"
	"supplier_server/core/service/supplier"
	"supplier_server/infra/middleware"
)

// memRepo is a map-backed SupplierRepository for handler tests.
type memRepo struct {
	records map[string]domain.Supplier
}

func (r *memRepo) FindByID(_ context.Context, id string) (*domain.Supplier, error) {
	if s, ok := r.records[id]; ok {
		clone := s.Clone()
		return &clone, nil
	}
	return nil, nil
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*domain.Supplier, error) {
	for _, s := range r.records {
		if strings.EqualFold(s.Email, email) {
			clone := s.Clone()
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memRepo) FindAll(_ context.Context) ([]domain.Supplier, error) {
	var all []domain.Supplier
	for _, s := range r.records {
		all = append(all, s.Clone())
	}
	return all, nil
}

func (r *memRepo) FindByCriteria(_ context.Context, criteria []domain.Criterion) ([]domain.Supplier, error) {
	var found []domain.Supplier
	for _, s := range r.records {
		match := true
		for _, c := range criteria {
			if c.Field == "nachname" {
				if !strings.Contains(strings.ToLower(s.LastName), strings.ToLower(c.Value.(string))) {
					match = false
				}
			}
		}
		if match {
			found = append(found, s.Clone())
		}
	}
	return found, nil
}

func (r *memRepo) Insert(_ context.Context, s *domain.Supplier) error {
	r.records[s.ID] = s.Clone()
	return nil
}

func (r *memRepo) Replace(_ context.Context, s *domain.Supplier, expectedVersion int) (bool, error) {
	stored, ok := r.records[s.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	replaced := s.Clone()
	replaced.Version = expectedVersion + 1
	r.records[s.ID] = replaced
	return true, nil
}

func (r *memRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *memRepo) DeleteByEmail(_ context.Context, email string) (int64, error) {
	var n int64
	for id, s := range r.records {
		if strings.EqualFold(s.Email, email) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.records[id]
	return ok, nil
}

func (r *memRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *memRepo) LastnamesByPrefix(_ context.Context, prefix string) ([]string, error) {
	var names []string
	for _, s := range r.records {
		if strings.HasPrefix(strings.ToLower(s.LastName), strings.ToLower(prefix)) {
			names = append(names, s.LastName)
		}
	}
	return names, nil
}

func (r *memRepo) EmailsByPrefix(_ context.Context, prefix string) ([]string, error) {
	var emails []string
	for _, s := range r.records {
		if strings.HasPrefix(strings.ToLower(s.Email), strings.ToLower(prefix)) {
			emails = append(emails, s.Email)
		}
	}
	return emails, nil
}

type memUserRepo struct {
	users map[string]domain.User
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memUserRepo) Insert(_ context.Context, user *domain.User) error {
	r.users[user.Username] = *user
	return nil
}

var _ out.SupplierRepository = (*memRepo)(nil)
var _ out.UserRepository = (*memUserRepo)(nil)

const fixtureID = "10000000-0000-0000-0000-000000000001"

func fixtureRecord() domain.Supplier {
	return domain.Supplier{
		ID:       fixtureID,
		Version:  1,
		LastName: "Alpha",
		Email:    "alpha@acme.com",
		Category: 3,
		Address:  domain.Address{PostalCode: "76133", City: "Karlsruhe"},
		Username: "alpha",
	}
}

// newTestApp wires the handlers against in-memory adapters and seeds the
// fixture record plus an admin and a supplier account.
func newTestApp(t *testing.T) (*fiber.App, *memRepo) {
	t.Helper()
	log := zerolog.Nop()

	repo := &memRepo{records: map[string]domain.Supplier{fixtureID: fixtureRecord()}}
	userRepo := &memUserRepo{users: make(map[string]domain.User)}
	userSvc := auth.NewService(userRepo, log)

	for username, roles := range map[string][]string{
		"admin": {RoleAdmin, RoleSupplier},
		"alpha": {RoleSupplier},
	} {
		if _, err := userSvc.Create(context.Background(), domain.Account{
			Username: username,
			Password: "p",
			Roles:    roles,
		}); err != nil {
			t.Fatalf("seed user %s: %v", username, err)
		}
	}

	svc := supplier.NewService(repo, userSvc, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	guard := func(roles ...string) fiber.Handler {
		return middleware.BasicAuth(userSvc, roles...)
	}

	NewValuesHandler(svc, log).Register(app, guard)
	NewSupplierHandler(svc, nil, log).Register(app, guard)
	return app, repo
}

func request(method, target, body string, auth string, headers map[string]string) *nethttp.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization,
			"Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestPostCreatesRecord(t *testing.T) {
	app, repo := newTestApp(t)

	body := `{
		"nachname": "Neumann",
		"email": "neu@acme.com",
		"kategorie": 1,
		"adresse": {"plz": "12345", "ort": "Berlin"},
		"user": {"username": "neumann", "password": "p"}
	}`
	resp, err := app.Test(request("POST", "/", body, "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	location := resp.Header.Get(fiber.HeaderLocation)
	id := location[strings.LastIndexByte(location, '/')+1:]
	if !domain.IsValidID(id) {
		t.Errorf("location = %q, want trailing UUID", location)
	}
	if _, ok := repo.records[id]; !ok {
		t.Errorf("record %s not stored", id)
	}
}

func TestPostDuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{
		"nachname": "Neumann",
		"email": "ALPHA@ACME.COM",
		"kategorie": 1,
		"adresse": {"plz": "12345", "ort": "Berlin"},
		"user": {"username": "neumann", "password": "p"}
	}`
	resp, err := app.Test(request("POST", "/", body, "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "Die Emailadresse ALPHA@ACME.COM existiert bereits" {
		t.Errorf("body = %q", payload)
	}
}

func TestPostValidationFailure(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{
		"nachname": "neumann",
		"email": "neu@acme.com",
		"kategorie": 12,
		"adresse": {"plz": "123", "ort": ""},
		"user": {"username": "neumann", "password": "p"}
	}`
	resp, err := app.Test(request("POST", "/", body, "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var violations []domain.Violation
	if err := json.NewDecoder(resp.Body).Decode(&violations); err != nil {
		t.Fatalf("decode violations: %v", err)
	}
	if len(violations) != 4 {
		t.Errorf("violations = %v, want 4 entries", violations)
	}
}

func TestGetByID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(request("GET", "/"+fixtureID, "", "admin:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderETag); got != `"1"` {
		t.Errorf("etag = %q, want %q", got, `"1"`)
	}

	var body struct {
		LastName string                 `json:"nachname"`
		Links    map[string]domain.Link `json:"_links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.LastName != "Alpha" {
		t.Errorf("nachname = %q", body.LastName)
	}
	if self := body.Links["self"].Href; !strings.HasSuffix(self, "/"+fixtureID) {
		t.Errorf("self link = %q", self)
	}
}

func TestGetByIDNotModified(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(request("GET", "/"+fixtureID, "", "admin:p",
		map[string]string{fiber.HeaderIfNoneMatch: `"1"`}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("status = %d, want 304", resp.StatusCode)
	}
}

func TestGetRequiresAdmin(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(request("GET", "/"+fixtureID, "", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderWWWAuthenticate) == "" {
		t.Error("WWW-Authenticate header missing")
	}

	resp, err = app.Test(request("GET", "/"+fixtureID, "", "alpha:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("wrong-role status = %d, want 403", resp.StatusCode)
	}
}

func TestSearchEmptyResultIs404(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(request("GET", "/?kategorie=drei", "", "admin:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSearchByLastname(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(request("GET", "/?nachname=alph", "", "admin:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var found []struct {
		LastName string            `json:"nachname"`
		Links    []domain.ItemLink `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].LastName != "Alpha" {
		t.Fatalf("found = %v", found)
	}
	if len(found[0].Links) == 0 || found[0].Links[0].Rel != "self" {
		t.Errorf("item links = %v", found[0].Links)
	}
}

func TestPutRequiresIfMatch(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{"nachname":"Alpha","email":"alpha@acme.com","kategorie":3,"adresse":{"plz":"76133","ort":"Karlsruhe"}}`
	resp, err := app.Test(request("PUT", "/"+fixtureID, body, "alpha:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 412 {
		t.Fatalf("status = %d, want 412", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "Versionsnummer fehlt" {
		t.Errorf("body = %q", payload)
	}
}

func TestPutStaleVersion(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{"nachname":"Alpha","email":"alpha@acme.com","kategorie":3,"adresse":{"plz":"76133","ort":"Karlsruhe"}}`
	resp, err := app.Test(request("PUT", "/"+fixtureID, body, "alpha:p",
		map[string]string{fiber.HeaderIfMatch: `"0"`}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 412 {
		t.Fatalf("status = %d, want 412", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), "Falsche Versionsnummer") {
		t.Errorf("body = %q", payload)
	}
}

func TestPutUpdatesAndReturnsNewETag(t *testing.T) {
	app, repo := newTestApp(t)

	body := `{"nachname":"Beta","email":"alpha@acme.com","kategorie":5,"adresse":{"plz":"76133","ort":"Karlsruhe"}}`
	resp, err := app.Test(request("PUT", "/"+fixtureID, body, "alpha:p",
		map[string]string{fiber.HeaderIfMatch: `"1"`}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderETag); got != `"2"` {
		t.Errorf("etag = %q, want %q", got, `"2"`)
	}
	if stored := repo.records[fixtureID]; stored.LastName != "Beta" || stored.Version != 2 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestPatchReplacesLastname(t *testing.T) {
	app, repo := newTestApp(t)

	body := `[{"op":"replace","path":"/nachname","value":"Gamma"}]`
	resp, err := app.Test(request("PATCH", "/"+fixtureID, body, "admin:p",
		map[string]string{fiber.HeaderIfMatch: `"1"`}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if stored := repo.records[fixtureID]; stored.LastName != "Gamma" {
		t.Errorf("stored lastname = %q", stored.LastName)
	}
}

func TestPatchUnsupportedPath(t *testing.T) {
	app, _ := newTestApp(t)

	body := `[{"op":"replace","path":"/unbekannt","value":"x"}]`
	resp, err := app.Test(request("PATCH", "/"+fixtureID, body, "admin:p",
		map[string]string{fiber.HeaderIfMatch: `"1"`}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	app, repo := newTestApp(t)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(request("DELETE", "/"+fixtureID, "", "admin:p", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 204 {
			t.Fatalf("delete #%d status = %d, want 204", i+1, resp.StatusCode)
		}
	}
	if len(repo.records) != 0 {
		t.Errorf("records = %d, want 0", len(repo.records))
	}
}

func TestDeleteByEmail(t *testing.T) {
	app, repo := newTestApp(t)

	resp, err := app.Test(request("DELETE", "/?email=alpha@acme.com", "", "admin:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if len(repo.records) != 0 {
		t.Errorf("records = %d, want 0", len(repo.records))
	}
}

func TestValuesEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(request("GET", "/anzahl", "", "alpha:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("anzahl status = %d, want 200", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "1" {
		t.Errorf("anzahl = %q, want 1", payload)
	}

	resp, err = app.Test(request("GET", "/version/"+fixtureID, "", "alpha:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	payload, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(payload) != "1" {
		t.Errorf("version = (%d, %q), want (200, 1)", resp.StatusCode, payload)
	}

	resp, err = app.Test(request("GET", "/nachname/al", "", "alpha:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("nachname status = %d, want 200", resp.StatusCode)
	}
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "Alpha" {
		t.Errorf("names = %v", names)
	}

	resp, err = app.Test(request("GET", "/version/20000000-0000-0000-0000-000000000000", "", "alpha:p", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("unknown id status = %d, want 404", resp.StatusCode)
	}
}

func TestPostConflictingUsername(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{
		"nachname": "Neumann",
		"email": "neu@acme.com",
		"kategorie": 1,
		"adresse": {"plz": "12345", "ort": "Berlin"},
		"user": {"username": "ALPHA", "password": "p"}
	}`
	resp, err := app.Test(request("POST", "/", body, "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "Der Username ALPHA existiert bereits" {
		t.Errorf("body = %q", payload)
	}
}

func TestPostWithoutAccount(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{
		"nachname": "Neumann",
		"email": "neu@acme.com",
		"kategorie": 1,
		"adresse": {"plz": "12345", "ort": "Berlin"}
	}`
	resp, err := app.Test(request("POST", "/", body, "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "Ungueltiger Account" {
		t.Errorf("body = %q", payload)
	}
}
