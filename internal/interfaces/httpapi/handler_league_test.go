package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sflhq/league-service/internal/domain/user"
	"github.com/sflhq/league-service/internal/infrastructure/repository/memory"
	"github.com/sflhq/league-service/internal/platform/logging"
	"github.com/sflhq/league-service/internal/usecase"
)

type uuidSequenceGenerator struct {
	next int
}

func (g *uuidSequenceGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.next), nil
}

func newTestRouter(t *testing.T, maxMembers int) (http.Handler, *memory.LeagueRepository) {
	t.Helper()

	repo := memory.NewLeagueRepository()
	service := usecase.NewLeagueService(repo, &uuidSequenceGenerator{}, maxMembers, 7*24*time.Hour)
	handler := NewHandler(service, nil, nil, logging.NewNop())
	verifier := &stubVerifier{principal: user.Principal{UserID: "token-user", Email: "token@example.com"}}

	return NewRouter(handler, verifier, logging.NewNop(), []string{"*"}), repo
}

func doRequest(router http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("x-user-id", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createLeagueForTest(t *testing.T, router http.Handler, userID, name string) string {
	t.Helper()

	rec := doRequest(router, http.MethodPost, "/leagues", userID, fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create league returned status %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	created, _ := body["league"].(map[string]any)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("create league response missing id: %s", rec.Body.String())
	}
	return id
}

func TestCreateLeague_Success(t *testing.T) {
	router, _ := newTestRouter(t, 20)

	rec := doRequest(router, http.MethodPost, "/leagues", "user-1",
		`{"name":"Premier Pals","description":"weekend league"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if got, _ := body["message"].(string); got != "League created successfully" {
		t.Fatalf("unexpected message: %q", got)
	}
	created, _ := body["league"].(map[string]any)
	if got, _ := created["name"].(string); got != "Premier Pals" {
		t.Fatalf("unexpected league name: %q", got)
	}
	if got, _ := created["creatorId"].(string); got != "user-1" {
		t.Fatalf("unexpected creatorId: %q", got)
	}
	if got, _ := created["seasonNumber"].(float64); got != 1 {
		t.Fatalf("unexpected seasonNumber: %v", created["seasonNumber"])
	}
}

func TestCreateLeague_ValidationFailed(t *testing.T) {
	router, _ := newTestRouter(t, 20)

	rec := doRequest(router, http.MethodPost, "/leagues", "user-1", `{"name":"ab"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if got, _ := body["error"].(string); got != msgValidationFailed {
		t.Fatalf("expected error %q, got %q", msgValidationFailed, got)
	}
	details, _ := body["details"].([]any)
	if len(details) != 1 {
		t.Fatalf("expected one violation, got %v", body["details"])
	}
	detail, _ := details[0].(map[string]any)
	if got, _ := detail["field"].(string); got != "name" {
		t.Fatalf("expected violation on name, got %v", detail["field"])
	}
	if got, _ := detail["code"].(string); got != "min" {
		t.Fatalf("expected code min, got %v", detail["code"])
	}
}

func TestCreateLeague_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, 20)

	rec := doRequest(router, http.MethodPost, "/leagues", "", `{"name":"Premier Pals"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if got, _ := body["error"].(string); got != msgNoToken {
		t.Fatalf("expected error %q, got %q", msgNoToken, got)
	}
}

func TestListUserLeagues_ReturnsRoles(t *testing.T) {
	router, _ := newTestRouter(t, 20)

	ownID := createLeagueForTest(t, router, "user-1", "My League")
	otherID := createLeagueForTest(t, router, "user-2", "Other League")

	if rec := doRequest(router, http.MethodPost, "/leagues/"+otherID+"/join", "user-1", ""); rec.Code != http.StatusOK {
		t.Fatalf("join returned status %d: %s", rec.Code, rec.Body.String())
	}

	rec := doRequest(router, http.MethodGet, "/leagues", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	items, _ := body["leagueResponse"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 leagues, got %d: %s", len(items), rec.Body.String())
	}

	first, _ := items[0].(map[string]any)
	firstLeague, _ := first["league"].(map[string]any)
	if got, _ := firstLeague["id"].(string); got != ownID {
		t.Fatalf("expected first league %s, got %v", ownID, firstLeague["id"])
	}
	if got, _ := first["userRole"].(string); got != "creator" {
		t.Fatalf("expected creator role, got %v", first["userRole"])
	}
	second, _ := items[1].(map[string]any)
	if got, _ := second["userRole"].(string); got != "member" {
		t.Fatalf("expected member role, got %v", second["userRole"])
	}
}

func TestGetLeague_Scenarios(t *testing.T) {
	router, _ := newTestRouter(t, 20)
	leagueID := createLeagueForTest(t, router, "user-1", "Premier Pals")

	rec := doRequest(router, http.MethodGet, "/leagues/"+leagueID, "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	item, _ := body["league"].(map[string]any)
	if got, _ := item["userRole"].(string); got != "creator" {
		t.Fatalf("expected userRole creator, got %v", item["userRole"])
	}

	rec = doRequest(router, http.MethodGet, "/leagues/"+leagueID, "user-2", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-member, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgNotLeagueMember {
		t.Fatalf("expected error %q, got %q", msgNotLeagueMember, got)
	}

	rec = doRequest(router, http.MethodGet, "/leagues/00000000-0000-4000-8000-999999999999", "user-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgLeagueNotFound {
		t.Fatalf("expected error %q, got %q", msgLeagueNotFound, got)
	}

	rec = doRequest(router, http.MethodGet, "/leagues/not-a-uuid", "user-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed id, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgValidationFailed {
		t.Fatalf("expected error %q, got %q", msgValidationFailed, got)
	}
}

func TestJoinLeague_Scenarios(t *testing.T) {
	router, _ := newTestRouter(t, 3)
	leagueID := createLeagueForTest(t, router, "user-1", "Premier Pals")

	rec := doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/join", "user-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got, _ := decodeBody(t, rec)["message"].(string); got != "Successfully joined the league" {
		t.Fatalf("unexpected message: %q", got)
	}

	rec = doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/join", "user-2", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for duplicate join, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgAlreadyMember {
		t.Fatalf("expected error %q, got %q", msgAlreadyMember, got)
	}

	if rec := doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/join", "user-3", `{"inviteCode":"ABC123"}`); rec.Code != http.StatusOK {
		t.Fatalf("third member join returned %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/join", "user-4", `{"inviteCode":"abc"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for short invite code, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if got, _ := body["error"].(string); got != msgValidationFailed {
		t.Fatalf("expected error %q, got %q", msgValidationFailed, got)
	}
	details, _ := body["details"].([]any)
	if len(details) != 1 {
		t.Fatalf("expected one violation, got %v", body["details"])
	}
	if detail, _ := details[0].(map[string]any); detail["field"] != "inviteCode" || detail["code"] != "len" {
		t.Fatalf("unexpected violation: %v", details[0])
	}

	rec = doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/join", "user-4", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for full league, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgLeagueFull {
		t.Fatalf("expected error %q, got %q", msgLeagueFull, got)
	}
}

func TestListLeagueMembers_Scenarios(t *testing.T) {
	router, _ := newTestRouter(t, 20)
	leagueID := createLeagueForTest(t, router, "user-1", "Premier Pals")

	if rec := doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/join", "user-2", ""); rec.Code != http.StatusOK {
		t.Fatalf("join returned status %d", rec.Code)
	}

	rec := doRequest(router, http.MethodGet, "/leagues/"+leagueID+"/members", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	members, _ := body["members"].([]any)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	first, _ := members[0].(map[string]any)
	if got, _ := first["userId"].(string); got != "user-1" {
		t.Fatalf("expected creator first, got %v", first["userId"])
	}
	if got, _ := first["role"].(string); got != "creator" {
		t.Fatalf("expected creator role, got %v", first["role"])
	}

	rec = doRequest(router, http.MethodGet, "/leagues/"+leagueID+"/members", "user-9", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-member, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgAccessDenied {
		t.Fatalf("expected error %q, got %q", msgAccessDenied, got)
	}

	// An unknown league id is indistinguishable from a league the caller
	// is not in.
	rec = doRequest(router, http.MethodGet, "/leagues/00000000-0000-4000-8000-999999999999/members", "user-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for unknown league, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgAccessDenied {
		t.Fatalf("expected error %q, got %q", msgAccessDenied, got)
	}
}

func TestInviteLeagueMember_Flow(t *testing.T) {
	router, _ := newTestRouter(t, 20)
	leagueID := createLeagueForTest(t, router, "user-1", "Premier Pals")

	rec := doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/invitations", "user-1",
		`{"email":"friend@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	invitation, _ := body["invitation"].(map[string]any)
	if got, _ := invitation["invitedEmail"].(string); got != "friend@example.com" {
		t.Fatalf("unexpected invitedEmail: %v", invitation["invitedEmail"])
	}
	if got, _ := invitation["status"].(string); got != "pending" {
		t.Fatalf("expected pending status, got %v", invitation["status"])
	}

	rec = doRequest(router, http.MethodPost, "/leagues/"+leagueID+"/invitations", "user-1",
		`{"email":"not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if got, _ := decodeBody(t, rec)["error"].(string); got != msgValidationFailed {
		t.Fatalf("expected error %q, got %q", msgValidationFailed, got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 20)

	rec := doRequest(router, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if got, _ := body["status"].(string); got != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	if got, _ := body["service"].(string); got != serviceName {
		t.Fatalf("expected service %q, got %v", serviceName, body["service"])
	}
	if got, _ := body["timestamp"].(string); got == "" {
		t.Fatalf("expected timestamp in health response")
	}
}

func TestReadyEndpoint_NoProbesConfigured(t *testing.T) {
	router, _ := newTestRouter(t, 20)

	rec := doRequest(router, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if got, _ := body["status"].(string); got != "ready" {
		t.Fatalf("expected ready, got %v", body["status"])
	}
}
