package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/mvpvote/internal/adapters/cache"
	handler "github.com/vncsmyrnk/mvpvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/mvpvote/internal/adapters/repository/sqlstore"
	"github.com/vncsmyrnk/mvpvote/internal/core/domain"
	"github.com/vncsmyrnk/mvpvote/internal/core/services"
)

type testApp struct {
	Server *httptest.Server
	Client *http.Client
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.DriverSQLite))

	memberRepo := sqlstore.NewMemberRepository(db)
	voteRepo := sqlstore.NewVoteRepository(db)
	drawRepo := sqlstore.NewLuckyDrawRepository(db)
	adminRepo := sqlstore.NewAdminRepository(db)

	members := cache.NewMemory[[]domain.Member](0)
	ballots := cache.NewMemory[[]domain.Ballot](0)

	adminSvc := services.NewAdminService(adminRepo, services.AdminConfig{
		JWTSecret:       []byte("test-secret"),
		DefaultPassword: "0909",
		SessionTTL:      time.Hour,
	})
	require.NoError(t, adminSvc.EnsurePassword(ctx))

	router := handler.NewHandler(
		handler.NewMemberHandler(services.NewMemberService(memberRepo, members)),
		handler.NewVoteHandler(services.NewVoteService(memberRepo, voteRepo, members, ballots)),
		handler.NewResultHandler(services.NewResultService(memberRepo, voteRepo, members, ballots)),
		handler.NewLuckyDrawHandler(services.NewLuckyDrawService(memberRepo, drawRepo, members)),
		handler.NewAdminHandler(adminSvc, time.Hour, false),
		handler.NewHealthHandler(db),
		[]string{"http://localhost:5173"},
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{Server: server, Client: server.Client()}
}

func (app *testApp) request(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (app *testApp) login(t *testing.T, password string) string {
	t.Helper()
	resp := app.request(t, http.MethodPost, "/api/admin-password/verify", map[string]string{"password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	require.Equal(t, true, body["valid"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (app *testApp) addMembers(t *testing.T, token string, members ...domain.Member) {
	t.Helper()
	for _, m := range members {
		resp := app.request(t, http.MethodPost, "/api/members", m, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[map[string]string](t, resp)["error"]
}

func TestWelcomeAndHealth(t *testing.T) {
	app := setupTestApp(t)

	resp := app.request(t, http.MethodGet, "/api/", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "welcome", string(body))

	resp = app.request(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestCORSPreflight(t *testing.T) {
	app := setupTestApp(t)

	req, err := http.NewRequest(http.MethodOptions, app.Server.URL+"/api/votes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")

	req, err = http.NewRequest(http.MethodGet, app.Server.URL+"/api/members", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	resp2, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestMembers(t *testing.T) {
	app := setupTestApp(t)

	resp := app.request(t, http.MethodPost, "/api/members", domain.Member{ID: "a", Name: "Alice"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/members", domain.Member{ID: "a", Name: "Alice"}, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := app.login(t, "0909")

	resp = app.request(t, http.MethodPost, "/api/members", domain.Member{ID: "b", Name: "Bob"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, "b", created["id"])

	app.addMembers(t, token, domain.Member{ID: "a", Name: "Alice"})

	resp = app.request(t, http.MethodPost, "/api/members", domain.Member{ID: "a", Name: "Again"}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/members", map[string]string{"id": "c"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(t, resp), "name is required")

	resp = app.request(t, http.MethodPost, "/api/members", "{not json", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/members", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	members := decode[[]domain.Member](t, resp)
	require.Len(t, members, 2)
	assert.Equal(t, "b", members[0].ID)
	assert.Equal(t, "a", members[1].ID)

	resp = app.request(t, http.MethodPut, "/api/members/a", map[string]string{"name": "Alicia", "photo": "data:x"}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.request(t, http.MethodPut, "/api/members/zzz", map[string]string{"name": "Nobody"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/members", nil, "")
	members = decode[[]domain.Member](t, resp)
	require.Len(t, members, 2)
	assert.Equal(t, "Alicia", members[1].Name)
	require.NotNil(t, members[1].Photo)
	assert.Equal(t, "data:x", *members[1].Photo)

	resp = app.request(t, http.MethodDelete, "/api/members/b", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.request(t, http.MethodDelete, "/api/members/b", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/members", nil, "")
	assert.Len(t, decode[[]domain.Member](t, resp), 1)
}

func TestImportMembers(t *testing.T) {
	app := setupTestApp(t)
	token := app.login(t, "0909")

	resp := app.request(t, http.MethodPost, "/api/members/import", "name\nAlice\n\nBob\n", token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode[struct {
		Success  bool            `json:"success"`
		Imported int             `json:"imported"`
		Members  []domain.Member `json:"members"`
	}](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Imported)
	assert.Equal(t, "Alice", body.Members[0].Name)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "members.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Carol\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, app.Server.URL+"/api/members/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	multipartResp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer multipartResp.Body.Close()
	assert.Equal(t, http.StatusCreated, multipartResp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/members/import", "name\n", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/members", nil, "")
	members := decode[[]domain.Member](t, resp)
	require.Len(t, members, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{members[0].Name, members[1].Name, members[2].Name})
}

func TestVotingAndResults(t *testing.T) {
	app := setupTestApp(t)
	token := app.login(t, "0909")
	app.addMembers(t, token,
		domain.Member{ID: "a", Name: "Alice"},
		domain.Member{ID: "b", Name: "Bob"},
		domain.Member{ID: "c", Name: "Carol"},
		domain.Member{ID: "d", Name: "Dan"},
	)

	resp := app.request(t, http.MethodPost, "/api/votes", `{"voterName":"Ann","scores":{"a":50,"b":30,"c":20}}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[map[string]any](t, resp)
	assert.Equal(t, true, first["success"])
	firstID, _ := first["id"].(string)
	require.NotEmpty(t, firstID)
	assert.NotEmpty(t, first["timestamp"])

	resp = app.request(t, http.MethodPost, "/api/votes", `{"voterName":"Ben","scores":{"b":60,"d":40,"a":0}}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	invalid := []string{
		`{"voterName":"Eve","scores":{"a":80,"b":30}}`,
		`{"voterName":"Eve","scores":{}}`,
		`{"voterName":"  ","scores":{"a":10}}`,
		`{"voterName":"Eve","scores":{"a":-5,"b":10}}`,
		`{"voterName":"Eve","scores":[1,2]}`,
	}
	for _, body := range invalid {
		resp = app.request(t, http.MethodPost, "/api/votes", body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}

	resp = app.request(t, http.MethodGet, "/api/votes/count", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"count": 2}, decode[map[string]int](t, resp))

	resp = app.request(t, http.MethodGet, "/api/votes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/votes", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ballots := decode[[]domain.Ballot](t, resp)
	require.Len(t, ballots, 2)
	assert.Equal(t, "Ann", ballots[0].VoterName)
	assert.Equal(t, domain.Scores{{MemberID: "b", Points: 60}, {MemberID: "d", Points: 40}, {MemberID: "a", Points: 0}}, ballots[1].Scores)

	resp = app.request(t, http.MethodGet, "/api/results", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/results", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode[domain.Results](t, resp)
	assert.Equal(t, 2, results.TotalVotes)
	require.Len(t, results.Results, 3)
	assert.Equal(t, "b", results.Results[0].ID)
	assert.Equal(t, 90, results.Results[0].TotalScore)
	assert.Equal(t, "a", results.Results[1].ID)
	assert.Equal(t, 50, results.Results[1].TotalScore)
	assert.Equal(t, "Dan", results.Results[2].Name)
	assert.Equal(t, 40, results.Results[2].TotalScore)

	resp = app.request(t, http.MethodGet, "/api/vote-logs", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logs := decode[[]domain.LogEntry](t, resp)
	require.Len(t, logs, 5)
	assert.Equal(t, "Ben", logs[0].VoterName)
	assert.Equal(t, "d", logs[0].MemberID)

	resp = app.request(t, http.MethodGet, "/api/vote-logs/"+firstID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logs = decode[[]domain.LogEntry](t, resp)
	require.Len(t, logs, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{logs[0].MemberName, logs[1].MemberName, logs[2].MemberName})

	resp = app.request(t, http.MethodDelete, "/api/votes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodDelete, "/api/votes", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/votes/count", nil, "")
	assert.Equal(t, map[string]int{"count": 0}, decode[map[string]int](t, resp))

	resp = app.request(t, http.MethodGet, "/api/results", nil, token)
	results = decode[domain.Results](t, resp)
	assert.Zero(t, results.TotalVotes)
	assert.Empty(t, results.Results)
}

func TestDraftScores(t *testing.T) {
	app := setupTestApp(t)

	resp := app.request(t, http.MethodPost, "/api/votes/draft", `{"scores":{"a":50,"b":30},"memberId":"b","points":90}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scores":{"a":50,"b":50},"total":100,"remaining":0}`, string(body))

	resp = app.request(t, http.MethodPost, "/api/votes/draft", `{"memberId":"c","points":-4}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scores":{"c":0},"total":0,"remaining":100}`, string(body))

	resp = app.request(t, http.MethodPost, "/api/votes/draft", `{"scores":{},"points":10}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLuckyDraw(t *testing.T) {
	app := setupTestApp(t)
	token := app.login(t, "0909")
	app.addMembers(t, token,
		domain.Member{ID: "a", Name: "Alice"},
		domain.Member{ID: "b", Name: "Bob"},
		domain.Member{ID: "c", Name: "Carol"},
	)

	resp := app.request(t, http.MethodPost, "/api/lucky-draw", map[string]int{"count": 2}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	drawn := decode[domain.DrawLog](t, resp)
	require.Len(t, drawn.Winners, 2)
	assert.NotEqual(t, drawn.Winners[0].ID, drawn.Winners[1].ID)
	assert.Equal(t, 2, drawn.DrawCount)

	for _, count := range []int{0, 4} {
		resp = app.request(t, http.MethodPost, "/api/lucky-draw", map[string]int{"count": count}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	resp = app.request(t, http.MethodPost, "/api/lucky-draw-logs", map[string]any{
		"drawId":    "client-1",
		"timestamp": "2024-05-01T12:00:00Z",
		"winners":   []domain.Member{{ID: "c", Name: "Carol"}},
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "client-1", decode[map[string]any](t, resp)["id"])

	resp = app.request(t, http.MethodPost, "/api/lucky-draw-logs", map[string]any{"drawId": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/lucky-draw-logs", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]domain.DrawLog](t, resp)
	require.Len(t, history, 2)
	assert.Equal(t, "client-1", history[0].DrawID)
	assert.Equal(t, 1, history[0].DrawCount)
	assert.Equal(t, drawn.DrawID, history[1].DrawID)
}

func TestAdminPassword(t *testing.T) {
	app := setupTestApp(t)

	resp := app.request(t, http.MethodGet, "/api/admin-password", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{"exists": true, "isDefault": true}, decode[map[string]bool](t, resp))

	resp = app.request(t, http.MethodPost, "/api/admin-password/verify", map[string]string{"password": "wrong"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"valid": false}, decode[map[string]any](t, resp))

	resp = app.request(t, http.MethodPost, "/api/admin-password/verify", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/admin-password", map[string]string{"currentPassword": "nope", "newPassword": "s3cret"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/admin-password", map[string]string{"currentPassword": "0909", "newPassword": "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.request(t, http.MethodPut, "/api/admin-password", map[string]string{"currentPassword": "0909", "newPassword": "s3cret"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password updated", decode[map[string]any](t, resp)["message"])

	resp = app.request(t, http.MethodGet, "/api/admin-password", nil, "")
	assert.Equal(t, map[string]bool{"exists": true, "isDefault": false}, decode[map[string]bool](t, resp))

	token := app.login(t, "s3cret")

	resp = app.request(t, http.MethodPost, "/api/admin-password", map[string]string{"newPassword": "another"}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	app.login(t, "another")
}

func TestAdminCookieSession(t *testing.T) {
	app := setupTestApp(t)

	resp := app.request(t, http.MethodPost, "/api/admin-password/verify", map[string]string{"password": "0909"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "admin_token" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/vote-logs", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	logsResp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer logsResp.Body.Close()

	assert.Equal(t, http.StatusOK, logsResp.StatusCode)
	assert.Empty(t, decode[[]domain.LogEntry](t, logsResp))
}
