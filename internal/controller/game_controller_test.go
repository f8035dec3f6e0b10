package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Yash182023/Chess-Mania/internal/config"
	"github.com/Yash182023/Chess-Mania/internal/engine"
	"github.com/Yash182023/Chess-Mania/internal/model"
	"github.com/Yash182023/Chess-Mania/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gm := service.NewGameManager(nil, 0)
	return NewApp(config.Default(), service.NewGameService(gm))
}

func do(t *testing.T, app *fiber.App, method, path, player, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/game/create", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("create status = %d: %s", status, body)
	}
	var resp struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.GameID == "" {
		t.Fatalf("create response %s: %v", body, err)
	}
	for _, p := range []string{"alice", "bob"} {
		if status, body := do(t, app, http.MethodPost, "/api/game/join/"+resp.GameID, p, ""); status != fiber.StatusOK {
			t.Fatalf("join %s status = %d: %s", p, status, body)
		}
	}
	return resp.GameID
}

func TestRequiresPlayerID(t *testing.T) {
	app := newTestApp(t)
	if status, _ := do(t, app, http.MethodPost, "/api/game/create", "", ""); status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/create?playerId=carol", "", ""); status != fiber.StatusOK {
		t.Errorf("status with query player = %d, want 200", status)
	}
}

func TestJoinGame(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)

	status, body := do(t, app, http.MethodPost, "/api/game/join/"+gameID, "bob", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"color":"black"`) {
		t.Errorf("rejoin = %d %s", status, body)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/join/"+gameID, "carol", ""); status != fiber.StatusConflict {
		t.Errorf("join full game status = %d, want 409", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/join/missing", "carol", ""); status != fiber.StatusNotFound {
		t.Errorf("join missing game status = %d, want 404", status)
	}
}

func TestSeatedPlayersSurviveLaterRequests(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/game/create", "host", "")
	if status != fiber.StatusOK {
		t.Fatalf("create status = %d: %s", status, body)
	}
	var created struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	base := "/api/game/" + created.GameID

	do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "whiteplayer", "")
	do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "bk", "")
	for _, p := range []string{"bob", "carol", "bobce"} {
		do(t, app, http.MethodGet, base+"?playerId="+p, "", "")
		do(t, app, http.MethodPost, "/api/game/matchmaking/join", p, "")
	}

	status, body = do(t, app, http.MethodGet, base, "observer", "")
	if status != fiber.StatusOK {
		t.Fatalf("state status = %d: %s", status, body)
	}
	var state model.GameState
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if state.Players.White.ID != "whiteplayer" || state.Players.Black.ID != "bk" {
		t.Errorf("seated white=%q black=%q, want whiteplayer, bk", state.Players.White.ID, state.Players.Black.ID)
	}

	if status, body := do(t, app, http.MethodPost, base+"/move", "whiteplayer", `{"from":"e2","to":"e4"}`); status != fiber.StatusOK {
		t.Errorf("move by seated white = %d %s", status, body)
	}
}

func TestGetGameState(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)

	status, body := do(t, app, http.MethodGet, "/api/game/"+gameID, "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var state model.GameState
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if state.FEN != engine.StartFEN || state.ToMove != engine.White {
		t.Errorf("state = %s, %v", state.FEN, state.ToMove)
	}

	if status, _ := do(t, app, http.MethodGet, "/api/game/missing", "alice", ""); status != fiber.StatusNotFound {
		t.Errorf("missing game status = %d, want 404", status)
	}
}

func TestLegalMovesEndpoint(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)

	status, body := do(t, app, http.MethodGet, "/api/game/"+gameID+"/moves?square=e2", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var resp struct {
		Square string          `json:"square"`
		Moves  []engine.Square `json:"moves"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(resp.Moves) != 2 {
		t.Errorf("moves for e2 = %v, want 2", resp.Moves)
	}

	if status, _ := do(t, app, http.MethodGet, "/api/game/"+gameID+"/moves", "alice", ""); status != fiber.StatusBadRequest {
		t.Errorf("missing square status = %d, want 400", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/game/"+gameID+"/moves?square=k9", "alice", ""); status != fiber.StatusUnprocessableEntity {
		t.Errorf("bad square status = %d, want 422", status)
	}
}

func TestMakeMoveEndpoint(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)
	path := "/api/game/" + gameID + "/move"

	tests := []struct {
		name   string
		player string
		body   string
		want   int
	}{
		{"malformed body", "alice", `{"from":`, fiber.StatusBadRequest},
		{"bad square", "alice", `{"from":"e2","to":"e9"}`, fiber.StatusUnprocessableEntity},
		{"spectator", "carol", `{"from":"e2","to":"e4"}`, fiber.StatusForbidden},
		{"out of turn", "bob", `{"from":"e7","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"illegal", "alice", `{"from":"e2","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"legal", "alice", `{"from":"e2","to":"e4"}`, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, path, tt.player, tt.body)
			if status != tt.want {
				t.Errorf("status = %d, want %d: %s", status, tt.want, body)
			}
		})
	}

	status, body := do(t, app, http.MethodGet, "/api/game/"+gameID, "alice", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"toMove":"black"`) {
		t.Errorf("state after e2e4 = %d %s", status, body)
	}
}

func TestResignAndReset(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)
	base := "/api/game/" + gameID

	status, body := do(t, app, http.MethodPost, base+"/resign", "alice", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"resolve":"resignation"`) {
		t.Fatalf("resign = %d %s", status, body)
	}
	if status, _ := do(t, app, http.MethodPost, base+"/resign", "bob", ""); status != fiber.StatusConflict {
		t.Errorf("second resign status = %d, want 409", status)
	}
	if status, _ := do(t, app, http.MethodPost, base+"/move", "alice", `{"from":"e2","to":"e4"}`); status != fiber.StatusConflict {
		t.Errorf("move after resign status = %d, want 409", status)
	}

	if status, _ := do(t, app, http.MethodPost, base+"/reset", "carol", ""); status != fiber.StatusForbidden {
		t.Errorf("reset by spectator status = %d, want 403", status)
	}
	status, body = do(t, app, http.MethodPost, base+"/reset", "bob", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"resolve":null`) {
		t.Errorf("reset = %d %s", status, body)
	}
}

func TestMatchmakingEndpoints(t *testing.T) {
	app := newTestApp(t)

	if status, _ := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", ""); status != fiber.StatusOK {
		t.Errorf("join status = %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", ""); status != fiber.StatusConflict {
		t.Errorf("second join status = %d, want 409", status)
	}
	status, body := do(t, app, http.MethodGet, "/api/game/matchmaking/status", "alice", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"queued":true`) {
		t.Errorf("status = %d %s", status, body)
	}
	status, body = do(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"removed":true`) {
		t.Errorf("leave = %d %s", status, body)
	}
}

func TestArchiveEndpoints(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/api/archive", "alice", "")
	if status != fiber.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("list = %d %s", status, body)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/archive/nope", "alice", ""); status != fiber.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", status)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)
	if status, _ := do(t, app, http.MethodGet, "/ws/game/abc", "alice", ""); status != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", status)
	}
}
