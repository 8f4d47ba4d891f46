package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumetsu/soumetsu/internal/hcaptcha"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/internal/storage"
	"github.com/soumetsu/soumetsu/pkg/config"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

type testEnv struct {
	router   http.Handler
	store    *store.GORMStore
	sessions *sessions.Store
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sess, err := sessions.Open(sessions.Config{TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	backend, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		HTTP:    config.HTTPConfig{Host: "127.0.0.1", Port: 8080},
		Uploads: config.UploadsConfig{MaxAvatarBytes: 2 << 20, MaxBannerBytes: 5 << 20},
	}

	router := NewRouter(cfg, Deps{
		Store:    s,
		Sessions: sess,
		Storage:  backend,
		Captcha:  hcaptcha.New(hcaptcha.Config{Enabled: false}),
	})

	return &testEnv{router: router, store: s, sessions: sess}
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:1234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" && len(rec.Body.Bytes()) > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (e *testEnv) register(t *testing.T, username string) (token string, userID int64) {
	t.Helper()

	rec, env := e.do(t, http.MethodPost, "/api/v2/auth/register", "", map[string]string{
		"username": username,
		"email":    strings.ReplaceAll(username, " ", "_") + "@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}

func (e *testEnv) grant(t *testing.T, userID int64, privs privileges.Privileges) {
	t.Helper()
	require.NoError(t, e.store.UpdateUserPrivileges(t.Context(), userID, privs))
	// Sessions cache privileges; mint a fresh one after changing them.
}

func TestHealth(t *testing.T) {
	env := setupEnv(t)

	rec, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, body.Status)

	rec, _ = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	env := setupEnv(t)

	token, userID := env.register(t, "cirno")

	// The fresh session works.
	rec, body := env.do(t, http.MethodGet, "/api/v2/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "cirno", me.Username)

	// Login with the right password.
	rec, _ = env.do(t, http.MethodPost, "/api/v2/auth/login", "", map[string]string{
		"username": "cirno",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password is a 401 with the taxonomy code.
	rec, body = env.do(t, http.MethodPost, "/api/v2/auth/login", "", map[string]string{
		"username": "cirno",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "auth.invalid_credentials", body.Error)

	// Unknown users get the same answer as wrong passwords.
	rec, body = env.do(t, http.MethodPost, "/api/v2/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "auth.invalid_credentials", body.Error)

	// Logout invalidates the token.
	rec, _ = env.do(t, http.MethodPost, "/api/v2/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/api/v2/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := setupEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/v2/auth/register", "", map[string]string{
		"username": "x",
		"email":    "x@example.com",
		"password": "long enough pass",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "auth.invalid_username", body.Error)

	rec, body = env.do(t, http.MethodPost, "/api/v2/auth/register", "", map[string]string{
		"username": "valid name",
		"email":    "not-an-email",
		"password": "long enough pass",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "auth.invalid_email", body.Error)

	// Duplicate username.
	env.register(t, "flandre")
	rec, body = env.do(t, http.MethodPost, "/api/v2/auth/register", "", map[string]string{
		"username": "flandre",
		"email":    "other@example.com",
		"password": "long enough pass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "users.already_exists", body.Error)
}

func TestUserVisibility(t *testing.T) {
	env := setupEnv(t)

	_, targetID := env.register(t, "hidden one")
	viewerToken, _ := env.register(t, "viewer")

	// Public profile is visible.
	rec, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/v2/users/%d", targetID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Restrict the target: hidden from everyone but self and managers.
	user, err := env.store.GetUser(t.Context(), targetID)
	require.NoError(t, err)
	env.grant(t, targetID, user.Privileges.Restrict())

	rec, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/v2/users/%d", targetID), viewerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "users.not_found", body.Error)

	// A user manager still sees the profile.
	adminToken := env.adminSession(t, privileges.AdminManageUsers)
	rec, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/v2/users/%d", targetID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// adminSession mints a session directly with the given admin bits.
func (e *testEnv) adminSession(t *testing.T, privs privileges.Privileges) string {
	t.Helper()

	user := &models.User{
		Username:     fmt.Sprintf("admin-%d", time.Now().UnixNano()),
		Email:        fmt.Sprintf("admin-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "x",
		Privileges:   privileges.UserPublic | privileges.UserNormal | privs,
	}
	require.NoError(t, e.store.CreateUser(t.Context(), user))

	token, _, err := e.sessions.Create(user.ID, user.Privileges, "127.0.0.1")
	require.NoError(t, err)
	return token
}

func TestUserStats(t *testing.T) {
	env := setupEnv(t)
	_, userID := env.register(t, "statto")

	rec, body := env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v2/users/%d/stats?mode=0&playstyle=0", userID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.UserStats
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, userID, stats.UserID)

	// Without a mode filter, all four rulesets come back.
	rec, body = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v2/users/%d/stats", userID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.UserStats
	require.NoError(t, json.Unmarshal(body.Data, &all))
	assert.Len(t, all, 4)
}

func TestUpdateMe(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.register(t, "editor")

	mode := models.ModeMania
	page := "hello world"
	rec, body := env.do(t, http.MethodPatch, "/api/v2/users/me", token, map[string]any{
		"userpage":       page,
		"favourite_mode": mode,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(body.Data, &user))
	assert.Equal(t, page, user.Userpage)
	assert.Equal(t, mode, user.FavouriteMode)

	// Unauthenticated PATCH is rejected.
	rec, _ = env.do(t, http.MethodPatch, "/api/v2/users/me", "", map[string]any{"userpage": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClanLifecycle(t *testing.T) {
	env := setupEnv(t)
	ownerToken, _ := env.register(t, "clan owner")
	memberToken, _ := env.register(t, "clan member")

	rec, body := env.do(t, http.MethodPost, "/api/v2/clans", ownerToken, map[string]string{
		"name": "Nine's Own",
		"tag":  "NINE",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var clan models.Clan
	require.NoError(t, json.Unmarshal(body.Data, &clan))

	// Owner cannot create a second clan.
	rec, body = env.do(t, http.MethodPost, "/api/v2/clans", ownerToken, map[string]string{
		"name": "Second", "tag": "TWO",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "clans.already_in_clan", body.Error)

	// Duplicate tag is rejected.
	otherToken, _ := env.register(t, "other owner")
	rec, body = env.do(t, http.MethodPost, "/api/v2/clans", otherToken, map[string]string{
		"name": "Different Name", "tag": "NINE",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "clans.tag_taken", body.Error)

	// Join, list members, leave.
	rec, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v2/clans/%d/join", clan.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/v2/clans/%d/members", clan.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var members []json.RawMessage
	require.NoError(t, json.Unmarshal(body.Data, &members))
	assert.Len(t, members, 2)

	rec, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v2/clans/%d/leave", clan.ID), memberToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The owner cannot leave, only disband.
	rec, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/v2/clans/%d/leave", clan.ID), ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "clans.owner_cannot_leave", body.Error)

	// A random member cannot edit the clan.
	rec, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v2/clans/%d", clan.ID), memberToken,
		map[string]string{"description": "nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Disband.
	rec, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v2/clans/%d", clan.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/v2/clans/%d", clan.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFriends(t *testing.T) {
	env := setupEnv(t)
	aToken, aID := env.register(t, "friend a")
	bToken, bID := env.register(t, "friend b")

	rec, _ := env.do(t, http.MethodPost, fmt.Sprintf("/api/v2/friends/%d", bID), aToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Not yet mutual.
	rec, body := env.do(t, http.MethodGet, "/api/v2/friends", aToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		User   models.User `json:"user"`
		Mutual bool        `json:"mutual"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, bID, list[0].User.ID)
	assert.False(t, list[0].Mutual)

	// Reverse edge makes it mutual.
	rec, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v2/friends/%d", aID), bToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	_, body = env.do(t, http.MethodGet, "/api/v2/friends", aToken, nil)
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.True(t, list[0].Mutual)

	// Self-friendship is rejected.
	rec, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/v2/friends/%d", aID), aToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "friends.self_friendship", body.Error)
}

func TestComments(t *testing.T) {
	env := setupEnv(t)
	authorToken, _ := env.register(t, "author")
	_, profileID := env.register(t, "profile owner")

	rec, body := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v2/users/%d/comments", profileID), authorToken,
		map[string]string{"body": "nice plays"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment models.ProfileComment
	require.NoError(t, json.Unmarshal(body.Data, &comment))

	rec, body = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v2/users/%d/comments", profileID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []models.ProfileComment
	require.NoError(t, json.Unmarshal(body.Data, &comments))
	assert.Len(t, comments, 1)

	// A third party cannot delete it.
	strangerToken, _ := env.register(t, "stranger")
	rec, _ = env.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v2/comments/%d", comment.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The author can.
	rec, _ = env.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v2/comments/%d", comment.ID), authorToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminModeration(t *testing.T) {
	env := setupEnv(t)
	targetToken, targetID := env.register(t, "bad actor")

	// A normal user cannot touch the admin surface.
	userToken, _ := env.register(t, "bystander")
	rec, body := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v2/admin/users/%d/ban", targetID), userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "auth.forbidden", body.Error)

	adminToken := env.adminSession(t, privileges.AdminBanUsers|privileges.AdminViewLogs)

	// Ban: privileges cleared, sessions dropped, audit row written.
	rec, _ = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v2/admin/users/%d/ban", targetID), adminToken,
		map[string]string{"reason": "multiaccounting"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	banned, err := env.store.GetUser(t.Context(), targetID)
	require.NoError(t, err)
	assert.True(t, banned.Privileges.IsBanned())

	rec, _ = env.do(t, http.MethodGet, "/api/v2/auth/me", targetToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/v2/admin/logs", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(body.Data, &logs))
	require.NotEmpty(t, logs)
	assert.Equal(t, "ban", logs[0].Action)
	assert.Equal(t, targetID, logs[0].TargetID)

	// Banned accounts cannot log back in.
	rec, body = env.do(t, http.MethodPost, "/api/v2/auth/login", "", map[string]string{
		"username": "bad actor",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "auth.banned", body.Error)

	// Unrestrict restores access.
	rec, _ = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v2/admin/users/%d/unrestrict", targetID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restored, err := env.store.GetUser(t.Context(), targetID)
	require.NoError(t, err)
	assert.False(t, restored.Privileges.IsBanned())
}

func TestLeaderboardEndpoint(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "player one")
	env.register(t, "player two")

	rec, body := env.do(t, http.MethodGet, "/api/v2/leaderboard?mode=0&playstyle=0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []store.LeaderboardEntry
	require.NoError(t, json.Unmarshal(body.Data, &entries))
	assert.Len(t, entries, 2)
}

func TestPeppyGetUser(t *testing.T) {
	env := setupEnv(t)
	_, userID := env.register(t, "legacy")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/get_user?u=%d&m=0", userID), nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Legacy responses are bare arrays with every value a string.
	var out []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, fmt.Sprintf("%d", userID), out[0]["user_id"])
	assert.Equal(t, "legacy", out[0]["username"])
	assert.Equal(t, "0", out[0]["playcount"])

	// Unknown users are an empty array, not an error envelope.
	req = httptest.NewRequest(http.MethodGet, "/api/get_user?u=999999", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAvatarUploadRejectsNonImage(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.register(t, "uploader")

	body := new(bytes.Buffer)
	writer := newMultipart(t, body, "file", "avatar.png", []byte("definitely not a png"))

	req := httptest.NewRequest(http.MethodPost, "/api/v2/users/me/avatar", body)
	req.Header.Set("Content-Type", writer)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "users.unsupported_media")
}

func TestAvatarUploadPNG(t *testing.T) {
	env := setupEnv(t)
	token, _ := env.register(t, "pfp haver")

	// Minimal PNG signature is enough for content sniffing.
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

	body := new(bytes.Buffer)
	contentType := newMultipart(t, body, "file", "avatar.png", png)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/users/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "avatars/")
}
