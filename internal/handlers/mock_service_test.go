package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"brew_control"
	"brew_control/internal/controller"
	"brew_control/internal/models"
	"brew_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockBrew answers every call with brew/err and records what was asked.
type mockBrew struct {
	brew   models.Brew
	err    error
	recipe []byte

	calls     []string
	lastName  string
	lastStep  service.StepParams
	lastTask  service.TaskParams
	lastOwner string
}

func (m *mockBrew) record(call string) (models.Brew, error) {
	m.calls = append(m.calls, call)
	return m.brew, m.err
}

func (m *mockBrew) Start(ctx context.Context) (models.Brew, error)   { return m.record("start") }
func (m *mockBrew) Pause(ctx context.Context) (models.Brew, error)   { return m.record("pause") }
func (m *mockBrew) Stop(ctx context.Context) (models.Brew, error)    { return m.record("stop") }
func (m *mockBrew) Reset(ctx context.Context) (models.Brew, error)   { return m.record("reset") }
func (m *mockBrew) Restart(ctx context.Context) (models.Brew, error) { return m.record("restart") }
func (m *mockBrew) Advance(ctx context.Context) (models.Brew, error) { return m.record("advance") }
func (m *mockBrew) Get(ctx context.Context) (models.Brew, error)     { return m.record("get") }

func (m *mockBrew) AddStep(ctx context.Context, p service.StepParams) (models.Brew, error) {
	m.lastStep = p
	return m.record("add_step")
}
func (m *mockBrew) EditStep(ctx context.Context, name string, p service.StepParams) (models.Brew, error) {
	m.lastName, m.lastStep = name, p
	return m.record("edit_step")
}
func (m *mockBrew) RemoveStep(ctx context.Context, name string) (models.Brew, error) {
	m.lastName = name
	return m.record("remove_step")
}
func (m *mockBrew) AddTask(ctx context.Context, step string, p service.TaskParams) (models.Brew, error) {
	m.lastOwner, m.lastTask = step, p
	return m.record("add_task")
}
func (m *mockBrew) EditTask(ctx context.Context, name string, p service.TaskParams) (models.Brew, error) {
	m.lastName, m.lastTask = name, p
	return m.record("edit_task")
}
func (m *mockBrew) RemoveTask(ctx context.Context, name string) (models.Brew, error) {
	m.lastName = name
	return m.record("remove_task")
}
func (m *mockBrew) Recipe(ctx context.Context, name string) ([]byte, error) {
	m.lastName = name
	m.calls = append(m.calls, "recipe")
	return m.recipe, m.err
}

type mockChannels struct {
	err      error
	acked    bool
	applied  controller.ChannelConfig
	sensor   models.SensorConfig
	lastID   int
	lastOn   bool
	lastCfg  service.ChannelParams
	resetIDs []int
}

func (m *mockChannels) SetEnabled(ctx context.Context, id int, enabled bool) error {
	m.lastID, m.lastOn = id, enabled
	return m.err
}
func (m *mockChannels) Acknowledge(ctx context.Context, id int) (bool, error) {
	m.lastID = id
	return m.acked, m.err
}
func (m *mockChannels) SetConfig(ctx context.Context, id int, p service.ChannelParams) (controller.ChannelConfig, error) {
	m.lastID, m.lastCfg = id, p
	return m.applied, m.err
}
func (m *mockChannels) ResetController(ctx context.Context, id int) error {
	m.resetIDs = append(m.resetIDs, id)
	return m.err
}
func (m *mockChannels) SetSimulation(ctx context.Context, sensor int, cfg models.SensorConfig) (models.SensorConfig, error) {
	m.lastID = sensor
	m.sensor = cfg
	return cfg, m.err
}

// mockMonitoring returns status; with ticking set, every call after the
// first advances status.Tick.
type mockMonitoring struct {
	status  brew_control.Status
	err     error
	ticking bool
	calls   int
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (brew_control.Status, error) {
	if m.ticking && m.calls > 0 {
		m.status.Tick++
	}
	m.calls++
	return m.status, m.err
}

type mockEventLog struct {
	resp  []models.BrewEvent
	err   error
	last  service.LogFilter
	calls int
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.BrewEvent, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// serve runs one authenticated request against r.
func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
