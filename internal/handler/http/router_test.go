package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklense/hrbi-backend-go/internal/config"
	"github.com/worklense/hrbi-backend-go/internal/domain/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
	"github.com/worklense/hrbi-backend-go/internal/pkg/metrics"
	"github.com/worklense/hrbi-backend-go/internal/pkg/sse"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeDashboardService struct {
	mu          sync.Mutex
	renderErr   error
	statusErr   error
	replaceErr  error
	lastRender  dashboard.RenderRequest
	reloads     int
	replaced    string
	replacedBuf []byte
}

func (f *fakeDashboardService) Render(ctx context.Context, req dashboard.RenderRequest) (*dashboard.Rendered, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRender = req
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return &dashboard.Rendered{
		Result: &report.Result{
			ReportID: req.ReportID,
			KPIs: []report.KPI{
				{ID: report.MetricID("manpower_cost"), Label: "Manpower Cost", Value: 125_000_000, Kind: report.KindCurrency},
				{ID: report.MetricID("attrition_rate"), Label: "Attrition", Value: 12.345, Kind: report.KindPercentage},
			},
		},
		Selection:  req.Selection,
		Population: 3,
	}, nil
}

func (f *fakeDashboardService) FilterOptions(ctx context.Context) (map[string][]string, error) {
	return map[string][]string{workforce.ColDepartment: {"Ops", "Sales"}}, nil
}

func (f *fakeDashboardService) Reports(ctx context.Context) []report.Info {
	return []report.Info{{ID: "executive_summary", Title: "Executive Summary"}}
}

func (f *fakeDashboardService) FiscalYears(ctx context.Context, n int) []dashboard.FiscalYear {
	out := make([]dashboard.FiscalYear, n)
	return out
}

func (f *fakeDashboardService) Status(ctx context.Context) (*dashboard.DatasetStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &dashboard.DatasetStatus{
		Sources:  workforce.Sources,
		Rows:     map[string]int{workforce.SourceEmployeeMaster: 3},
		Columns:  map[string][]string{workforce.SourceEmployeeMaster: {workforce.ColEmployeeID}},
		Missing:  []string{workforce.SourceSalesFigures},
		LoadedAt: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeDashboardService) Reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func (f *fakeDashboardService) Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error) {
	if f.replaceErr != nil {
		return "", f.replaceErr
	}
	buf, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = source + "/" + filename
	f.replacedBuf = buf
	return filename, nil
}

type testServer struct {
	router  http.Handler
	svc     *fakeDashboardService
	jwt     jwt.Service
	hub     *sse.Hub
	metrics *metrics.Manager
}

func newTestServer(t *testing.T, withAuth bool) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:  config.AppConfig{Name: "hrbi-test", Version: "test", Env: "test"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	ts := &testServer{
		svc:     &fakeDashboardService{},
		hub:     sse.NewHub(),
		metrics: metrics.NewManager(),
	}
	if withAuth {
		svc, err := jwt.NewJWTService(handlerTestSecret, "1h")
		require.NoError(t, err)
		ts.jwt = svc
	}
	ts.router = NewRouter(cfg, ts.jwt, ts.metrics, Handlers{
		Dashboard: NewDashboardHandler(ts.svc, "workforce_profile"),
		Data:      NewDataHandler(ts.svc),
		Events:    NewEventsHandler(ts.hub, ts.jwt),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role jwt.Role) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken("user-1", role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestRouter_Heartbeat(t *testing.T) {
	ts := newTestServer(t, true)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sseToken, _, err := ts.jwt.GenerateSSEToken("user-1")
	require.NoError(t, err)
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil), sseToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "SSE tokens are not access tokens")
}

func TestRouter_ListReports(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil), ts.token(t, jwt.RoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Default string        `json:"default"`
		Reports []report.Info `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	require.Len(t, list.Reports, 1)
	assert.Equal(t, "executive_summary", list.Reports[0].ID)
	assert.Equal(t, "executive_summary", list.Default, "unregistered default falls back to the first report")
}

func TestRouter_Render(t *testing.T) {
	ts := newTestServer(t, true)
	body := `{"selection":{"department":["Sales"]},"as_of":"2025-03-31","trailing_years":3}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/executive_summary/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req, ts.token(t, jwt.RoleViewer))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := ts.svc.lastRender
	assert.Equal(t, "executive_summary", got.ReportID)
	assert.Equal(t, []string{"Sales"}, got.Selection["department"])
	assert.Equal(t, 3, got.TrailingYears)
	require.NotNil(t, got.AsOf)
	assert.True(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC).Equal(*got.AsOf))

	var view struct {
		Population int `json:"population"`
		KPIs       []struct {
			ID      string `json:"id"`
			Display string `json:"display"`
			Exact   string `json:"exact"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.Equal(t, 3, view.Population)
	require.Len(t, view.KPIs, 2)
	assert.Equal(t, "₹12 Cr", view.KPIs[0].Display)
	assert.Equal(t, "₹12,50,00,000", view.KPIs[0].Exact)
	assert.Equal(t, "12.3%", view.KPIs[1].Display)
	assert.Empty(t, view.KPIs[1].Exact)
}

func TestRouter_RenderEmptyBody(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/leave_summary/render", nil)
	rec := ts.do(req, ts.token(t, jwt.RoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, ts.svc.lastRender.AsOf)
	assert.Equal(t, "leave_summary", ts.svc.lastRender.ReportID)
}

func TestRouter_RenderErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"malformed json", `{"selection":`, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad as_of", `{"as_of":"31/03/2025"}`, nil, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown report", `{}`, report.ErrReportNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"not loaded", `{}`, dashboard.ErrDatasetNotLoaded, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"report panicked", `{}`, report.ErrReportFailed, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.svc.renderErr = tc.err

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/x/render", strings.NewReader(tc.body))
			rec := ts.do(req, ts.token(t, jwt.RoleViewer))
			assert.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestRouter_FiscalYears(t *testing.T) {
	ts := newTestServer(t, true)
	token := ts.token(t, jwt.RoleViewer)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/fiscal-years?n=3", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	var years []dashboard.FiscalYear
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &years))
	assert.Len(t, years, 3)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/fiscal-years?n=abc", nil), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "n")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/fiscal-years?n=21", nil), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_ChartsAndFilters(t *testing.T) {
	ts := newTestServer(t, true)
	token := ts.token(t, jwt.RoleViewer)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/charts", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	var charts []chartView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &charts))
	assert.Len(t, charts, len(report.DefaultCatalog))
	assert.Equal(t, report.ChartAgeDistribution, charts[0].ID)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	var filters map[string][]string
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &filters))
	assert.Equal(t, []string{"Ops", "Sales"}, filters[workforce.ColDepartment])
}

func TestRouter_Status(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/status", nil), ts.token(t, jwt.RoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Sources  []string            `json:"sources"`
		Rows     map[string]int      `json:"rows"`
		Columns  map[string][]string `json:"columns"`
		Missing  []string            `json:"missing"`
		LoadedAt string              `json:"loaded_at"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &status))
	assert.Equal(t, workforce.Sources, status.Sources)
	assert.Equal(t, 3, status.Rows[workforce.SourceEmployeeMaster])
	assert.Equal(t, []string{workforce.ColEmployeeID}, status.Columns[workforce.SourceEmployeeMaster])
	assert.Equal(t, []string{workforce.SourceSalesFigures}, status.Missing)
	assert.Equal(t, "2025-12-31T00:00:00Z", status.LoadedAt)
}

func TestRouter_StatusNotLoaded(t *testing.T) {
	ts := newTestServer(t, true)
	ts.svc.statusErr = dashboard.ErrDatasetNotLoaded

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/status", nil), ts.token(t, jwt.RoleViewer))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_ReloadRequiresAdmin(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/data/reload", nil), ts.token(t, jwt.RoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, ts.svc.reloads)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/data/reload", nil), ts.token(t, jwt.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.svc.reloads)
	assert.Equal(t, "Dataset reloaded", decode(t, rec).Message)
}

func TestRouter_AuthDisabled(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/data/reload", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/events/token", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartUpload(t *testing.T, url, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRouter_Upload(t *testing.T) {
	ts := newTestServer(t, true)
	admin := ts.token(t, jwt.RoleAdmin)
	content := []byte("employee_id,leave_type,days\nE1,Sick,2\n")

	req := multipartUpload(t, "/api/v1/data/leave_records", "file", "leaves.csv", content)
	rec := ts.do(req, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "leave_records/leaves.csv", ts.svc.replaced)
	assert.Equal(t, content, ts.svc.replacedBuf)

	req = multipartUpload(t, "/api/v1/data/leave_records", "", "", nil)
	rec = ts.do(req, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = multipartUpload(t, "/api/v1/data/leave_records", "file", "leaves.csv", content)
	rec = ts.do(req, ts.token(t, jwt.RoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_UploadErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{workforce.ErrUnknownSource, http.StatusNotFound},
		{workforce.ErrUnsupportedFormat, http.StatusBadRequest},
		{workforce.ErrSourceNotWritable, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.svc.replaceErr = tc.err

			req := multipartUpload(t, "/api/v1/data/payroll", "file", "payroll.csv", []byte("x"))
			rec := ts.do(req, ts.token(t, jwt.RoleAdmin))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t, true)
	ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil), ts.token(t, jwt.RoleViewer))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hrbi_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/v1/reports`)
}

func TestEvents_StreamRejectsBadToken(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/events?token=bogus", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access := ts.token(t, jwt.RoleViewer)
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/events?token="+access, nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access tokens are not SSE tokens")
}

func TestEvents_Stream(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/events/token", nil), ts.token(t, jwt.RoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tok))
	assert.Equal(t, 300, tok.ExpiresIn)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?token="+tok.Token, nil).WithContext(ctx)
	stream := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		ts.router.ServeHTTP(stream, req)
	}()

	require.Eventually(t, func() bool {
		return ts.hub.SubscriberCount(sse.TopicDataset) == 1
	}, time.Second, 5*time.Millisecond)
	ts.hub.Publish(sse.TopicDataset, sse.Event{Event: "dataset.reloaded", Data: map[string]int{"employee_master": 3}})

	// Give the handler a moment to drain the event before disconnecting.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := stream.Body.String()
	assert.Equal(t, "text/event-stream", stream.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `"subject":"user-1"`)
	assert.Contains(t, body, "event: dataset.reloaded\ndata: {\"employee_master\":3}")
	assert.Equal(t, 0, ts.hub.SubscriberCount(sse.TopicDataset))
}

func TestEvents_StreamEndsOnShutdown(t *testing.T) {
	ts := newTestServer(t, false)

	stream := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		ts.router.ServeHTTP(stream, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	}()

	require.Eventually(t, func() bool {
		return ts.hub.SubscriberCount(sse.TopicDataset) == 1
	}, time.Second, 5*time.Millisecond)
	ts.hub.Broadcast(sse.Event{Event: sse.EventShutdown})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream still open after shutdown event")
	}
	assert.Contains(t, stream.Body.String(), "event: shutdown")
	assert.Equal(t, 0, ts.hub.SubscriberCount(sse.TopicDataset))
}
