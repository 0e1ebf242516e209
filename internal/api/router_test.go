package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itinera/internal/api/controllers"
	"itinera/internal/config"
	"itinera/internal/infra"
	"itinera/internal/services"
	"itinera/internal/testsupport"
	mem "itinera/pkg/memcache"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

type apiFixture struct {
	engine  *gin.Engine
	store   *testsupport.MemoryStore
	tokens  *utils.TokenManager
	uploads string
	token   string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	store := testsupport.NewMemoryStore()
	uploads := t.TempDir()
	files, err := infra.NewLocalFileStore(uploads)
	require.NoError(t, err)

	cfg := &config.Config{
		UploadDir:          uploads,
		CORSOrigins:        []string{"*"},
		DefaultCountryCode: "+91",
		MailFromName:       "Itinera",
	}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	provider := services.NewNoopProvider(config.NotifyChannelWhatsApp, log)

	search := services.NewSearchService(store, store, nil, log)
	itineraries := services.NewItineraryService(store, store, services.NewCsvExtractor(log), files, search, log)
	accounts := services.NewAccountService(services.AccountServiceDeps{
		AccountRepo:        store,
		OtpStore:           mem.NewMemoryOtpStore(),
		Mailer:             services.NewMailService(cfg, log),
		SMS:                provider,
		Tokens:             tokens,
		AppName:            cfg.MailFromName,
		DefaultCountryCode: cfg.DefaultCountryCode,
		Logger:             log,
	})

	engine := NewRouter(RouterParams{
		Config:   cfg,
		Logger:   log,
		Tokens:   tokens,
		Accounts: controllers.NewAccountController(accounts),
		Itineraries: controllers.NewItineraryController(
			itineraries,
			services.NewUploadService(t.TempDir(), 10<<20, log),
			search,
			services.NewExportService(store, store, log),
		),
		Travelers: controllers.NewTravelerController(services.NewTravelerService(store, store, log)),
		Notifications: controllers.NewNotificationController(
			services.NewNotificationService(store, store, store, provider, cfg.DefaultCountryCode, 0, log),
		),
		Analytics: controllers.NewAnalyticsController(services.NewAnalyticsService(store, log)),
		Chat:      controllers.NewChatController(services.NewAssistantService(store, store, services.NewCannedAssistant(), log)),
	})

	token, err := tokens.CreateToken(uuid.New())
	require.NoError(t, err)

	return &apiFixture{engine: engine, store: store, tokens: tokens, uploads: uploads, token: token}
}

func (f *apiFixture) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if f.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Header().Get("Content-Type") != "application/pdf" && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func (f *apiFixture) json(t *testing.T, method, target string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return f.do(t, req)
}

func uploadRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/itineraries", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealthCarriesTraceID(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""

	rec, body := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])

	traceID := rec.Header().Get(middleware.TraceIDHeader)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
	assert.Equal(t, traceID, body["trace_id"])
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""

	for _, target := range []string{"/itineraries", "/analytics"} {
		rec, body := f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, false, body["status"])
	}

	req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec, _ := f.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestItineraryLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	csv := []byte("Activity,Time,Location\nFort Aguada,08:00 AM,Candolim\nSpice farm,,Ponda\n")
	rec, body := f.do(t, uploadRequest(t, map[string]string{"title": "Goa Getaway", "destination": "Goa"}, "plan.csv", csv))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Itinerary uploaded! Timeline parsed (2 days)", body["message"])

	item := body["item"].(map[string]any)
	id := item["id"].(string)
	assert.Equal(t, "Goa Getaway", item["title"])
	assert.Len(t, item["days"], 2)
	fileURL := item["fileUrl"].(string)
	assert.FileExists(t, filepath.Join(f.uploads, path.Base(fileURL)))

	rec, body = f.json(t, http.MethodGet, "/itineraries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
	summary := body["data"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 0, summary["travelerCount"])

	rec, body = f.json(t, http.MethodPost, "/itineraries/"+id+"/travelers", map[string]any{
		"name": "Asha", "phone": "9876543210", "isPrimary": "true",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	traveler := body["traveler"].(map[string]any)
	assert.Equal(t, true, traveler["isPrimary"])
	travelerID := traveler["id"].(string)

	rec, body = f.json(t, http.MethodGet, "/itineraries/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := body["data"].(map[string]any)
	assert.Len(t, detail["travelers"], 1)
	assert.EqualValues(t, 1, detail["travelerCount"])

	rec, body = f.json(t, http.MethodPatch, "/itineraries/"+id+"/status", map[string]string{"status": "active"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "active", body["data"].(map[string]any)["status"])

	rec, body = f.json(t, http.MethodPatch, "/itineraries/"+id+"/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = f.json(t, http.MethodPost, "/itineraries/"+id+"/notify", map[string]string{"travelerId": travelerID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["sent"])
	assert.Equal(t, "Message sent to Asha!", body["message"])

	rec, body = f.json(t, http.MethodPost, "/itineraries/"+id+"/notify-all", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["sent"])
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, "1/1 travelers notified", body["message"])

	rec, body = f.json(t, http.MethodGet, "/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := body["data"].(map[string]any)
	assert.EqualValues(t, 1, stats["activeTrips"])
	assert.EqualValues(t, 2, stats["messagesSent"])
	assert.EqualValues(t, 100, stats["successRate"])

	rec, _ = f.json(t, http.MethodDelete, "/itineraries/"+id+"/travelers/"+travelerID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.json(t, http.MethodDelete, "/itineraries/"+id+"/travelers/"+travelerID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = f.json(t, http.MethodDelete, "/itineraries/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := body["data"].(map[string]any)
	assert.Equal(t, id, deleted["deletedId"])
	assert.Equal(t, "Goa Getaway", deleted["deletedTitle"])

	rec, body = f.json(t, http.MethodGet, "/itineraries/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["status"])
}

func TestUploadRejections(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.do(t, uploadRequest(t, map[string]string{"title": "No file"}, "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "no file uploaded")

	rec, body = f.do(t, uploadRequest(t, nil, "virus.exe", []byte("MZ")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "only PDF, CSV, JSON files allowed")

	rec, _ = f.do(t, uploadRequest(t, nil, "broken.csv", []byte("a,\"b\nc")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(f.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManualCreateAndExport(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.json(t, http.MethodPost, "/itineraries/manual", map[string]any{
		"title": "Kyoto", "days": []map[string]any{{"title": "Fushimi Inari"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := body["item"].(map[string]any)["id"].(string)

	rec, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/itineraries/"+id+"/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "kyoto.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec, body = f.json(t, http.MethodGet, "/itineraries/search?q=kyo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])

	rec, _ = f.json(t, http.MethodGet, "/itineraries/search?q=kyo&limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedJSONBody(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/itineraries/manual", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec, body := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", body["message"])
}

func TestAuthFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""

	signup := map[string]string{"name": "Asha", "email": "Asha@Example.com", "phone": "9876543210", "password": "secret12"}
	rec, body := f.json(t, http.MethodPost, "/auth/signup", signup)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "asha@example.com", body["user"].(map[string]any)["email"])

	rec, body = f.json(t, http.MethodPost, "/auth/signup", signup)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "user already exists")

	rec, body = f.json(t, http.MethodPost, "/auth/login", map[string]string{"email": "+919876543210", "password": "secret12"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := body["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body = f.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])

	rec, _ = f.json(t, http.MethodPost, "/auth/login", map[string]string{"email": "asha@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.json(t, http.MethodPost, "/auth/send-otp", map[string]string{"type": "email", "value": "asha@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, _ = f.json(t, http.MethodPost, "/auth/send-otp", map[string]string{"type": "email", "value": "asha@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, _ = f.json(t, http.MethodPost, "/auth/send-otp", map[string]string{"type": "email", "value": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = f.json(t, http.MethodPost, "/auth/reset-password", map[string]string{"value": "asha@example.com", "password": "newsecret"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "Complete OTP verification first")
}

func TestChatQuery(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.json(t, http.MethodPost, "/chat/query", map[string]string{"message": "Best time to visit Goa?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := body["data"].(map[string]any)
	assert.Equal(t, config.AssistantCanned, reply["provider"])
	assert.NotEmpty(t, reply["message"])

	rec, _ = f.json(t, http.MethodPost, "/chat/query", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.json(t, http.MethodPost, "/chat/query", map[string]string{"message": "hi", "itineraryId": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
