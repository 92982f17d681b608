package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hospital-directory/internal/config"
	"hospital-directory/internal/query"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/service"
	"hospital-directory/internal/validation"
	"hospital-directory/pkg/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	if err := utils.SetBcryptCost(bcrypt.MinCost); err != nil {
		panic(err)
	}
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	v, err := validation.New()
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	queryCfg := config.QueryConfig{DefaultLimit: 10, MaxLimit: 100, NearbyDefaultRadius: 5000}
	hospitalService := service.NewHospitalService(store.Hospitals, store.Offerings, store.Audit, query.FlatEarth{})
	testService := service.NewMedicalTestService(store.MedicalTests, store.Offerings, store.Audit, v)
	offeringService := service.NewOfferingService(store.Offerings, store.Hospitals, store.MedicalTests, store.Audit)

	router := NewRouter(Handlers{
		Health:      NewHealthHandler(config.StorageMemory, nil),
		Auth:        NewAuthHandler(service.NewAuthService(store.Users, store.Audit), time.Hour, false),
		Hospital:    NewHospitalHandler(hospitalService, offeringService, queryCfg),
		MedicalTest: NewMedicalTestHandler(testService, offeringService, queryCfg),
		Offering:    NewOfferingHandler(offeringService, queryCfg),
		Audit:       NewAuditHandler(service.NewAuditService(store.Audit), queryCfg),
	}, nil)

	token, err := utils.GenerateAccessToken(1, "admin")
	require.NoError(t, err)
	return &testServer{t: t, router: router, admin: "Bearer " + token}
}

// do sends a request and decodes a JSON response body into out when non-nil
func (s *testServer) do(method, path string, body any, auth string, out any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func hospitalPayload(name, phone string) map[string]any {
	return map[string]any{
		"hospital_rank": 1,
		"name":          name,
		"city":          "Dhaka",
		"division":      "Dhaka",
		"area":          "Bashundhara",
		"road":          "Plot 81",
		"house_number":  "81",
		"full_address":  "Plot 81, Block E, Bashundhara R/A, Dhaka",
		"phone":         phone,
		"email":         "info@evercare.test",
		"departments":   []string{"Cardiology", "Pathology"},
		"facilities":    []string{"ICU", "Laboratory"},
		"latitude":      23.8103,
		"longitude":     90.4125,
	}
}

func testPayload(name string) map[string]any {
	return map[string]any{
		"test_category":            "Pathology",
		"name":                     name,
		"description":              "Counts blood cells",
		"preparation_instructions": "No fasting required",
		"turnaround_time":          "24 hours",
		"age_restrictions":         "None",
		"gender_specific":          "both",
		"purpose":                  "Screening",
		"keywords":                 []string{"blood"},
	}
}

func offeringPayload(hospitalID, testID float64) map[string]any {
	return map[string]any{
		"hospital_id":               hospitalID,
		"test_id":                   testID,
		"price":                     1000,
		"availability_hours":        "24/7",
		"turnaround_time":           "1 day",
		"report_format":             "digital",
		"booking_contact":           "01710000000",
		"sample_collection_points":  "Main lab",
		"discount_available":        true,
		"discount_percentage":       10,
		"home_collection_available": true,
		"home_collection_fee":       50,
	}
}

func (s *testServer) createHospital(name, phone string) float64 {
	s.t.Helper()
	var created map[string]any
	w := s.do(http.MethodPost, "/hospitals", hospitalPayload(name, phone), s.admin, &created)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return created["id"].(float64)
}

func (s *testServer) createTest(name string) float64 {
	s.t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	w := s.do(http.MethodPost, "/tests", testPayload(name), s.admin, &resp)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return resp.Data["id"].(float64)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var body map[string]any

	w := s.do(http.MethodGet, "/health", nil, "", &body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
}

func TestHospitals_WritesNeedAdmin(t *testing.T) {
	s := newTestServer(t)
	userToken, err := utils.GenerateAccessToken(2, "user")
	require.NoError(t, err)

	w := s.do(http.MethodPost, "/hospitals", hospitalPayload("A", "01710000001"), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/hospitals", hospitalPayload("A", "01710000001"), "Bearer "+userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHospitals_CreateGetListDelete(t *testing.T) {
	s := newTestServer(t)
	id := s.createHospital("Evercare", "01710000001")
	s.createHospital("Square", "01710000002")

	var doc map[string]any
	w := s.do(http.MethodGet, "/hospitals/1", nil, "", &doc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Evercare", doc["name"])

	var list struct {
		Hospitals   []map[string]any `json:"hospitals"`
		TotalPages  int              `json:"totalPages"`
		CurrentPage int              `json:"currentPage"`
	}
	w = s.do(http.MethodGet, "/hospitals?limit=1&page=2", nil, "", &list)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, list.TotalPages)
	assert.Equal(t, 2, list.CurrentPage)
	assert.Len(t, list.Hospitals, 1)

	w = s.do(http.MethodGet, "/hospitals?search=square", nil, "", &list)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list.Hospitals, 1)
	assert.Equal(t, "Square", list.Hospitals[0]["name"])

	var msg map[string]any
	w = s.do(http.MethodDelete, "/hospitals/1", nil, s.admin, &msg)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hospital deleted successfully", msg["message"])
	assert.Equal(t, float64(1), id)

	w = s.do(http.MethodGet, "/hospitals/1", nil, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHospitals_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	s.createHospital("Evercare", "01710000001")

	w := s.do(http.MethodPost, "/hospitals", hospitalPayload("Dup", "01710000001"), s.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	bad := hospitalPayload("Bad", "12345")
	bad["division"] = "Atlantis"
	var body map[string]any
	w = s.do(http.MethodPost, "/hospitals", bad, s.admin, &body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "phone")
	assert.Contains(t, body["error"], "division")

	w = s.do(http.MethodGet, "/hospitals/abc", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/hospitals?sort=password", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHospitals_PatchKeepsOtherFields(t *testing.T) {
	s := newTestServer(t)
	s.createHospital("Evercare", "01710000001")

	var doc map[string]any
	w := s.do(http.MethodPatch, "/hospitals/1", map[string]any{"verified": true}, s.admin, &doc)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, doc["verified"])
	assert.Equal(t, "Evercare", doc["name"])

	w = s.do(http.MethodPut, "/hospitals/9", hospitalPayload("Ghost", "01710000009"), s.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHospitals_LocationDepartmentNearby(t *testing.T) {
	s := newTestServer(t)
	s.createHospital("Evercare", "01710000001")

	var hospitals []map[string]any
	w := s.do(http.MethodGet, "/hospitals/location?city=dhaka", nil, "", &hospitals)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, hospitals, 1)

	w = s.do(http.MethodGet, "/hospitals/location", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/hospitals/department?department=Cardiology", nil, "", &hospitals)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, hospitals, 1)

	w = s.do(http.MethodGet, "/hospitals/nearby?lat=23.81&lng=90.41&maxDistance=2000", nil, "", &hospitals)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, hospitals, 1)

	w = s.do(http.MethodGet, "/hospitals/nearby?lat=22.35&lng=91.78", nil, "", &hospitals)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, hospitals)

	w = s.do(http.MethodGet, "/hospitals/nearby?lng=90.41", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTests_ListEnvelopeAndSearch(t *testing.T) {
	s := newTestServer(t)
	s.createTest("Complete Blood Count")
	s.createTest("Lipid Profile")
	s.createTest("Thyroid Panel")

	var resp struct {
		Success    bool             `json:"success"`
		Data       []map[string]any `json:"data"`
		Pagination query.Pagination `json:"pagination"`
	}
	w := s.do(http.MethodGet, "/tests?limit=2&sort=name&order=desc", nil, "", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Thyroid Panel", resp.Data[0]["name"])
	assert.Equal(t, query.Pagination{CurrentPage: 1, TotalPages: 2, TotalCount: 3, HasNext: true}, resp.Pagination)

	w = s.do(http.MethodGet, "/tests/search?q=lipid", nil, "", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Lipid Profile", resp.Data[0]["name"])

	w = s.do(http.MethodGet, "/tests/search", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/tests/category/pathology", nil, "", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 3)
}

func TestTests_HugePageIsEmpty(t *testing.T) {
	s := newTestServer(t)
	s.createTest("Complete Blood Count")

	var resp struct {
		Data       []map[string]any `json:"data"`
		Pagination query.Pagination `json:"pagination"`
	}
	path := "/tests?limit=10&page=" + strconv.Itoa(math.MaxInt)
	w := s.do(http.MethodGet, path, nil, "", &resp)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, resp.Data)
	assert.Equal(t, math.MaxInt/10, resp.Pagination.CurrentPage)
	assert.False(t, resp.Pagination.HasNext)

	var hospitals struct {
		Hospitals []map[string]any `json:"hospitals"`
	}
	s.createHospital("Evercare", "01710000001")
	w = s.do(http.MethodGet, "/hospitals?page="+strconv.Itoa(math.MaxInt), nil, "", &hospitals)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, hospitals.Hospitals)
}

func TestTests_StatsAndSummary(t *testing.T) {
	s := newTestServer(t)
	id := s.createTest("CBC")

	var stats struct {
		Data struct {
			Overview struct {
				TotalTests int `json:"totalTests"`
			} `json:"overview"`
			ByCategory       []map[string]any `json:"byCategory"`
			ByTurnaroundTime []map[string]any `json:"byTurnaroundTime"`
		} `json:"data"`
	}
	w := s.do(http.MethodGet, "/tests/stats", nil, "", &stats)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stats.Data.Overview.TotalTests)
	assert.Len(t, stats.Data.ByCategory, 1)

	var summary struct {
		Data map[string]any `json:"data"`
	}
	w = s.do(http.MethodGet, "/tests/1/summary", nil, "", &summary)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, summary.Data["id"])
	assert.Equal(t, "Pathology", summary.Data["category"])
}

func TestTests_BulkStatuses(t *testing.T) {
	s := newTestServer(t)
	invalid := testPayload("")

	var resp struct {
		Data struct {
			Created []map[string]any `json:"created"`
			Errors  []map[string]any `json:"errors"`
		} `json:"data"`
	}
	w := s.do(http.MethodPost, "/tests/bulk", map[string]any{
		"tests": []any{testPayload("CBC"), invalid, testPayload("Lipid Profile")},
	}, s.admin, &resp)
	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())
	assert.Len(t, resp.Data.Created, 2)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, float64(1), resp.Data.Errors[0]["index"])

	w = s.do(http.MethodPost, "/tests/bulk", map[string]any{"tests": []any{testPayload("TSH")}}, s.admin, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/tests/bulk", map[string]any{"tests": []any{invalid}}, s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/tests/bulk", map[string]any{"tests": []any{}}, s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOfferings_PricedViewsAndConflict(t *testing.T) {
	s := newTestServer(t)
	hospitalID := s.createHospital("Evercare", "01710000001")
	testID := s.createTest("CBC")

	var created struct {
		Data map[string]any `json:"data"`
	}
	w := s.do(http.MethodPost, "/offerings", offeringPayload(hospitalID, testID), s.admin, &created)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 900.0, created.Data["discounted_price"])
	assert.Equal(t, "BDT", created.Data["currency"])

	w = s.do(http.MethodPost, "/offerings", offeringPayload(hospitalID, testID), s.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var view struct {
		Data map[string]any `json:"data"`
	}
	w = s.do(http.MethodGet, "/offerings/1?include_home_collection=true", nil, "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 945.0, view.Data["total_cost"])
	assert.Equal(t, "Evercare", view.Data["hospital"].(map[string]any)["name"])

	var list struct {
		Data       []map[string]any `json:"data"`
		Pagination query.Pagination `json:"pagination"`
	}
	w = s.do(http.MethodGet, "/offerings?max_price=500", nil, "", &list)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, list.Data)
	assert.Equal(t, int64(0), list.Pagination.TotalCount)

	w = s.do(http.MethodGet, "/tests/1/hospitals", nil, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/hospitals/1", nil, s.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOfferings_DiscountNeedsPercentage(t *testing.T) {
	s := newTestServer(t)
	hospitalID := s.createHospital("Evercare", "01710000001")
	testID := s.createTest("CBC")
	payload := offeringPayload(hospitalID, testID)
	delete(payload, "discount_percentage")

	w := s.do(http.MethodPost, "/offerings", payload, s.admin, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]any{"username": "alice", "password": "secret123"}

	var reg struct {
		Data struct {
			User map[string]any `json:"user"`
		} `json:"data"`
	}
	w := s.do(http.MethodPost, "/auth/register", creds, "", &reg)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "admin", reg.Data.User["role"])

	bob := map[string]any{"username": "bob", "password": "secret123", "role": "admin"}
	w = s.do(http.MethodPost, "/auth/register", bob, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/auth/register", bob, s.admin, &reg)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "admin", reg.Data.User["role"])

	w = s.do(http.MethodPost, "/auth/login", map[string]any{"username": "alice", "password": "nope"}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/login", creds, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(cookies[0])
	rw := httptest.NewRecorder()
	s.router.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)

	w = s.do(http.MethodGet, "/audit-logs", nil, s.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
