package http

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindfulplate/backend/config"
	"github.com/mindfulplate/backend/internal/infrastructure/cache"
	"github.com/mindfulplate/backend/internal/infrastructure/dictionary"
	"github.com/mindfulplate/backend/internal/infrastructure/history"
	"github.com/mindfulplate/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// setupTestRouter wires a full stack: builtin dictionary, memory cache,
// in-memory history, no oracle, and a fixed clock.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
		RateLimit: config.RateLimitConfig{
			PerIP: 6000,
		},
	}

	repo, err := history.NewSQLiteRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory history: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	pipeline := usecase.NewPipeline(
		dictionary.Builtin(),
		cache.NewMemoryCache(),
		nil,
		usecase.PipelineConfig{},
	)
	analyzer := usecase.NewPatternAnalyzer(usecase.PatternConfig{})
	recommender := usecase.NewRecommender(usecase.DefaultThresholds(), nil, rand.New(rand.NewSource(1)))
	logs := usecase.NewLogService(pipeline, analyzer, recommender, repo, usecase.LogServiceConfig{
		Clock: func() time.Time {
			return time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
		},
	})

	handler := NewHandler(logs, usecase.NewKeywordIntentClassifier())
	return SetupRouter(cfg, handler)
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "mindfulplate-backend" {
			t.Errorf("service = %v, want mindfulplate-backend", response["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t)

		methods := []string{"POST", "PUT", "DELETE", "PATCH"}

		for _, method := range methods {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestLogMealEndpoint tests the meal logging endpoint end to end
func TestLogMealEndpoint(t *testing.T) {
	t.Run("logs a meal with a portion", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"8oz grilled chicken","mealType":"dinner"}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Foods []struct {
				Name         string  `json:"name"`
				PortionLabel string  `json:"portionLabel"`
				Nutrition    struct {
					Calories float64 `json:"calories"`
					Protein  float64 `json:"protein"`
				} `json:"nutrition"`
			} `json:"foods"`
			TotalNutrition struct {
				Calories float64 `json:"calories"`
				Protein  float64 `json:"protein"`
			} `json:"totalNutrition"`
			Recommendations []struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"recommendations"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if len(response.Foods) != 1 {
			t.Fatalf("len(foods) = %d, want 1", len(response.Foods))
		}
		if response.Foods[0].Name != "Grilled Chicken" {
			t.Errorf("food name = %s, want Grilled Chicken", response.Foods[0].Name)
		}
		if response.Foods[0].PortionLabel != "8 oz" {
			t.Errorf("portion label = %s, want 8 oz", response.Foods[0].PortionLabel)
		}
		if response.TotalNutrition.Calories != 330 {
			t.Errorf("total calories = %v, want 330", response.TotalNutrition.Calories)
		}
		if response.TotalNutrition.Protein != 62 {
			t.Errorf("total protein = %v, want 62", response.TotalNutrition.Protein)
		}
		if len(response.Recommendations) == 0 {
			t.Error("expected at least one recommendation")
		}
	})

	t.Run("asks for clarification on generic terms", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"I drank a soda"}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["needsClarification"] != true {
			t.Errorf("needsClarification = %v, want true", response["needsClarification"])
		}
		prompt, _ := response["clarificationPrompt"].(string)
		if !strings.Contains(prompt, "soda") {
			t.Errorf("clarificationPrompt = %q, want it to mention soda", prompt)
		}
	})

	t.Run("asks for ingredients when nothing is recognized", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"mystery goo"}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["noMatch"] != true {
			t.Errorf("noMatch = %v, want true", response["noMatch"])
		}
		message, _ := response["userMessage"].(string)
		if !strings.Contains(message, "ingredients") {
			t.Errorf("userMessage = %q, want it to ask for ingredients", message)
		}
	})

	t.Run("decomposes an ingredients reply into a mixed dish", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"chicken, rice and cheese","asIngredients":true}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Foods []struct {
				Name        string   `json:"name"`
				Source      string   `json:"source"`
				Ingredients []string `json:"ingredients"`
			} `json:"foods"`
			UserMessage string `json:"userMessage"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if len(response.Foods) != 1 {
			t.Fatalf("len(foods) = %d, want 1", len(response.Foods))
		}
		if response.Foods[0].Name != "Mixed Dish (estimated)" {
			t.Errorf("food name = %s, want Mixed Dish (estimated)", response.Foods[0].Name)
		}
		if response.Foods[0].Source != "ingredient_estimate" {
			t.Errorf("source = %s, want ingredient_estimate", response.Foods[0].Source)
		}
		if len(response.Foods[0].Ingredients) != 3 {
			t.Errorf("len(ingredients) = %d, want 3", len(response.Foods[0].Ingredients))
		}
		if response.UserMessage == "" {
			t.Error("expected a userMessage describing the estimate")
		}
	})

	t.Run("short-circuits greetings without logging", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"hello there"}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["intent"] != "greeting" {
			t.Errorf("intent = %v, want greeting", response["intent"])
		}

		// Nothing should have been written to the day's log
		req, _ = http.NewRequest("GET", "/api/v1/logs/today?userId=u1", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var summary struct {
			Entries []json.RawMessage `json:"logs"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
			t.Fatalf("Failed to unmarshal summary: %v", err)
		}
		if len(summary.Entries) != 0 {
			t.Errorf("len(logs) = %d, want 0 after greeting", len(summary.Entries))
		}
	})

	t.Run("answers questions without logging", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"how much protein should I eat?"}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["intent"] != "question" {
			t.Errorf("intent = %v, want question", response["intent"])
		}
	})

	t.Run("returns 400 for missing fields", func(t *testing.T) {
		router := setupTestRouter(t)

		payloads := []string{
			`{"text":"2 eggs"}`,
			`{"userId":"u1"}`,
			`{invalid json}`,
		}

		for _, payload := range payloads {
			req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("payload %s: Status = %d, want %d", payload, w.Code, http.StatusBadRequest)
			}
		}
	})
}

// TestTodayLogsEndpoint tests the daily summary endpoint
func TestTodayLogsEndpoint(t *testing.T) {
	t.Run("accumulates logged meals into daily totals", func(t *testing.T) {
		router := setupTestRouter(t)

		for _, text := range []string{"2 eggs", "1 banana"} {
			payload := `{"userId":"u1","text":"` + text + `"}`
			req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("logging %q: Status = %d, want %d", text, w.Code, http.StatusOK)
			}
		}

		req, _ := http.NewRequest("GET", "/api/v1/logs/today?userId=u1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var summary struct {
			Entries []json.RawMessage `json:"logs"`
			Totals  struct {
				Calories float64 `json:"calories"`
			} `json:"dailyTotal"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
			t.Fatalf("Failed to unmarshal summary: %v", err)
		}

		if len(summary.Entries) != 2 {
			t.Errorf("len(logs) = %d, want 2", len(summary.Entries))
		}
		if summary.Totals.Calories <= 0 {
			t.Errorf("dailyTotal.calories = %v, want > 0", summary.Totals.Calories)
		}
	})

	t.Run("requires userId", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/logs/today", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestStatsEndpoint tests the aggregate statistics endpoint
func TestStatsEndpoint(t *testing.T) {
	t.Run("reports insufficient data for a new user", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/stats?userId=fresh", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["message"] == nil {
			t.Error("expected a message for a user with no history")
		}
	})

	t.Run("returns stats after logging", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"userId":"u1","text":"grilled chicken and rice"}`
		req, _ := http.NewRequest("POST", "/api/v1/log", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("logging: Status = %d", w.Code)
		}

		req, _ = http.NewRequest("GET", "/api/v1/stats?userId=u1", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var stats struct {
			TotalMealsLogged int `json:"totalMealsLogged"`
			MostCommonFoods  []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"mostCommonFoods"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
			t.Fatalf("Failed to unmarshal stats: %v", err)
		}

		if stats.TotalMealsLogged != 1 {
			t.Errorf("totalMealsLogged = %d, want 1", stats.TotalMealsLogged)
		}
		if len(stats.MostCommonFoods) != 2 {
			t.Errorf("len(mostCommonFoods) = %d, want 2", len(stats.MostCommonFoods))
		}
	})
}

// TestRecommendationsEndpoint tests history-only recommendations
func TestRecommendationsEndpoint(t *testing.T) {
	t.Run("welcomes a brand-new user", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/recommendations?userId=fresh", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Recommendations []struct {
				Type string `json:"type"`
			} `json:"recommendations"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if len(response.Recommendations) != 1 {
			t.Fatalf("len(recommendations) = %d, want 1", len(response.Recommendations))
		}
		if response.Recommendations[0].Type != "welcome" {
			t.Errorf("type = %s, want welcome", response.Recommendations[0].Type)
		}
	})

	t.Run("requires userId", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/recommendations", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter(t)

		// Add a test route that panics
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		// Gin's default recovery returns 500
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestJSONResponses tests that all responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/api/v1/stats?userId=u1"},
		{"GET", "/api/v1/recommendations?userId=u1"},
		{"GET", "/api/v1/logs/today?userId=u1"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter(t)

			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
