package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/timetabling-lp/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const instancesDirectory = "../../test/instances/"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(rooms bool, maxBodyBytes int64) *gin.Engine {
	options := model.DefaultOptions()
	options.Naming = model.DescriptiveNaming
	return NewRouter(NewHandler(options, rooms, maxBodyBytes, zap.NewNop()))
}

func post(t *testing.T, router *gin.Engine, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func readInstance(t *testing.T, name string) string {
	bytes, err := os.ReadFile(instancesDirectory + name)
	require.NoError(t, err)
	return string(bytes)
}

func TestHealth(t *testing.T) {
	recorder := httptest.NewRecorder()
	newTestRouter(false, 1<<20).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestCompile(t *testing.T) {
	t.Run("Json instance", func(t *testing.T) {
		//** Arrange
		router := newTestRouter(false, 1<<20)

		//** Act
		recorder := post(t, router, "/compile?legend=true", readInstance(t, "week.json"))

		//** Assert
		require.Equal(t, http.StatusOK, recorder.Code)
		var response CompileResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Id)
		assert.Equal(t, response.Id, recorder.Header().Get("X-Request-ID"))
		assert.True(t, strings.HasPrefix(response.Model, "Minimize\n"))
		assert.Contains(t, response.Model, "coverage_Math:")
		assert.Contains(t, response.Legend, "Variables:\n")
		assert.Empty(t, response.Warnings)
		assert.Positive(t, response.Variables)
		assert.Positive(t, response.Rows)
	})

	t.Run("Xml instance with rooms", func(t *testing.T) {
		router := newTestRouter(false, 1<<20)

		recorder := post(t, router, "/compile?format=xml&rooms=true", readInstance(t, "monday.xml"))

		require.Equal(t, http.StatusOK, recorder.Code)
		var response CompileResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Contains(t, response.Model, "room_R1_T1:")
		assert.Empty(t, response.Legend)
		require.Len(t, response.Warnings, 1)
		assert.Contains(t, response.Warnings[0], "E2")
	})

	t.Run("Bad requests", func(t *testing.T) {
		router := newTestRouter(false, 1<<20)

		scenarios := map[string]struct {
			target string
			body   string
			status int
		}{
			"Unknown format":   {"/compile?format=yaml", "{}", http.StatusBadRequest},
			"Invalid rooms":    {"/compile?rooms=maybe", "{}", http.StatusBadRequest},
			"Malformed json":   {"/compile", "{", http.StatusBadRequest},
			"No valid events":  {"/compile", `{"events": []}`, http.StatusUnprocessableEntity},
			"No rooms to fill": {"/compile?rooms=true", strings.ReplaceAll(readInstance(t, "week.json"), `"Room"`, `"Other"`), http.StatusUnprocessableEntity},
		}

		for name, scenario := range scenarios {
			t.Run(name, func(t *testing.T) {
				recorder := post(t, router, scenario.target, scenario.body)

				assert.Equal(t, scenario.status, recorder.Code)
				var response ErrorResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
				assert.NotEmpty(t, response.Error)
			})
		}
	})

	t.Run("Caller request id", func(t *testing.T) {
		router := newTestRouter(false, 1<<20)
		request := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(readInstance(t, "week.json")))
		request.Header.Set("X-Request-ID", "run-42")
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response CompileResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "run-42", response.Id)
	})

	t.Run("Body too large", func(t *testing.T) {
		router := newTestRouter(false, 16)

		recorder := post(t, router, "/compile", readInstance(t, "week.json"))

		assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	})
}
