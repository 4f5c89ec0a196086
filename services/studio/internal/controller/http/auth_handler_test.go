package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"face-animation/pkg/logger"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	return nil
}

func TestLogin_SetsCookieAndRedirect(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase, testCookie, logger.New())

	router := setupTestRouter()
	router.POST("/api/login", handler.Login)

	mockUseCase.On("Login", "sub@test.com", "sub123").
		Return(&entity.User{ID: "u1", Role: entity.RoleSubscriber}, "signed-token", nil)

	body, _ := json.Marshal(map[string]string{"email": "sub@test.com", "password": "sub123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Login successful", response["message"])
	assert.Equal(t, "subscriber", response["role"])
	assert.Equal(t, "subscriber.html", response["redirect"])

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	mockUseCase.AssertExpectations(t)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"missing fields", usecase.ErrCredentialsRequired, http.StatusBadRequest},
		{"suspended", usecase.ErrAccountSuspended, http.StatusForbidden},
		{"database", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockAuthUseCase)
			handler := NewAuthHandler(mockUseCase, testCookie, logger.New())
			router := setupTestRouter()
			router.POST("/api/login", handler.Login)
			mockUseCase.On("Login", "user@test.com", "x").Return(nil, "", tt.err)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/login", bytes.NewBufferString(`{"email":"user@test.com","password":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			response := decode(t, w)
			assert.Equal(t, false, response["success"])
			assert.NotEmpty(t, response["message"])
			assert.NotContains(t, response["message"], "connection reset")
			assert.Nil(t, sessionCookie(w))
		})
	}
}

func TestSignup(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase, testCookie, logger.New())
	router := setupTestRouter()
	router.POST("/api/signup", handler.Signup)

	mockUseCase.On("Signup", "Jane", "jane@test.com", "secret").Return(&entity.User{ID: "u9"}, nil)
	mockUseCase.On("Signup", "Jane", "dup@test.com", "secret").Return(nil, usecase.ErrEmailExists)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/signup", bytes.NewBufferString(`{"fullname":"Jane","email":"jane@test.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Account created successfully", decode(t, w)["message"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/signup", bytes.NewBufferString(`{"fullname":"Jane","email":"dup@test.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", decode(t, w)["message"])
}

func TestLogout_ClearsCookie(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase, testCookie, logger.New())
	router := setupTestRouter()
	router.POST("/api/logout", asUser("u1", "user", handler.Logout))
	mockUseCase.On("Logout", mock.Anything).Return(errors.New("redis down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/logout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	handler := NewAuthHandler(mockUseCase, testCookie, logger.New())
	router := setupTestRouter()
	router.GET("/api/profile", asUser("u1", "user", handler.GetProfile))
	router.PUT("/api/profile", asUser("u1", "user", handler.UpdateProfile))

	mockUseCase.On("GetProfile", "u1").Return(&entity.User{
		ID: "u1", Fullname: "Test User", Email: "user@test.com", Role: entity.RoleUser, SubscriptionStatus: entity.SubscriptionNone,
	}, nil)
	mockUseCase.On("UpdateProfile", "u1", "Renamed", "").Return(&entity.User{ID: "u1", Fullname: "Renamed"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/profile", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Test User", user["fullname"])
	assert.Equal(t, "none", user["subscription_status"])
	assert.NotContains(t, user, "password")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/api/profile", bytes.NewBufferString(`{"fullname":"Renamed","email":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile updated", decode(t, w)["message"])
	mockUseCase.AssertExpectations(t)
}
