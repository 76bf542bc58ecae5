package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"technotes/internal/errors"
	"technotes/internal/model"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, username, password string, roles []string) (*model.User, error) {
	args := m.Called(ctx, username, password, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, username, password string, active bool, roles []string) (*model.User, error) {
	args := m.Called(ctx, id, username, password, active, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func setupUserEcho(svc *MockUserService) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	h := NewUserHandler(svc)
	e.GET("/users", h.ListUsers)
	e.POST("/users", h.CreateUser)
	e.PATCH("/users", h.UpdateUser)
	e.DELETE("/users", h.DeleteUser)
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("empty roles list is rejected", func(t *testing.T) {
		svc := new(MockUserService)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPost, "/users", `{"username":"alice","password":"pw123","roles":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing password is rejected", func(t *testing.T) {
		svc := new(MockUserService)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPost, "/users", `{"username":"alice","roles":["Employee"]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("successful creation", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("CreateUser", mock.Anything, "alice", "pw123", []string{"Employee"}).
			Return(&model.User{Username: "alice"}, nil)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPost, "/users", `{"username":"alice","password":"pw123","roles":["Employee"]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "User created successfully")
		svc.AssertExpectations(t)
	})

	t.Run("duplicate username yields conflict", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("CreateUser", mock.Anything, "alice", "pw456", []string{"Employee"}).
			Return(nil, errors.ErrUserExists)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPost, "/users", `{"username":"alice","password":"pw456","roles":["Employee"]}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "USER_ALREADY_EXISTS")
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Run("password hash never appears in responses", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListUsers", mock.Anything).Return([]model.User{
			{Username: "alice", PasswordHash: "$2a$10$abcdefghijklmnopqrstuv", Roles: model.Roles{"Employee"}, Active: true},
		}, nil)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice")
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "$2a$10$")
	})

	t.Run("empty collection yields empty array", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListUsers", mock.Anything).Return([]model.User{}, nil)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}

func TestUserHandler_UpdateUser(t *testing.T) {
	userID := uuid.New()

	t.Run("missing active flag is rejected", func(t *testing.T) {
		svc := new(MockUserService)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPatch, "/users",
			`{"id":"`+userID.String()+`","username":"alice","roles":["Employee"]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-boolean active is rejected", func(t *testing.T) {
		svc := new(MockUserService)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPatch, "/users",
			`{"id":"`+userID.String()+`","username":"alice","active":"yes","roles":["Employee"]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("successful update names the username", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateUser", mock.Anything, userID, "alice", "", false, []string{"Employee"}).
			Return(&model.User{ID: userID, Username: "alice"}, nil)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPatch, "/users",
			`{"id":"`+userID.String()+`","username":"alice","active":false,"roles":["Employee"]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "User alice has been updated")
		svc.AssertExpectations(t)
	})

	t.Run("unknown user yields not found", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateUser", mock.Anything, userID, "alice", "", true, []string{"Employee"}).
			Return(nil, errors.ErrUserNotFound)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodPatch, "/users",
			`{"id":"`+userID.String()+`","username":"alice","active":true,"roles":["Employee"]}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	userID := uuid.New()

	t.Run("missing id is rejected", func(t *testing.T) {
		svc := new(MockUserService)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodDelete, "/users", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blocked while notes reference the user", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("DeleteUser", mock.Anything, userID).Return(nil, errors.ErrUserHasNotes)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodDelete, "/users", `{"id":"`+userID.String()+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "user has assigned notes")
	})

	t.Run("successful deletion names the username", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("DeleteUser", mock.Anything, userID).Return(&model.User{ID: userID, Username: "alice"}, nil)
		e := setupUserEcho(svc)

		rec := doJSON(e, http.MethodDelete, "/users", `{"id":"`+userID.String()+`"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Username alice has been deleted")
	})
}
