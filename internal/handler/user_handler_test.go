package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-api/internal/model"
	"finance-api/internal/service"
	"finance-api/pkg/apierror"
)

type stubUserService struct {
	fields model.UpdateUserRequest
}

func (s *stubUserService) Register(_ context.Context, in service.RegisterInput) (service.LoginResult, error) {
	if in.Email == "taken@x.com" {
		return service.LoginResult{}, apierror.Conflict("User already exists")
	}
	return service.LoginResult{User: model.User{ID: "u1", Name: in.Name, Email: in.Email}, Token: "tok"}, nil
}

func (s *stubUserService) Get(_ context.Context, id string) (model.User, error) {
	if id != "u1" {
		return model.User{}, apierror.NotFound("User not found")
	}
	return model.User{ID: id, Name: "Ann"}, nil
}

func (s *stubUserService) List(context.Context) ([]model.User, error) {
	return nil, apierror.NotFound("No users found")
}

func (s *stubUserService) Update(_ context.Context, id string, fields model.UpdateUserRequest) (model.User, error) {
	s.fields = fields
	if _, ok := fields["password"]; ok {
		return model.User{}, apierror.Validation("", "Password cannot be updated via this route")
	}
	return model.User{ID: id, Name: "Annie"}, nil
}

func (s *stubUserService) Delete(_ context.Context, id string) (model.User, error) {
	return model.User{ID: id}, nil
}

func (s *stubUserService) ListByPeriod(_ context.Context, filter string) ([]model.User, error) {
	if filter != "week" {
		return nil, apierror.Validation("INVALID_FILTER", "Invalid filter parameter")
	}
	return []model.User{{ID: "u1"}}, nil
}

func TestUserHandler(t *testing.T) {
	svc := &stubUserService{}
	h := NewUserHandler(svc)
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Get("/profile/{id}", h.Profile)
	r.Get("/list", h.List)
	r.Patch("/update/{id}", h.Update)
	r.Delete("/delete/{id}", h.Delete)
	r.Get("/filter-by-period", h.FilterByPeriod)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := serve(http.MethodPost, "/register", `{"name":"Ann","email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "tok", decodeBody(t, rec)["token"])

	rec = serve(http.MethodPost, "/register", `{"name":"Ann","email":"taken@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decodeBody(t, rec)["message"])

	rec = serve(http.MethodGet, "/profile/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann", decodeBody(t, rec)["user"].(map[string]any)["name"])

	rec = serve(http.MethodGet, "/profile/u9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(http.MethodGet, "/list", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No users found", decodeBody(t, rec)["message"])

	rec = serve(http.MethodPatch, "/update/u1", `{"name":"Annie","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, svc.fields, "password")

	rec = serve(http.MethodPatch, "/update/u1", `{"name":"Annie"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", decodeBody(t, rec)["message"])

	rec = serve(http.MethodDelete, "/delete/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodGet, "/filter-by-period?filter=week", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Users created since week retrieved", decodeBody(t, rec)["message"])

	rec = serve(http.MethodGet, "/filter-by-period?filter=decade", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
