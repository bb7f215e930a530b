package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pokegroups/pokegroups-api/app/logging"
	"github.com/pokegroups/pokegroups-api/app/middleware"
	"github.com/pokegroups/pokegroups-api/models"
)

// --- Mock Repository ---

type MockGroupRepo struct {
	Groups       map[string]models.TypeGroup
	Subscribed   map[string]bool
	FindErr      error
	ListErr      error
	SubscribeErr error
	DeleteErr    error

	LastLookup  string
	LastUserID  uint
	Deleted     *models.UserType
	SubscribeOn *models.TypeGroup
}

func (m *MockGroupRepo) GetAll(ctx context.Context) ([]models.TypeGroup, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	all := make([]models.TypeGroup, 0, len(m.Groups))
	for _, g := range m.Groups {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (m *MockGroupRepo) FindByName(ctx context.Context, name string) (*models.TypeGroup, error) {
	m.LastLookup = name
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	g, ok := m.Groups[name]
	if !ok {
		return nil, models.ErrTypeGroupNotFound
	}
	return &g, nil
}

func (m *MockGroupRepo) Subscribe(ctx context.Context, user *models.User, group *models.TypeGroup) (*models.UserType, bool, error) {
	m.SubscribeOn = group
	if m.SubscribeErr != nil {
		return nil, false, m.SubscribeErr
	}
	existed := m.Subscribed[group.Name]
	return &models.UserType{User: *user, TypeGroup: *group}, !existed, nil
}

func (m *MockGroupRepo) FindForUser(ctx context.Context, userID uint, typeName string) (*models.UserType, error) {
	m.LastLookup = typeName
	m.LastUserID = userID
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if !m.Subscribed[typeName] {
		return nil, models.ErrUserTypeNotFound
	}
	return &models.UserType{ID: 9, UserID: userID, TypeGroup: m.Groups[typeName]}, nil
}

func (m *MockGroupRepo) Delete(ctx context.Context, ut *models.UserType) error {
	m.Deleted = ut
	return m.DeleteErr
}

var ash = &models.User{ID: 1, Username: "ash"}

func newRequest(method, target, typeName string, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.SetPathValue("type_name", typeName)
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	return req
}

func defaultRepo() *MockGroupRepo {
	return &MockGroupRepo{
		Groups: map[string]models.TypeGroup{
			"fire":  {ID: 1, Name: "fire"},
			"water": {ID: 2, Name: "water"},
		},
		Subscribed: map[string]bool{"water": true},
	}
}

// --- Tests: POST /api/group/{type_name}/add/ ---

func TestHandleAdd(t *testing.T) {
	testCases := []struct {
		name               string
		typeName           string
		user               *models.User
		mockRepoSetup      func() *MockGroupRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockGroupRepo)
	}{
		{
			name:               "New subscription",
			typeName:           "fire",
			user:               ash,
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"user":{"username":"ash"},"type_group":{"name":"fire"}}`, rec.Body.String())
			},
			checkRepoCall: func(t *testing.T, repo *MockGroupRepo) {
				assert.Equal(t, "fire", repo.SubscribeOn.Name)
			},
		},
		{
			name:               "Existing subscription",
			typeName:           "water",
			user:               ash,
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusNotModified,
		},
		{
			name:               "Name is lowercased",
			typeName:           "FiRe",
			user:               ash,
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockGroupRepo) {
				assert.Equal(t, "fire", repo.LastLookup)
			},
		},
		{
			name:               "Unknown type",
			typeName:           "shadow",
			user:               ash,
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Type 'shadow' invalid", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockGroupRepo) {
				assert.Nil(t, repo.SubscribeOn)
			},
		},
		{
			name:     "Repository error",
			typeName: "fire",
			user:     ash,
			mockRepoSetup: func() *MockGroupRepo {
				repo := defaultRepo()
				repo.SubscribeErr = errors.New("db down")
				return repo
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "failed to add type group", errResp["error"])
			},
		},
		{
			name:               "No user in context",
			typeName:           "fire",
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewGroupHandler(mockRepo, mockRepo, logging.Discard())
			req := newRequest(http.MethodPost, "/api/group/"+tc.typeName+"/add/", tc.typeName, tc.user)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleAdd(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: DELETE /api/group/{type_name}/remove/ ---

func TestHandleRemove(t *testing.T) {
	testCases := []struct {
		name               string
		typeName           string
		mockRepoSetup      func() *MockGroupRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockGroupRepo)
	}{
		{
			name:               "Success",
			typeName:           "Water",
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"removed":"water"}`, rec.Body.String())
			},
			checkRepoCall: func(t *testing.T, repo *MockGroupRepo) {
				assert.Equal(t, "water", repo.LastLookup)
				assert.Equal(t, ash.ID, repo.LastUserID)
				assert.NotNil(t, repo.Deleted)
			},
		},
		{
			name:               "Not subscribed",
			typeName:           "fire",
			mockRepoSetup:      defaultRepo,
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Not found.", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockGroupRepo) {
				assert.Nil(t, repo.Deleted)
			},
		},
		{
			name:     "Deleted concurrently",
			typeName: "water",
			mockRepoSetup: func() *MockGroupRepo {
				repo := defaultRepo()
				repo.DeleteErr = models.ErrUserTypeNotFound
				return repo
			},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:     "Repository error",
			typeName: "water",
			mockRepoSetup: func() *MockGroupRepo {
				repo := defaultRepo()
				repo.FindErr = errors.New("db down")
				return repo
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewGroupHandler(mockRepo, mockRepo, logging.Discard())
			req := newRequest(http.MethodDelete, "/api/group/"+tc.typeName+"/remove/", tc.typeName, ash)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleRemove(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleList(t *testing.T) {
	testCases := []struct {
		name               string
		repo               *MockGroupRepo
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name: "Ordered by name",
			repo: &MockGroupRepo{Groups: map[string]models.TypeGroup{
				"water": {ID: 2, Name: "water"},
				"fire":  {ID: 1, Name: "fire"},
			}},
			expectedStatusCode: http.StatusOK,
			expectedBody:       `[{"name":"fire"},{"name":"water"}]`,
		},
		{
			name:               "No type groups synced yet",
			repo:               &MockGroupRepo{},
			expectedStatusCode: http.StatusOK,
			expectedBody:       `[]`,
		},
		{
			name:               "Repository failure",
			repo:               &MockGroupRepo{ListErr: errors.New("connection reset")},
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody:       `{"error":"failed to list type groups"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler := NewGroupHandler(tc.repo, tc.repo, logging.Discard())
			req := httptest.NewRequest(http.MethodGet, "/api/group/", nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleList(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}
