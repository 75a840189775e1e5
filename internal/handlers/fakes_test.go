package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	customMiddleware "stepper-backend/internal/middleware"
	"stepper-backend/internal/models"
	"stepper-backend/internal/repository"
	"stepper-backend/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// memUserStore is an in-memory UserStore with the same contract as
// repository.UserRepo: unique emails, nil on miss.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*models.User{}}
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	stored := *user
	s.users[user.Email] = &stored
	return nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

// memProfileStore mirrors repository.ProfileRepo semantics: step 1 upserts,
// steps 2 and 3 update only, misses come back as nil, nil.
type memProfileStore struct {
	mu       sync.Mutex
	profiles map[bson.ObjectID]*models.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: map[bson.ObjectID]*models.Profile{}}
}

func (s *memProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.ID = bson.NewObjectID()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	stored := *profile
	s.profiles[profile.UserID] = &stored
	return nil
}

func (s *memProfileStore) FindByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	found := *profile
	return &found, nil
}

func (s *memProfileStore) UpsertStep1(ctx context.Context, userID bson.ObjectID, firstName, lastName string, dateOfBirth time.Time) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		profile = &models.Profile{
			ID:        bson.NewObjectID(),
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		s.profiles[userID] = profile
	}
	profile.FirstName = firstName
	profile.LastName = lastName
	profile.DateOfBirth = dateOfBirth
	profile.CurrentStep = 2
	profile.UpdatedAt = time.Now()
	updated := *profile
	return &updated, nil
}

func (s *memProfileStore) UpdateStep2(ctx context.Context, userID bson.ObjectID, phone, address, city, country string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	profile.Phone = phone
	profile.Address = address
	profile.City = city
	profile.Country = country
	profile.CurrentStep = 3
	profile.UpdatedAt = time.Now()
	updated := *profile
	return &updated, nil
}

func (s *memProfileStore) UpdateStep3(ctx context.Context, userID bson.ObjectID, bio string, interests []string, profilePicture string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	profile.Bio = bio
	profile.Interests = interests
	profile.ProfilePicture = profilePicture
	profile.IsProfileCreated = true
	profile.CurrentStep = 3
	profile.UpdatedAt = time.Now()
	updated := *profile
	return &updated, nil
}

// recordingNotifier captures published messages for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Publish(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// testEnv wires the handlers onto a router the same way cmd/server does.
type testEnv struct {
	router   http.Handler
	tokens   *token.Service
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens := token.NewService("test-secret", time.Hour)
	notifier := &recordingNotifier{}

	users := newMemUserStore()
	profiles := newMemProfileStore()
	authHandler := NewAuthHandler(users, profiles, tokens)
	profileHandler := NewProfileHandler(profiles, notifier)

	r := chi.NewRouter()
	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/signin", authHandler.Signin)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(tokens))

		r.Get("/profile/status", profileHandler.GetStatus)
		r.Post("/profile/step1", profileHandler.SubmitStep1)
		r.Get("/profile/step1", profileHandler.GetStep1)
		r.Post("/profile/step2", profileHandler.SubmitStep2)
		r.Get("/profile/step2", profileHandler.GetStep2)
		r.Post("/profile/step3", profileHandler.SubmitStep3)
		r.Get("/profile/step3", profileHandler.GetStep3)
	})

	return &testEnv{router: r, tokens: tokens, notifier: notifier}
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signup registers an account and returns its bearer token and user id hex.
func (e *testEnv) signup(t *testing.T, email, password string) (string, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
