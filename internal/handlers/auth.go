package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"stepper-backend/internal/models"
	"stepper-backend/internal/repository"
	"stepper-backend/internal/token"

	"github.com/resend/resend-go/v2"
)

type AuthHandler struct {
	users    UserStore
	profiles ProfileStore
	tokens   *token.Service
}

func NewAuthHandler(users UserStore, profiles ProfileStore, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
	}
}

// --- Request / Response types ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type profileStatus struct {
	CurrentStep      int  `json:"currentStep"`
	IsProfileCreated bool `json:"isProfileCreated"`
}

type authResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    userPayload   `json:"user"`
	Profile profileStatus `json:"profile"`
}

// --- POST /auth/signup ---

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	user := &models.User{Email: req.Email}
	if err := user.SetPassword(req.Password); err != nil {
		log.Printf("Error hashing password: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "user already exists"})
			return
		}
		log.Printf("Error creating user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Every account starts with an empty profile sitting at step 1.
	profile := &models.Profile{
		UserID:           user.ID,
		IsProfileCreated: false,
		CurrentStep:      1,
	}
	if err := h.profiles.Create(r.Context(), profile); err != nil {
		log.Printf("Error creating initial profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	tokenString, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("Error signing token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Best-effort: signup must not fail because email delivery did.
	go sendWelcomeEmail(user.Email)

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   tokenString,
		User:    userPayload{ID: user.ID.Hex(), Email: user.Email},
		Profile: profileStatus{
			CurrentStep:      profile.CurrentStep,
			IsProfileCreated: profile.IsProfileCreated,
		},
	})
}

// --- POST /auth/signin ---

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Same message whether the email is unknown or the password is wrong, so
	// responses cannot be used to probe which emails are registered.
	if user == nil || !user.CheckPassword(req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	status := profileStatus{CurrentStep: 1, IsProfileCreated: false}
	profile, err := h.profiles.FindByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error finding profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if profile != nil {
		status = profileStatus{
			CurrentStep:      profile.CurrentStep,
			IsProfileCreated: profile.IsProfileCreated,
		}
	}

	tokenString, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("Error signing token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Signin successful",
		Token:   tokenString,
		User:    userPayload{ID: user.ID.Hex(), Email: user.Email},
		Profile: status,
	})
}

// --- Helpers ---

func sendWelcomeEmail(to string) {
	apiKey := os.Getenv("RESEND_API_KEY")
	fromEmail := os.Getenv("FROM_EMAIL")

	if apiKey == "" {
		log.Printf("⚠️  RESEND_API_KEY not set, skipping welcome email for %s", to)
		return
	}

	client := resend.NewClient(apiKey)

	params := &resend.SendEmailRequest{
		From:    fromEmail,
		To:      []string{to},
		Subject: "Welcome to Stepper",
		Html: `
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Welcome aboard! 🎉</h2>
				<p>Your account has been created. Finish setting up your profile to unlock the rest of the app:</p>
				<ol style="color: #555;">
					<li>Basic info</li>
					<li>Contact &amp; location</li>
					<li>Preferences</li>
				</ol>
				<p style="color: #aaa; font-size: 12px;">
					If you didn't create this account, you can safely ignore this email.
				</p>
			</div>
		`,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		log.Printf("Error sending welcome email: %v", err)
		return
	}
	log.Printf("📧 Welcome email sent to %s (ID: %s)", to, sent.Id)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
