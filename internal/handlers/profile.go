package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"stepper-backend/internal/middleware"
	"stepper-backend/internal/slack"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const dateLayout = "2006-01-02"

type ProfileHandler struct {
	profiles ProfileStore
	notifier slack.Notifier
}

func NewProfileHandler(profiles ProfileStore, notifier slack.Notifier) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		notifier: notifier,
	}
}

type stepResult struct {
	Message string        `json:"message"`
	Profile profileStatus `json:"profile"`
}

// requestUserID pulls the verified account id out of the request context. Any
// problem maps to the same 401 the auth middleware uses.
func requestUserID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return bson.ObjectID{}, false
	}

	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return bson.ObjectID{}, false
	}
	return userID, true
}

// --- GET /profile/status ---

func (h *ProfileHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// No profile document yet is a normal state, not an error.
	if profile == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"isProfileCreated": false,
			"currentStep":      1,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isProfileCreated": profile.IsProfileCreated,
		"currentStep":      profile.CurrentStep,
		"profile": map[string]interface{}{
			"firstName":      profile.FirstName,
			"lastName":       profile.LastName,
			"dateOfBirth":    formatDate(profile.DateOfBirth),
			"phone":          profile.Phone,
			"address":        profile.Address,
			"city":           profile.City,
			"country":        profile.Country,
			"bio":            profile.Bio,
			"interests":      interestsOrEmpty(profile.Interests),
			"profilePicture": profile.ProfilePicture,
		},
	})
}

// --- POST /profile/step1 ---

type step1Request struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

func (h *ProfileHandler) SubmitStep1(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req step1Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.DateOfBirth == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "all step 1 fields are required"})
		return
	}

	dateOfBirth, err := parseDate(req.DateOfBirth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dateOfBirth must be a valid date"})
		return
	}

	profile, err := h.profiles.UpsertStep1(r.Context(), userID, req.FirstName, req.LastName, dateOfBirth)
	if err != nil {
		log.Printf("Error upserting step 1: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, stepResult{
		Message: "Step 1 completed successfully",
		Profile: profileStatus{
			CurrentStep:      profile.CurrentStep,
			IsProfileCreated: profile.IsProfileCreated,
		},
	})
}

// --- GET /profile/step1 ---

func (h *ProfileHandler) GetStep1(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	data := map[string]string{
		"firstName":   "",
		"lastName":    "",
		"dateOfBirth": "",
	}
	if profile != nil {
		data["firstName"] = profile.FirstName
		data["lastName"] = profile.LastName
		data["dateOfBirth"] = formatDate(profile.DateOfBirth)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// --- POST /profile/step2 ---

type step2Request struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (h *ProfileHandler) SubmitStep2(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req step2Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Phone == "" || req.Address == "" || req.City == "" || req.Country == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "all step 2 fields are required"})
		return
	}

	profile, err := h.profiles.UpdateStep2(r.Context(), userID, req.Phone, req.Address, req.City, req.Country)
	if err != nil {
		log.Printf("Error updating step 2: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	writeJSON(w, http.StatusOK, stepResult{
		Message: "Step 2 completed successfully",
		Profile: profileStatus{
			CurrentStep:      profile.CurrentStep,
			IsProfileCreated: profile.IsProfileCreated,
		},
	})
}

// --- GET /profile/step2 ---

func (h *ProfileHandler) GetStep2(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	data := map[string]string{
		"phone":   "",
		"address": "",
		"city":    "",
		"country": "",
	}
	if profile != nil {
		data["phone"] = profile.Phone
		data["address"] = profile.Address
		data["city"] = profile.City
		data["country"] = profile.Country
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// --- POST /profile/step3 ---

type step3Request struct {
	Bio            string   `json:"bio"`
	Interests      []string `json:"interests"`
	ProfilePicture string   `json:"profilePicture"`
}

func (h *ProfileHandler) SubmitStep3(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req step3Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Bio == "" || len(req.Interests) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bio and at least one interest are required"})
		return
	}

	profile, err := h.profiles.UpdateStep3(r.Context(), userID, req.Bio, req.Interests, req.ProfilePicture)
	if err != nil {
		log.Printf("Error updating step 3: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	// Fire the completion notification in a background goroutine (non-blocking)
	go func() {
		message := "🎉 *Profile completed*\nUser: `" + userID.Hex() + "`"
		if err := h.notifier.Publish(context.Background(), message); err != nil {
			log.Printf("Error publishing notification: %v", err)
		}
	}()

	writeJSON(w, http.StatusOK, stepResult{
		Message: "Profile creation completed successfully",
		Profile: profileStatus{
			CurrentStep:      profile.CurrentStep,
			IsProfileCreated: profile.IsProfileCreated,
		},
	})
}

// --- GET /profile/step3 ---

func (h *ProfileHandler) GetStep3(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	data := map[string]interface{}{
		"bio":            "",
		"interests":      []string{},
		"profilePicture": "",
	}
	if profile != nil {
		data["bio"] = profile.Bio
		data["interests"] = interestsOrEmpty(profile.Interests)
		data["profilePicture"] = profile.ProfilePicture
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// --- Helpers ---

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// interestsOrEmpty keeps the JSON rendering of an unset list as [] instead of null.
func interestsOrEmpty(interests []string) []string {
	if interests == nil {
		return []string{}
	}
	return interests
}
