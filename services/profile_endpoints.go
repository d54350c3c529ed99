package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepview-ai/backend/models"
	"github.com/prepview-ai/backend/repository"
)

// ProfileEndpoints manages the caller's interview preference profile.
type ProfileEndpoints struct {
	repo *repository.GORMRepository
}

func NewProfileEndpoints(repo *repository.GORMRepository) *ProfileEndpoints {
	return &ProfileEndpoints{repo: repo}
}

type UpsertProfileRequest struct {
	Name                   string                `json:"name"`
	Email                  string                `json:"email,omitempty"`
	TargetPositions        []string              `json:"target_positions,omitempty"`
	ExperienceLevel        string                `json:"experience_level,omitempty"`
	PreferredQuestionTypes []models.QuestionType `json:"preferred_question_types,omitempty"`
}

func (e *ProfileEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", e.GetProfileHandler)
		r.Put("/", e.UpsertProfileHandler)
	})
}

func (e *ProfileEndpoints) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	profile, err := e.repo.GetProfileByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile": profile,
	})
}

func (e *ProfileEndpoints) UpsertProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for _, qt := range req.PreferredQuestionTypes {
		if !qt.Valid() {
			http.Error(w, "Unknown question type: "+string(qt), http.StatusBadRequest)
			return
		}
	}

	profile, err := e.repo.GetProfileByUserID(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	created := false
	if profile == nil {
		profile, err = models.NewUserProfile(req.Name, req.Email)
		if err != nil {
			writeInterviewError(w, err)
			return
		}
		profile.UserID = user.ID
		created = true
	} else if req.Name != "" {
		profile.Name = req.Name
	}

	if req.Email != "" {
		profile.Email = req.Email
	}
	if req.TargetPositions != nil {
		profile.TargetPositions = req.TargetPositions
	}
	if req.ExperienceLevel != "" {
		profile.ExperienceLevel = req.ExperienceLevel
	}
	if req.PreferredQuestionTypes != nil {
		profile.PreferredQuestionTypes = req.PreferredQuestionTypes
	}

	if created {
		err = e.repo.CreateProfile(r.Context(), profile)
	} else {
		err = e.repo.UpdateProfile(r.Context(), profile)
	}
	if err != nil {
		slog.Error("Failed to save profile", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if created {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile": profile,
	})
}
