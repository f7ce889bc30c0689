package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"devconnector/internal/cache"
	"devconnector/internal/github"
	"devconnector/internal/middleware"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ExperienceRequest is the payload for adding a work history entry.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationRequest is the payload for adding a schooling entry.
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// GetMyProfile returns the authenticated user's profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileRepo.GetByUserID(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewNotFoundError("There is no profile for this user."))
	}
	return c.JSON(profile)
}

// UpsertProfile creates the caller's profile or merges non-empty fields into
// the existing one.
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req models.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.Status == "" {
		fields = append(fields, models.FieldError{Msg: "Status is required.", Param: "status"})
	}
	if req.Skills == "" {
		fields = append(fields, models.FieldError{Msg: "Skills is required.", Param: "skills"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors(fields))
	}

	ctx := c.UserContext()
	userID := currentUserID(c)

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	created := profile == nil
	if created {
		profile = &models.Profile{UserID: userID}
	}

	req.Apply(profile)

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Reload so the response carries user, experience and education.
	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil || profile == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "profile saved",
		slog.Uint64("user_id", uint64(userID)), slog.Bool("created", created))

	return c.JSON(profile)
}

// GetProfiles lists every profile with its owner. The list is cached.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var profiles []*models.Profile
	err := cache.Aside(ctx, cache.ProfileListKey, &profiles, cache.ProfileListTTL, func() error {
		var err error
		profiles, err = s.profileRepo.List(ctx)
		return err
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	return c.JSON(profiles)
}

// GetProfileByUser returns the profile of an arbitrary user. A malformed id
// and an absent profile answer identically so ids cannot be probed. This
// endpoint answers misses with a bare JSON string, not the usual envelope.
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON("Profile not found.")
	}

	profile, err := s.profileRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profile == nil {
		return c.Status(fiber.StatusBadRequest).JSON("Profile not found.")
	}
	return c.JSON(profile)
}

// DeleteAccount removes the caller's profile and account. Posts and comments
// stay behind with their author snapshots.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "account deleted", slog.Uint64("user_id", uint64(userID)))

	return c.JSON(fiber.Map{"msg": "User deleted."})
}

// AddExperience prepends a work history entry and returns the updated profile.
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req ExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.Title == "" {
		fields = append(fields, models.FieldError{Msg: "Title is required.", Param: "title"})
	}
	if req.Company == "" {
		fields = append(fields, models.FieldError{Msg: "Company is required.", Param: "company"})
	}
	from, err := parseDate(req.From)
	if req.From == "" || err != nil {
		fields = append(fields, models.FieldError{Msg: "The time is required.", Param: "from"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors(fields))
	}

	exp := &models.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		Current:     req.Current,
		Description: req.Description,
	}
	if req.To != "" {
		if to, err := parseDate(req.To); err == nil {
			exp.To = &to
		}
	}

	return s.addProfileEntry(c, func(profileID uint) error {
		return s.profileRepo.AddExperience(c.UserContext(), profileID, exp)
	})
}

// DeleteExperience removes one work history entry. Unknown ids are a no-op.
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	return s.deleteProfileEntry(c, "exp_id", s.profileRepo.DeleteExperience)
}

// AddEducation prepends a schooling entry and returns the updated profile.
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req EducationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.School == "" {
		fields = append(fields, models.FieldError{Msg: "School is required.", Param: "school"})
	}
	if req.Degree == "" {
		fields = append(fields, models.FieldError{Msg: "Degree is required.", Param: "degree"})
	}
	if req.FieldOfStudy == "" {
		fields = append(fields, models.FieldError{Msg: "Field of study is required.", Param: "fieldofstudy"})
	}
	from, err := parseDate(req.From)
	if req.From == "" || err != nil {
		fields = append(fields, models.FieldError{Msg: "The time is required.", Param: "from"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors(fields))
	}

	edu := &models.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		Current:      req.Current,
		Description:  req.Description,
	}
	if req.To != "" {
		if to, err := parseDate(req.To); err == nil {
			edu.To = &to
		}
	}

	return s.addProfileEntry(c, func(profileID uint) error {
		return s.profileRepo.AddEducation(c.UserContext(), profileID, edu)
	})
}

// DeleteEducation removes one schooling entry. Unknown ids are a no-op.
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	return s.deleteProfileEntry(c, "edu_id", s.profileRepo.DeleteEducation)
}

// addProfileEntry loads the caller's profile, runs the insert and answers
// with the refreshed profile.
func (s *Server) addProfileEntry(c *fiber.Ctx, insert func(profileID uint) error) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewNotFoundError("There is no profile for this user."))
	}

	if err := insert(profile.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil || profile == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(profile)
}

func (s *Server) deleteProfileEntry(c *fiber.Ctx, param string, remove func(ctx context.Context, profileID, entryID uint) error) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewNotFoundError("There is no profile for this user."))
	}

	// A malformed or unknown entry id deletes nothing and still returns the
	// profile, matching the add endpoints' response shape.
	if entryID, perr := paramID(c, param); perr == nil {
		if err := remove(ctx, profile.ID, entryID); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil || profile == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(profile)
}

// GetGithubRepos forwards a user's five most recently created public GitHub
// repositories. Responses are cached to stay under GitHub rate limits.
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")

	var repos json.RawMessage
	err := cache.Aside(ctx, cache.GithubReposKey(username), &repos, cache.GithubReposTTL, func() error {
		var err error
		repos, err = s.github.Repos(ctx, username)
		return err
	})
	if err != nil {
		if !errors.Is(err, github.ErrNoProfile) {
			middleware.Logger.WarnContext(ctx, "github lookup failed",
				slog.String("username", username), slog.String("error", err.Error()))
		}
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("No Github profile found"))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(repos)
}
