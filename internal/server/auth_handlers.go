package server

import (
	"log/slog"

	"devconnector/internal/gravatar"
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and returns a signed token.
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.Name == "" {
		fields = append(fields, models.FieldError{Msg: "Name is required.", Param: "name"})
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		fields = append(fields, models.FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		fields = append(fields, models.FieldError{
			Msg:   "Please enter a valid password with 6 or more characters.",
			Param: "password",
		})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors(fields))
	}

	ctx := c.UserContext()

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("User already exist"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   gravatar.URL(req.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))

	return c.JSON(fiber.Map{"token": token})
}

// Login checks credentials and returns a signed token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}

	var fields []models.FieldError
	if err := validation.ValidateEmail(req.Email); err != nil {
		fields = append(fields, models.FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if req.Password == "" {
		fields = append(fields, models.FieldError{Msg: "Password is required.", Param: "password"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors(fields))
	}

	ctx := c.UserContext()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	// Same answer for unknown email and wrong password.
	if user == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid Credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid Credentials"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// GetAuthedUser returns the account behind the presented token, without the
// password hash.
func (s *Server) GetAuthedUser(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil {
		// Token outlived the account (account deletion keeps tokens valid).
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User not found"))
	}
	return c.JSON(user)
}
