package server

import (
	"log/slog"

	"devconnector/internal/middleware"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostRequest carries the text of a new post or comment.
type PostRequest struct {
	Text string `json:"text"`
}

// CreatePost creates a post with the author's name and avatar snapshotted.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}
	if req.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors([]models.FieldError{
				{Msg: "Text is required.", Param: "text"},
			}))
	}

	ctx := c.UserContext()

	user, err := s.userRepo.GetByID(ctx, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User not found"))
	}

	post := &models.Post{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   req.Text,
		// Non-nil so a fresh post serializes with empty arrays.
		Likes:    []models.Like{},
		Comments: []models.Comment{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)), slog.Uint64("user_id", uint64(user.ID)))

	return c.JSON(post)
}

// GetPosts lists all posts, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(posts)
}

// getPost resolves the :id parameter to a post, treating malformed ids like
// absent posts.
func (s *Server) getPost(c *fiber.Ctx, param string) (*models.Post, error) {
	id, err := paramID(c, param)
	if err != nil {
		return nil, models.NewNotFoundError("Post not found.")
	}
	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found.")
	}
	return post, nil
}

func respondPostErr(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
		return models.RespondWithError(c, fiber.StatusNotFound, appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// GetPost returns a single post with likes and comments.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.getPost(c, "id")
	if err != nil {
		return respondPostErr(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post with its likes and comments. Any authenticated
// user may delete any post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	post, err := s.getPost(c, "id")
	if err != nil {
		return respondPostErr(c, err)
	}

	if err := s.postRepo.Delete(c.UserContext(), post.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted",
		slog.Uint64("post_id", uint64(post.ID)), slog.Uint64("user_id", uint64(currentUserID(c))))

	return c.JSON(fiber.Map{"msg": "Deleted post."})
}

// LikePost records a like and returns the post's like list. Liking twice
// fails.
func (s *Server) LikePost(c *fiber.Ctx) error {
	post, err := s.getPost(c, "id")
	if err != nil {
		return respondPostErr(c, err)
	}

	ctx := c.UserContext()
	userID := currentUserID(c)

	for _, like := range post.Likes {
		if like.UserID == userID {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post already liked."))
		}
	}

	if err := s.postRepo.AddLike(ctx, post.ID, userID); err != nil {
		return respondPostErr(c, err)
	}

	likes, err := s.postRepo.GetLikes(ctx, post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(likes)
}

// UnlikePost withdraws the caller's like and returns the remaining likes.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	post, err := s.getPost(c, "id")
	if err != nil {
		return respondPostErr(c, err)
	}

	ctx := c.UserContext()
	userID := currentUserID(c)

	var mine *models.Like
	for i := range post.Likes {
		if post.Likes[i].UserID == userID {
			mine = &post.Likes[i]
			break
		}
	}
	if mine == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post has not yet been liked."))
	}

	if err := s.postRepo.DeleteLike(ctx, mine.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	likes, err := s.postRepo.GetLikes(ctx, post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(likes)
}

// AddComment prepends a comment and returns the post's comment list.
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBusinessError("Invalid request body"))
	}
	if req.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationErrors([]models.FieldError{
				{Msg: "Text is required.", Param: "text"},
			}))
	}

	post, err := s.getPost(c, "id")
	if err != nil {
		return respondPostErr(c, err)
	}

	ctx := c.UserContext()

	user, err := s.userRepo.GetByID(ctx, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User not found"))
	}

	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   req.Text,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	comments, err := s.postRepo.GetComments(ctx, post.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(comments)
}

// DeleteComment removes the caller's own comment from a post.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	post, err := s.getPost(c, "id")
	if err != nil {
		return respondPostErr(c, err)
	}

	commentID, err := paramID(c, "comment_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment not existed."))
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Comment not existed."))
	}
	if comment.UserID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("User not authorized."))
	}

	if err := s.postRepo.DeleteComment(c.UserContext(), comment.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"msg": "Deleted post."})
}
