package server

import (
	"fmt"
	"net/http"
	"testing"

	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T, app *fiber.App, token, text string) uint {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/posts/", token, map[string]string{"text": text})
	require.Equal(t, http.StatusOK, status)
	id, ok := body["id"].(float64)
	require.True(t, ok, "post id missing in %v", body)
	return uint(id)
}

func TestCreatePost(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "Author", "author@example.com", "secret123")
	token := authToken(t, s, user.ID)

	t.Run("snapshots author", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts/", token,
			map[string]string{"text": "hello world"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "hello world", body["text"])
		assert.Equal(t, "Author", body["name"])
		assert.Equal(t, user.Avatar, body["avatar"])
		assert.Equal(t, float64(user.ID), body["user"])
		assert.NotNil(t, body["likes"])
		assert.NotNil(t, body["comments"])
	})

	t.Run("empty text", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts/", token,
			map[string]string{"text": ""})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Text is required.", firstErrorMsg(t, body))
	})
}

func TestGetPosts(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "Author", "author@example.com", "secret123")
	token := authToken(t, s, user.ID)

	first := createTestPost(t, app, token, "first")
	second := createTestPost(t, app, token, "second")

	status, posts := doJSONList(t, app, http.MethodGet, "/api/posts/", token, nil)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, posts, 2)

	// Newest first.
	assert.Equal(t, float64(second), posts[0].(map[string]any)["id"])
	assert.Equal(t, float64(first), posts[1].(map[string]any)["id"])
}

func TestGetPostNotFound(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "Author", "author@example.com", "secret123")
	token := authToken(t, s, user.ID)

	for _, path := range []string{"/api/posts/999", "/api/posts/abc"} {
		status, body := doJSON(t, app, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Post not found.", body["msg"])
	}
}

func TestDeletePostWithoutOwnership(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createTestUser(t, db, "Owner", "owner@example.com", "secret123")
	other := createTestUser(t, db, "Other", "other@example.com", "secret123")

	postID := createTestPost(t, app, authToken(t, s, owner.ID), "mine")

	// Any authenticated user can delete any post.
	status, body := doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/posts/%d", postID), authToken(t, s, other.ID), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Deleted post.", body["msg"])

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestLikeUnlike(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "Liker", "liker@example.com", "secret123")
	token := authToken(t, s, user.ID)
	postID := createTestPost(t, app, token, "likeable")
	likePath := fmt.Sprintf("/api/posts/like/%d", postID)
	unlikePath := fmt.Sprintf("/api/posts/unlike/%d", postID)

	t.Run("like returns like list", func(t *testing.T) {
		status, likes := doJSONList(t, app, http.MethodPut, likePath, token, nil)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, likes, 1)
		assert.Equal(t, float64(user.ID), likes[0].(map[string]any)["user"])
	})

	t.Run("second like fails", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, likePath, token, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Post already liked.", body["msg"])
	})

	t.Run("unlike empties the list", func(t *testing.T) {
		status, likes := doJSONList(t, app, http.MethodPut, unlikePath, token, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, likes, 0)
	})

	t.Run("unlike without like fails", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, unlikePath, token, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Post has not yet been liked.", body["msg"])
	})

	t.Run("like on missing post", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, "/api/posts/like/999", token, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Post not found.", body["msg"])
	})
}

func TestComments(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "Author", "author@example.com", "secret123")
	commenter := createTestUser(t, db, "Commenter", "commenter@example.com", "secret123")
	authorToken := authToken(t, s, author.ID)
	commenterToken := authToken(t, s, commenter.ID)

	postID := createTestPost(t, app, authorToken, "discuss")
	commentPath := fmt.Sprintf("/api/posts/comments/%d", postID)

	var commentID uint

	t.Run("add comment", func(t *testing.T) {
		status, comments := doJSONList(t, app, http.MethodPost, commentPath, commenterToken,
			map[string]string{"text": "nice post"})
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, comments, 1)
		entry := comments[0].(map[string]any)
		assert.Equal(t, "nice post", entry["text"])
		assert.Equal(t, "Commenter", entry["name"])
		commentID = uint(entry["id"].(float64))
	})

	t.Run("newest comment first", func(t *testing.T) {
		status, comments := doJSONList(t, app, http.MethodPost, commentPath, commenterToken,
			map[string]string{"text": "second thought"})
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, comments, 2)
		assert.Equal(t, "second thought", comments[0].(map[string]any)["text"])
	})

	t.Run("empty text", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, commentPath, commenterToken,
			map[string]string{"text": ""})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Text is required.", firstErrorMsg(t, body))
	})

	t.Run("delete by non-author is rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/posts/comments/%d/%d", postID, commentID), authorToken, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "User not authorized.", body["msg"])
	})

	t.Run("delete unknown comment", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/posts/comments/%d/999", postID), commenterToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Comment not existed.", body["msg"])
	})

	t.Run("delete own comment", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/posts/comments/%d/%d", postID, commentID), commenterToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Deleted post.", body["msg"])
	})
}
