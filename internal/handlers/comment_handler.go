package handlers

import (
	"net/http"
	"strconv"

	"github.com/blognest/backend/internal/middleware"
	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles blog comments and their moderation.
type CommentHandler struct {
	commentRepo repositories.CommentRepository
	blogRepo    repositories.BlogRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, blogRepo repositories.BlogRepository) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo, blogRepo: blogRepo}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/blogs/:id/comments", h.ListComments)
	g.POST("/blogs/:id/comments", h.CreateComment)
	g.PATCH("/blogs/comments/:comment_id", h.UpdateComment)
	g.DELETE("/blogs/comments/:comment_id", h.DeleteComment)
	g.PATCH("/blogs/comments/:comment_id/toggle-approval", h.ToggleApproval)
}

// ListComments returns comments for a blog. The caller's own comments
// sort first; only superusers see unapproved ones.
func (h *CommentHandler) ListComments(c echo.Context) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.blogRepo.GetByID(c.Request().Context(), blogID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}

	comments, err := h.commentRepo.ListForBlog(c.Request().Context(), blogID, user.ID, user.IsSuperuser, skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment to a blog. Comments start approved.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.blogRepo.GetByID(c.Request().Context(), blogID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	comment := &models.Comment{
		Content:    req.Content,
		BlogID:     blogID,
		UserID:     user.ID,
		IsApproved: true,
	}
	if err := h.commentRepo.Create(c.Request().Context(), comment); err != nil {
		return httpError(err)
	}

	comment.User = *user
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's content. Only the author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	commentID, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepo.GetByID(c.Request().Context(), commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this comment")
	}

	comment.Content = req.Content
	if err := h.commentRepo.Update(c.Request().Context(), comment); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Only the author may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	commentID, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepo.GetByID(c.Request().Context(), commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment")
	}

	if err := h.commentRepo.Delete(c.Request().Context(), comment); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// ToggleApproval flips a comment's approval flag. Superusers only.
func (h *CommentHandler) ToggleApproval(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if !user.IsSuperuser {
		return echo.NewHTTPError(http.StatusForbidden, "Only superuser can toggle comment approval")
	}

	commentID, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepo.GetByID(c.Request().Context(), commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	comment.IsApproved = !comment.IsApproved
	if err := h.commentRepo.Update(c.Request().Context(), comment); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}
