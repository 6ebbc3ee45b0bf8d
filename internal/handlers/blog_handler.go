package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/blognest/backend/internal/middleware"
	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/repositories"
	"github.com/blognest/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// BlogHandler handles blog CRUD and the seen/like/unlike reactions.
type BlogHandler struct {
	blogRepo        repositories.BlogRepository
	interactionRepo repositories.InteractionRepository
	interactions    *services.InteractionService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, interactionRepo repositories.InteractionRepository, interactions *services.InteractionService) *BlogHandler {
	return &BlogHandler{
		blogRepo:        blogRepo,
		interactionRepo: interactionRepo,
		interactions:    interactions,
	}
}

// RegisterBlogRoutes registers blog-related routes
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.GET("/blogs/", h.ListBlogs)
	g.GET("/blogs/myblogs/", h.ListMyBlogs)
	g.POST("/blogs/", h.CreateBlog)
	g.GET("/blogs/:id", h.GetBlog)
	g.PATCH("/blogs/:id", h.UpdateBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)
	g.POST("/blogs/:id/mark-seen", h.MarkSeen)
	g.POST("/blogs/:id/like", h.Like)
	g.POST("/blogs/:id/unlike", h.Unlike)
}

// ListBlogs returns a page of blogs enriched with the caller's
// interaction state.
func (h *BlogHandler) ListBlogs(c echo.Context) error {
	user := middleware.CurrentUser(c)
	page, pageSize := pageParams(c)

	blogs, total, err := h.blogRepo.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return httpError(err)
	}
	return h.paginatedResponse(c, user.ID, blogs, total, page, pageSize)
}

// ListMyBlogs returns a page of the caller's own blogs.
func (h *BlogHandler) ListMyBlogs(c echo.Context) error {
	user := middleware.CurrentUser(c)
	page, pageSize := pageParams(c)

	blogs, total, err := h.blogRepo.ListByAuthor(c.Request().Context(), user.ID, page, pageSize)
	if err != nil {
		return httpError(err)
	}
	return h.paginatedResponse(c, user.ID, blogs, total, page, pageSize)
}

func (h *BlogHandler) paginatedResponse(c echo.Context, viewerID uint, blogs []models.Blog, total int64, page, pageSize int) error {
	ids := lo.Map(blogs, func(b models.Blog, _ int) uint { return b.ID })
	interactionsByBlog, err := h.interactionRepo.GetForBlogs(c.Request().Context(), viewerID, ids)
	if err != nil {
		return httpError(err)
	}

	data := lo.Map(blogs, func(b models.Blog, _ int) models.BlogOut {
		out := models.NewBlogOut(&b)
		if interaction, ok := interactionsByBlog[b.ID]; ok {
			out.Interaction = models.NewInteractionOut(&interaction)
		} else {
			out.Interaction = models.NewInteractionOut(nil)
		}
		return out
	})

	return c.JSON(http.StatusOK, models.PaginatedBlogs{
		Data: data,
		Pagination: models.Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
		},
	})
}

// CreateBlog creates a blog owned by the caller.
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog := &models.Blog{
		Title:       req.Title,
		Content:     req.Content,
		Image:       req.Image,
		AuthorID:    user.ID,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := h.blogRepo.Create(c.Request().Context(), blog); err != nil {
		return httpError(err)
	}

	blog.Author = *user
	return c.JSON(http.StatusCreated, models.NewBlogOut(blog))
}

// GetBlog returns a published blog with the caller's interaction state.
func (h *BlogHandler) GetBlog(c echo.Context) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	blog, err := h.blogRepo.GetPublishedByID(c.Request().Context(), blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	interaction, err := h.interactionRepo.Get(c.Request().Context(), user.ID, blog.ID)
	if err != nil {
		return httpError(err)
	}

	out := models.NewBlogOut(blog)
	out.Interaction = models.NewInteractionOut(interaction)
	return c.JSON(http.StatusOK, out)
}

// UpdateBlog applies a partial update. Only the author may update.
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogRepo.GetByID(c.Request().Context(), blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	if blog.AuthorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this blog")
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Image != nil {
		blog.Image = req.Image
	}
	if req.IsPublished != nil {
		blog.IsPublished = *req.IsPublished
	}

	if err := h.blogRepo.Update(c.Request().Context(), blog); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, models.NewBlogOut(blog))
}

// DeleteBlog removes a blog and its dependents. Only the author may delete.
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	blog, err := h.blogRepo.GetByID(c.Request().Context(), blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	if blog.AuthorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this blog")
	}

	if err := h.blogRepo.Delete(c.Request().Context(), blog); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, models.NewBlogOut(blog))
}

// MarkSeen records the caller's read of the blog, idempotently.
func (h *BlogHandler) MarkSeen(c echo.Context) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.interactions.MarkSeen(c.Request().Context(), user.ID, blogID)
	if err != nil {
		return httpError(err)
	}

	message := "Marked as seen"
	if result.AlreadySeen {
		message = "Already seen"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    message,
		"read_count": result.ReadCount,
		"id":         result.BlogID,
	})
}

// Like toggles the caller's like on the blog.
func (h *BlogHandler) Like(c echo.Context) error {
	return h.react(c, h.interactions.ToggleLike)
}

// Unlike toggles the caller's unlike on the blog.
func (h *BlogHandler) Unlike(c echo.Context) error {
	return h.react(c, h.interactions.ToggleUnlike)
}

func (h *BlogHandler) react(c echo.Context, toggle func(ctx context.Context, userID, blogID uint) (*models.Blog, *models.BlogInteraction, error)) error {
	user := middleware.CurrentUser(c)
	blogID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	blog, interaction, err := toggle(c.Request().Context(), user.ID, blogID)
	if err != nil {
		return httpError(err)
	}

	out := models.NewBlogOut(blog)
	out.Interaction = models.NewInteractionOut(interaction)
	return c.JSON(http.StatusOK, out)
}

func pageParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}
