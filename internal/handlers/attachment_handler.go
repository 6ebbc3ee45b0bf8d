package handlers

import (
	"net/http"

	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/repositories"
	"github.com/blognest/backend/pkg/cloudinary"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AttachmentHandler handles blog attachments. Files live in the external
// store; rows here only carry the URL and the external object id.
type AttachmentHandler struct {
	attachmentRepo repositories.AttachmentRepository
	blogRepo       repositories.BlogRepository
	storage        *cloudinary.Client
	log            *zap.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentRepo repositories.AttachmentRepository, blogRepo repositories.BlogRepository, storage *cloudinary.Client, log *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentRepo: attachmentRepo,
		blogRepo:       blogRepo,
		storage:        storage,
		log:            log,
	}
}

// RegisterAttachmentRoutes registers attachment-related routes
func (h *AttachmentHandler) RegisterAttachmentRoutes(g *echo.Group) {
	g.POST("/blog/:blog_id", h.CreateAttachment)
	g.GET("/blog/:blog_id", h.ListAttachments)
	g.DELETE("/:id", h.DeleteAttachment)
}

// CreateAttachment records an already-uploaded file against a blog.
func (h *AttachmentHandler) CreateAttachment(c echo.Context) error {
	blogID, err := pathID(c, "blog_id")
	if err != nil {
		return err
	}

	var req models.CreateAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.blogRepo.GetByID(c.Request().Context(), blogID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	attachment := &models.Attachment{
		FileURL:      req.FileURL,
		FilePublicID: req.FilePublicID,
		BlogID:       blogID,
	}
	if err := h.attachmentRepo.Create(c.Request().Context(), attachment); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, attachment)
}

// ListAttachments returns all attachments of a blog.
func (h *AttachmentHandler) ListAttachments(c echo.Context) error {
	blogID, err := pathID(c, "blog_id")
	if err != nil {
		return err
	}

	attachments, err := h.attachmentRepo.ListForBlog(c.Request().Context(), blogID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, attachments)
}

// DeleteAttachment removes the external object first and aborts the
// local delete unless the store confirms.
func (h *AttachmentHandler) DeleteAttachment(c echo.Context) error {
	attachmentID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	attachment, err := h.attachmentRepo.GetByID(c.Request().Context(), attachmentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Attachment not found")
	}

	if err := h.storage.Destroy(c.Request().Context(), attachment.FilePublicID); err != nil {
		h.log.Error("attachment store delete failed",
			zap.Uint("attachment_id", attachment.ID),
			zap.String("public_id", attachment.FilePublicID),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete from attachment store")
	}

	if err := h.attachmentRepo.Delete(c.Request().Context(), attachment); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": attachmentID})
}
