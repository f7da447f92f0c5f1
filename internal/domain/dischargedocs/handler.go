package dischargedocs

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrelay/discharge/internal/platform/auth"
	"github.com/medrelay/discharge/internal/platform/db"
	"github.com/medrelay/discharge/pkg/pagination"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints - admin, physician, nurse
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/discharge-documents", h.ListDocuments)
	readGroup.GET("/discharge-documents/:id", h.GetDocument)
	readGroup.GET("/discharge-documents/:id/simplified", h.GetSimplified)

	// Write endpoints - admin, physician, nurse
	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	writeGroup.POST("/discharge-documents", h.CreateDocument)
	writeGroup.POST("/discharge-documents/:id/reparse", h.ReparseDocument)
	writeGroup.PUT("/discharge-documents/:id/simplified", h.AttachSimplified)
	writeGroup.POST("/parse", h.Parse)

	// Destructive and configuration endpoints - admin only
	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.DELETE("/discharge-documents/:id", h.DeleteDocument)
	adminGroup.GET("/parser-config", h.GetParserConfig)
	adminGroup.PUT("/parser-config", h.UpdateParserConfig)
}

func (h *Handler) CreateDocument(c echo.Context) error {
	var in CreateDocumentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "summary_text or instructions_text is required")
	}
	doc, err := h.svc.Ingest(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *Handler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) ListDocuments(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := ListFilter{
		PatientRef:   c.QueryParam("patient_ref"),
		ReviewStatus: c.QueryParam("review_status"),
	}
	if rs := filter.ReviewStatus; rs != "" && rs != ReviewAutoApproved && rs != ReviewNeedsReview {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review_status")
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return notFoundOr500(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReparseDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doc, err := h.svc.Reparse(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) Parse(c echo.Context) error {
	var in ParseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "summary_text or instructions_text is required")
	}
	return c.JSON(http.StatusOK, h.svc.Parse(c.Request().Context(), in))
}

func (h *Handler) GetSimplified(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":           doc.ID,
		"summary":      doc.SimplifiedSummary,
		"instructions": doc.SimplifiedInstructions,
	})
}

func (h *Handler) AttachSimplified(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in AttachSimplifiedInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "summary_text or instructions_text is required")
	}
	doc, err := h.svc.AttachSimplified(c.Request().Context(), id, in)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) GetParserConfig(c echo.Context) error {
	tenantID := db.TenantFromContext(c.Request().Context())
	cfg, err := h.svc.ParserConfigFor(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) UpdateParserConfig(c echo.Context) error {
	var in UpdateParserConfigInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "parsers must be a non-empty list")
	}
	tenantID := db.TenantFromContext(c.Request().Context())
	cfg, err := h.svc.UpdateParserConfig(c.Request().Context(), tenantID, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func notFoundOr500(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "discharge document not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
