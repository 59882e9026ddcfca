package compare

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"sheet-recon/core/logger"
	"sheet-recon/core/recon"
	"sheet-recon/core/sheet"
	"sheet-recon/feature/compare/models"
)

// Handler handles HTTP requests for workbook comparison.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/upload", h.HandleUpload)
	app.Post("/compare", h.HandleCompare)
	app.Get("/download/:result_id", h.HandleDownloadReport)
	app.Get("/download/:result_id/marked/:file_num", h.HandleDownloadMarked)
	app.Get("/files/:file_id", h.HandleFileInfo)
	app.Get("/history", h.HandleHistory)
}

// HandleUpload accepts an Excel workbook and returns its id and sheet layout.
// @Summary Upload Workbook
// @Description Upload an .xlsx/.xls file and get back its sheets and columns.
// @Tags compare
// @Accept mpfd
// @Produce json
// @Param file formData file true "Excel workbook"
// @Success 200 {object} models.UploadResponse "Upload result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "no file provided")
	}
	if !isWorkbookName(header.Filename) {
		return badRequest(c, "only .xlsx and .xls files are supported")
	}

	f, err := header.Open()
	if err != nil {
		l.Error("Failed to open uploaded file", zap.Error(err))
		return internalError(c, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		l.Error("Failed to read uploaded file", zap.Error(err))
		return internalError(c, err)
	}

	resp, err := h.service.Upload(c.Context(), header.Filename, content)
	if err != nil {
		var loadErr *sheet.LoadError
		if errors.As(err, &loadErr) {
			return badRequest(c, err.Error())
		}
		l.Error("Upload failed", zap.String("filename", header.Filename), zap.Error(err))
		return internalError(c, err)
	}

	l.Info("Workbook uploaded",
		zap.String("file_id", resp.FileID),
		zap.String("filename", header.Filename))
	return c.JSON(resp)
}

// HandleCompare runs a comparison between two uploaded workbooks.
// @Summary Compare Workbooks
// @Description Compare two uploaded workbooks by composite key columns.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body models.CompareRequest true "Compare parameters"
// @Success 200 {object} models.CompareResponse "Comparison result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req models.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.service.Compare(c.Context(), req)
	if err != nil {
		var keyErr *recon.MissingKeyColumnError
		var loadErr *sheet.LoadError
		switch {
		case errors.Is(err, ErrIncompleteRequest), errors.As(err, &keyErr), errors.As(err, &loadErr):
			return badRequest(c, err.Error())
		case errors.Is(err, ErrNotFound):
			return notFound(c, "file not found")
		}
		l.Error("Comparison failed", zap.Error(err))
		return internalError(c, err)
	}

	l.Info("Comparison completed",
		zap.String("result_id", resp.ResultID),
		zap.Int("diff_rows", resp.Summary.DiffRows),
		zap.Bool("has_marked_files", resp.HasMarkedFiles))
	return c.JSON(resp)
}

// HandleDownloadReport serves the stored text report as a download.
// @Summary Download Report
// @Description Download the text report of a comparison.
// @Tags compare
// @Produce plain
// @Param result_id path string true "Comparison result id"
// @Success 200 {string} string "Report content"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /download/{result_id} [get]
func (h *Handler) HandleDownloadReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	content, filename, err := h.service.DownloadReport(c.Context(), c.Params("result_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c, "result not found")
		}
		l.Error("Report download failed", zap.Error(err))
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Send(content)
}

// HandleDownloadMarked serves a marked workbook copy as a download.
// @Summary Download Marked Copy
// @Description Download the annotated copy of file 1 or file 2.
// @Tags compare
// @Produce octet-stream
// @Param result_id path string true "Comparison result id"
// @Param file_num path int true "File number (1 or 2)"
// @Success 200 {string} binary "Marked workbook"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /download/{result_id}/marked/{file_num} [get]
func (h *Handler) HandleDownloadMarked(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fileNum, err := c.ParamsInt("file_num")
	if err != nil || (fileNum != 1 && fileNum != 2) {
		return badRequest(c, "file_num must be 1 or 2")
	}

	content, filename, err := h.service.DownloadMarked(c.Context(), c.Params("result_id"), fileNum)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c, "marked file not found")
		}
		l.Error("Marked copy download failed", zap.Error(err))
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(content)
}

// HandleFileInfo returns the sheet layout of an uploaded workbook.
// @Summary Get File Info
// @Description Get the sheets and columns of an uploaded workbook.
// @Tags compare
// @Produce json
// @Param file_id path string true "Upload id"
// @Success 200 {object} models.FileInfoResponse "File info"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files/{file_id} [get]
func (h *Handler) HandleFileInfo(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	resp, err := h.service.FileInfo(c.Context(), c.Params("file_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c, "file not found")
		}
		l.Error("File info lookup failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.JSON(resp)
}

// HandleHistory returns recent comparisons, newest first.
// @Summary Comparison History
// @Description List recent comparisons.
// @Tags compare
// @Produce json
// @Param limit query int false "Maximum entries (default 20)"
// @Success 200 {array} models.Comparison "Recent comparisons"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	cmps, err := h.service.History(c.Context(), c.QueryInt("limit"))
	if err != nil {
		l.Error("History lookup failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.JSON(cmps)
}

func isWorkbookName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
