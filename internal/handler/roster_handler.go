package handler

import (
	"io"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/service"
	"github.com/quizzard-app/roster-api/pkg/config"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
	"github.com/quizzard-app/roster-api/pkg/response"
)

// RosterHandler exposes the roster upload endpoint.
type RosterHandler struct {
	service *service.IngestService
	cfg     config.IngestConfig
}

// NewRosterHandler constructs a roster handler.
func NewRosterHandler(svc *service.IngestService, cfg config.IngestConfig) *RosterHandler {
	return &RosterHandler{service: svc, cfg: cfg}
}

// Import godoc
// @Summary Import a class roster file
// @Tags Classes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster file (csv or xlsx)"
// @Param mode formData string true "Ingestion mode: single or multi"
// @Param className formData string false "Class name override for single mode"
// @Success 201 {object} response.Envelope
// @Router /classes/import [post]
func (h *RosterHandler) Import(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing roster file"))
		return
	}
	if fileHeader.Size > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload size limit"))
		return
	}
	if !h.extensionAllowed(fileHeader.Filename) {
		response.Error(c, appErrors.ErrUnsupportedFormat)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFileSizeBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	if int64(len(data)) > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload size limit"))
		return
	}

	req := service.IngestRequest{
		OwnerID:    claims.UserID,
		OwnerName:  claims.FullName,
		OwnerEmail: claims.Email,
		Mode:       models.IngestMode(c.PostForm("mode")),
		FileName:   fileHeader.Filename,
		Data:       data,
		ClassName:  c.PostForm("className"),
	}

	result, err := h.service.Ingest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *RosterHandler) extensionAllowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	for _, allowed := range h.cfg.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
