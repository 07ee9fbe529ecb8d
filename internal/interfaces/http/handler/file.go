package handler

import (
	"context"

	appanalytics "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FileRegistry registers uploads and clones
type FileRegistry interface {
	RegisterFile(ctx context.Context, input appanalytics.RegisterFileInput) (*analytics.FileRecord, error)
	CloneFile(ctx context.Context, fileID, newOwnerID uuid.UUID) (*analytics.FileRecord, error)
	GetFile(ctx context.Context, fileID uuid.UUID) (*analytics.FileRecord, error)
}

// FileHandler handles file registry endpoints
type FileHandler struct {
	BaseHandler
	files FileRegistry
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(files FileRegistry) *FileHandler {
	return &FileHandler{files: files}
}

// Register godoc
// @ID           registerFile
// @Summary      Register an uploaded file
// @Description  Records the metadata of a file already stored in object storage; the caller becomes its owner
// @Tags         files
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterFileRequest true "File metadata"
// @Success      201 {object} APIResponse[dto.FileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /files [post]
func (h *FileHandler) Register(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req dto.RegisterFileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	file, err := h.files.RegisterFile(c.Request.Context(), appanalytics.RegisterFileInput{
		OwnerID:    ownerID,
		Name:       req.Name,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
		StorageKey: req.StorageKey,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToFileResponse(file))
}

// Clone godoc
// @ID           cloneFile
// @Summary      Clone a file into the caller's account
// @Description  Views of the clone earn referral credit for the original owner
// @Tags         files
// @Produce      json
// @Param        id path string true "Source file ID" format(uuid)
// @Success      201 {object} APIResponse[dto.FileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /files/{id}/clone [post]
func (h *FileHandler) Clone(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	fileID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	clone, err := h.files.CloneFile(c.Request.Context(), fileID, ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToFileResponse(clone))
}

// Get godoc
// @ID           getFile
// @Summary      Get a file
// @Tags         files
// @Produce      json
// @Param        id path string true "File ID" format(uuid)
// @Success      200 {object} APIResponse[dto.FileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /files/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	fileID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	file, err := h.files.GetFile(c.Request.Context(), fileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToFileResponse(file))
}
