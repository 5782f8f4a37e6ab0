package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/domains/author/service"
	"library-backend/internal/shared/response"
)

type AuthorHandler struct {
	service service.AuthorService
}

func NewAuthorHandler(svc service.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authors := rg.Group("/authors")
	{
		authors.POST("", h.Create)
		authors.GET("", h.List)
		authors.GET("/:id", h.GetByID)
		authors.PUT("/:id", h.Update)
		authors.DELETE("/:id", h.Delete)

		authors.PUT("/:id/profile", h.UpsertProfile)
		authors.POST("/:id/profile/photo", h.UploadPhoto)
		authors.DELETE("/:id/profile", h.DeleteProfile)
	}
}

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	author, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusCreated, "Author created", author)
}

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid author id")
		return
	}

	author, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", author)
}

func (h *AuthorHandler) List(c *gin.Context) {
	var query model.ListAuthorsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	query.Normalize()

	authors, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "", authors, response.NewMeta(query.Page, query.Limit, total))
}

func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid author id")
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	author, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Author updated", author)
}

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid author id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Author deleted", nil)
}

func (h *AuthorHandler) UpsertProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid author id")
		return
	}

	var req model.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	profile, err := h.service.UpsertProfile(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", profile)
}

func (h *AuthorHandler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid author id")
		return
	}

	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "photo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "failed to read photo")
		return
	}

	url, err := h.service.UploadPhoto(c.Request.Context(), id, data)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Photo uploaded", gin.H{"photo_url": url})
}

func (h *AuthorHandler) DeleteProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid author id")
		return
	}

	if err := h.service.DeleteProfile(c.Request.Context(), id); err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Profile deleted", nil)
}
