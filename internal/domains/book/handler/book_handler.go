package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
)

type BookHandler struct {
	service service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{service: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.POST("", h.Create)
		books.GET("", h.List)
		books.GET("/prefill", h.Prefill)
		books.GET("/:id", h.GetByID)
		books.PUT("/:id", h.Update)
		books.DELETE("/:id", h.Delete)
		books.POST("/:id/deactivate", h.Deactivate)
		books.POST("/:id/activate", h.Activate)
		books.POST("/:id/cover", h.UploadCover)
	}
}

func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	book, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusCreated, "Book created", book)
}

func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", book)
}

func (h *BookHandler) List(c *gin.Context) {
	var query model.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	query.Normalize()

	books, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "", books, response.NewMeta(query.Page, query.Limit, total))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Book updated", book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Book deleted", nil)
}

func (h *BookHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Book deactivated", nil)
}

func (h *BookHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	if err := h.service.Activate(c.Request.Context(), id); err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Book activated", nil)
}

func (h *BookHandler) UploadCover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	file, _, err := c.Request.FormFile("cover")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "cover file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "failed to read cover")
		return
	}

	url, err := h.service.UploadCover(c.Request.Context(), id, data)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Cover uploaded", gin.H{"cover_url": url})
}

func (h *BookHandler) Prefill(c *gin.Context) {
	isbn := c.Query("isbn")
	if isbn == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_ISBN", "isbn query parameter is required")
		return
	}

	prefill, err := h.service.Prefill(c.Request.Context(), isbn)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", prefill)
}
