package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared/response"
)

type LoanHandler struct {
	service service.LoanService
}

func NewLoanHandler(svc service.LoanService) *LoanHandler {
	return &LoanHandler{service: svc}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/loans")
	{
		loans.POST("", h.Issue)
		loans.GET("", h.List)
		loans.GET("/overdue", h.ListOverdue)
		loans.GET("/export", h.Export)
		loans.GET("/:id", h.GetByID)
		loans.POST("/:id/return", h.Return)
	}
}

func (h *LoanHandler) Issue(c *gin.Context) {
	var req model.IssueLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	loan, err := h.service.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusCreated, "Loan issued", loan)
}

func (h *LoanHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid loan id")
		return
	}

	var req model.ReturnLoanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err.Error())
			return
		}
	}

	loan, err := h.service.Return(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Loan returned", loan)
}

func (h *LoanHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid loan id")
		return
	}

	loan, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", loan)
}

func (h *LoanHandler) List(c *gin.Context) {
	var query model.ListLoansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	query.Normalize()

	loans, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "", loans, response.NewMeta(query.Page, query.Limit, total))
}

func (h *LoanHandler) ListOverdue(c *gin.Context) {
	loans, err := h.service.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", loans)
}

func (h *LoanHandler) Export(c *gin.Context) {
	var query model.ListLoansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	data, err := h.service.ExportXLSX(c.Request.Context(), query)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	filename := fmt.Sprintf("loans-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
