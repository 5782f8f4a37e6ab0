package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/loan/model"
)

const reportSheet = "Loans"

// ExportXLSX renders every loan matching the query (pagination ignored)
// as a spreadsheet.
func (s *loanService) ExportXLSX(ctx context.Context, query model.ListLoansQuery) ([]byte, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}
	query.Page = 1
	query.Limit = 10000

	loans, _, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Loan ID", "Book", "ISBN", "Borrower", "Document",
		"Loan Date", "Due Date", "Return Date", "Status", "Fine"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, h)
	}

	for rowIdx, loan := range loans {
		returnDate := ""
		if loan.ReturnDate != nil {
			returnDate = loan.ReturnDate.Format("2006-01-02")
		}
		fine := ""
		if loan.OverdueFine != nil {
			fine = loan.OverdueFine.StringFixed(2)
		}

		values := []interface{}{
			loan.ID.String(),
			loan.BookTitle,
			loan.BookISBN,
			loan.BorrowerName,
			loan.BorrowerDocument,
			loan.LoanDate.Format("2006-01-02"),
			loan.DueDate.Format("2006-01-02"),
			returnDate,
			loan.Status,
			fine,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(reportSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
