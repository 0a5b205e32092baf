package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// PreviewImport parses an uploaded CSV/XLSX file and returns candidates plus
// per-row errors without persisting anything
// POST /api/v1/admin/products/import/preview
func (h *ImportHandler) PreviewImport(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()
	// Large uploads are spooled to temp files by the multipart reader;
	// drop them when the request finishes, whatever the outcome
	defer func() {
		if c.Request.MultipartForm != nil {
			c.Request.MultipartForm.RemoveAll()
		}
	}()

	var preview *models.ImportPreview
	var parseErr error

	filename := strings.ToLower(header.Filename)
	switch {
	case strings.HasSuffix(filename, ".csv"):
		preview, parseErr = h.importService.ParseCSV(file)
	case strings.HasSuffix(filename, ".xlsx"):
		preview, parseErr = h.importService.ParseXLSX(file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ImportPreviewResponse{
		Success: true,
		Preview: preview.Candidates,
		Total:   preview.Total,
		Errors:  formatRowErrors(preview.Errors),
	})
}

// ConfirmImport persists the client-approved candidate list. Row outcomes are
// reported in-band; the endpoint returns 200 for any well-formed request.
// POST /api/v1/admin/products/import/confirm
func (h *ImportHandler) ConfirmImport(c *gin.Context) {
	var req models.ImportConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	if len(req.Products) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_IMPORT",
				Message: "No products to import",
			},
		})
		return
	}

	summary := h.importService.Confirm(req.Products)

	c.JSON(http.StatusOK, models.ImportConfirmResponse{
		Success: true,
		Message: summary.Message(),
		Errors:  formatRowErrors(summary.Errors),
	})
}

// GetImportTemplate returns the import template definition or file
// GET /api/v1/admin/products/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := models.ImportFormat(c.DefaultQuery("format", "json"))

	template := models.ProductImportTemplate()

	switch format {
	case models.ImportFormatCSV:
		h.generateCSVTemplate(c, template)
	case models.ImportFormatXLSX:
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate downloads a headers-only CSV template
func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, 0, len(template.Columns))
	for _, col := range template.Columns {
		// The details.<key> placeholder is documentation, not a literal column
		if strings.HasPrefix(col.Name, models.DetailsColumnPrefix) {
			continue
		}
		headers = append(headers, col.Name)
	}
	writer.Write(headers)
}

// generateXLSXTemplate downloads an Excel template with an instructions sheet
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	colIdx := 0
	for _, col := range template.Columns {
		if strings.HasPrefix(col.Name, models.DetailsColumnPrefix) {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, col.Name)
		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
		colName, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
		colIdx++
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")
	f.SetCellValue("Instructions", "A3", "Upload this file on the preview screen, review the parsed rows, then confirm.")
	f.SetCellValue("Instructions", "A4", "Rows with a SKU update the matching product; rows without a SKU always create a new one.")
	f.SetCellValue("Instructions", "A5", "categoryName must match an existing category; unmatched names import the product as inactive.")
	f.SetCellValue("Instructions", "A6", "Extra columns named details.<key> (e.g. details.material) become product detail fields.")

	f.SetCellValue("Instructions", "A8", "Column")
	f.SetCellValue("Instructions", "B8", "Description")
	f.SetCellValue("Instructions", "C8", "Required")
	f.SetCellValue("Instructions", "D8", "Type")
	f.SetCellValue("Instructions", "E8", "Example")
	for i, col := range template.Columns {
		row := i + 9
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}
	f.SetColWidth("Instructions", "A", "A", 22)
	f.SetColWidth("Instructions", "B", "B", 70)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")

	f.Write(c.Writer)
}

func formatRowErrors(errors []models.ImportRowError) []string {
	formatted := make([]string, 0, len(errors))
	for _, e := range errors {
		formatted = append(formatted, e.String())
	}
	return formatted
}
