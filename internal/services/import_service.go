package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// ProductStore is the persistence surface the confirm phase writes through
type ProductStore interface {
	// UpsertBySKU creates or updates a product keyed by SKU. The boolean
	// reports whether an existing product was matched (update vs create).
	UpsertBySKU(product *models.Product) (*models.Product, bool, error)
	// CreateProduct inserts a new product unconditionally
	CreateProduct(product *models.Product) error
}

// CategoryStore resolves category names during the confirm phase
type CategoryStore interface {
	// FindByName matches a category by case-insensitive exact name;
	// returns gorm.ErrRecordNotFound when nothing matches
	FindByName(name string) (*models.Category, error)
}

// ImportService implements the two-phase product import: a read-only parse
// that turns a CSV/XLSX upload into candidates plus row errors, and a
// persisting confirm that upserts client-approved candidates one row at a
// time. The client carries the candidate list between the two phases; the
// service holds no state across calls.
type ImportService struct {
	products   ProductStore
	categories CategoryStore
	logger     *logrus.Logger
}

func NewImportService(products ProductStore, categories CategoryStore, logger *logrus.Logger) *ImportService {
	return &ImportService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// ParseCSV reads a CSV stream (header row + data rows) into an import
// preview. Structural CSV errors fail the whole parse; per-row validation
// errors are collected and never abort the remaining rows.
func (s *ImportService) ParseCSV(file io.Reader) (*models.ImportPreview, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV: %w", err)
		}
		records = append(records, record)
	}

	return s.parseRows(headers, records), nil
}

// ParseXLSX reads the first sheet of an Excel upload into an import preview
func (s *ImportService) ParseXLSX(file io.Reader) (*models.ImportPreview, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("file must have a header row")
	}

	headers := rows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	return s.parseRows(headers, rows[1:]), nil
}

// parseRows validates and normalizes data rows. Row numbers match what a
// spreadsheet user sees: the header is row 1, the first data row is row 2.
func (s *ImportService) parseRows(headers []string, records [][]string) *models.ImportPreview {
	preview := &models.ImportPreview{
		Candidates: make([]models.CandidateProduct, 0, len(records)),
		Errors:     make([]models.ImportRowError, 0),
	}

	for i, record := range records {
		rowNum := i + 2

		row := make(map[string]string, len(headers))
		for j, value := range record {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(value)
			}
		}

		// Collect every applicable error for the row, no short-circuit
		var rowErrors []string
		if row["name"] == "" {
			rowErrors = append(rowErrors, "name is required")
		}
		price, err := parsePrice(row["price"])
		if err != nil {
			rowErrors = append(rowErrors, "price must be a non-negative number")
		}
		stock, err := parseStock(row["stockQuantity"])
		if err != nil {
			rowErrors = append(rowErrors, "stockQuantity must be a non-negative integer")
		}
		if row["categoryName"] == "" {
			rowErrors = append(rowErrors, "categoryName is required")
		}

		if len(rowErrors) > 0 {
			for _, msg := range rowErrors {
				preview.Errors = append(preview.Errors, models.ImportRowError{Row: rowNum, Message: msg})
			}
			continue
		}

		candidate := models.CandidateProduct{
			Name:          row["name"],
			Description:   row["description"],
			Price:         price,
			StockQuantity: stock,
			CategoryName:  row["categoryName"],
			SKU:           row["sku"],
			Model:         row["model"],
			Brand:         row["brand"],
			Images:        splitList(row["images"]),
			Sizes:         splitList(row["sizes"]),
			Colors:        splitList(row["colors"]),
			Tags:          splitList(row["tags"]),
			IsFeatured:    parseFlag(row["isFeatured"]),
			IsNewArrival:  parseFlag(row["isNewArrival"]),
			IsTrending:    parseFlag(row["isTrending"]),
			IsBestSeller:  parseFlag(row["isBestSeller"]),
			Details:       collectDetails(headers, row),
		}
		preview.Candidates = append(preview.Candidates, candidate)
	}

	preview.Total = len(records)
	return preview
}

// Confirm persists client-approved candidates. Rows are processed strictly
// in input order so duplicate-SKU rows within one batch apply sequentially;
// one row's failure never aborts the rest.
func (s *ImportService) Confirm(candidates []models.CandidateProduct) *models.ImportSummary {
	summary := &models.ImportSummary{
		Errors: make([]models.ImportRowError, 0),
	}

	for i, candidate := range candidates {
		rowNum := i + 1
		s.confirmRow(rowNum, candidate, summary)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"created": summary.CreatedCount,
			"updated": summary.UpdatedCount,
			"errors":  summary.ErrorCount,
		}).Info("Product import confirmed")
	}

	return summary
}

func (s *ImportService) confirmRow(rowNum int, candidate models.CandidateProduct, summary *models.ImportSummary) {
	name := strings.TrimSpace(candidate.Name)

	// Re-validate required fields; the preview client is not trusted
	if name == "" {
		s.fail(summary, rowNum, "name is required")
		return
	}
	if math.IsNaN(candidate.Price) || math.IsInf(candidate.Price, 0) || candidate.Price < 0 {
		s.fail(summary, rowNum, fmt.Sprintf("%s: price must be a non-negative number", name))
		return
	}
	if candidate.StockQuantity < 0 {
		s.fail(summary, rowNum, fmt.Sprintf("%s: stockQuantity must be a non-negative integer", name))
		return
	}

	// Resolve the category fresh for every row; categories may change
	// mid-batch and the lookup must observe that
	categoryName := strings.TrimSpace(candidate.CategoryName)
	var categoryID *uuid.UUID
	isActive := false

	switch {
	case categoryName == "":
		summary.Errors = append(summary.Errors, models.ImportRowError{
			Row:     rowNum,
			Message: fmt.Sprintf("%s: no category provided, product imported as inactive", name),
		})
	default:
		category, err := s.categories.FindByName(categoryName)
		switch {
		case err == nil:
			id := category.ID
			categoryID = &id
			isActive = true
		case err == gorm.ErrRecordNotFound:
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     rowNum,
				Message: fmt.Sprintf("%s: category %q not found, product imported as inactive", name, categoryName),
			})
		default:
			s.fail(summary, rowNum, fmt.Sprintf("%s: category lookup failed: %v", name, err))
			return
		}
	}

	product := buildProduct(candidate, categoryID, isActive)

	sku := strings.TrimSpace(candidate.SKU)
	if sku != "" {
		_, matched, err := s.products.UpsertBySKU(product)
		if err != nil {
			s.fail(summary, rowNum, fmt.Sprintf("%s: %v", name, err))
			return
		}
		if matched {
			summary.UpdatedCount++
			s.logRow(rowNum, models.ImportOutcomeUpdated)
		} else {
			summary.CreatedCount++
			s.logRow(rowNum, models.ImportOutcomeCreated)
		}
		return
	}

	// No SKU means no natural key: every confirm inserts a fresh product
	if err := s.products.CreateProduct(product); err != nil {
		s.fail(summary, rowNum, fmt.Sprintf("%s: %v", name, err))
		return
	}
	summary.CreatedCount++
	s.logRow(rowNum, models.ImportOutcomeCreated)
}

func (s *ImportService) logRow(rowNum int, outcome models.ImportOutcome) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"row":     rowNum,
			"outcome": outcome,
		}).Debug("Import row processed")
	}
}

func (s *ImportService) fail(summary *models.ImportSummary, rowNum int, message string) {
	summary.ErrorCount++
	summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNum, Message: message})
	s.logRow(rowNum, models.ImportOutcomeFailed)
}

// buildProduct maps a candidate onto the persistent product shape
func buildProduct(candidate models.CandidateProduct, categoryID *uuid.UUID, isActive bool) *models.Product {
	product := &models.Product{
		Name:          strings.TrimSpace(candidate.Name),
		Price:         candidate.Price,
		StockQuantity: candidate.StockQuantity,
		Images:        normalizeList(candidate.Images),
		Sizes:         normalizeList(candidate.Sizes),
		Colors:        normalizeList(candidate.Colors),
		Tags:          normalizeList(candidate.Tags),
		Details:       normalizeDetails(candidate.Details),
		IsFeatured:    candidate.IsFeatured,
		IsNewArrival:  candidate.IsNewArrival,
		IsTrending:    candidate.IsTrending,
		IsBestSeller:  candidate.IsBestSeller,
		IsActive:      isActive,
	}
	if desc := strings.TrimSpace(candidate.Description); desc != "" {
		product.Description = &desc
	}
	if sku := strings.TrimSpace(candidate.SKU); sku != "" {
		product.SKU = &sku
	}
	if model := strings.TrimSpace(candidate.Model); model != "" {
		product.Model = &model
	}
	if brand := strings.TrimSpace(candidate.Brand); brand != "" {
		product.Brand = &brand
	}
	if categoryName := strings.TrimSpace(candidate.CategoryName); categoryName != "" {
		product.CategoryName = &categoryName
	}
	product.CategoryID = categoryID
	return product
}

// parsePrice accepts a finite non-negative number
func parsePrice(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("price is required")
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("invalid price")
	}
	return price, nil
}

// parseStock accepts a non-negative integer
func parseStock(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("stockQuantity is required")
	}
	stock, err := strconv.Atoi(value)
	if err != nil || stock < 0 {
		return 0, fmt.Errorf("invalid stockQuantity")
	}
	return stock, nil
}

// parseFlag coerces "true" (any casing) to true, everything else to false
func parseFlag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

// splitList splits a comma-delimited cell, trims entries, drops empties
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if entry := strings.TrimSpace(part); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// normalizeList re-trims client-submitted lists; confirm input may have been
// hand-edited after preview
func normalizeList(values []string) models.StringArray {
	entries := make(models.StringArray, 0, len(values))
	for _, value := range values {
		if entry := strings.TrimSpace(value); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func normalizeDetails(details models.StringMap) models.StringMap {
	normalized := make(models.StringMap, len(details))
	for key, value := range details {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			normalized[key] = value
		}
	}
	return normalized
}

// collectDetails gathers "details."-prefixed columns into the open-ended
// details map; empty values are dropped
func collectDetails(headers []string, row map[string]string) models.StringMap {
	details := make(models.StringMap)
	for _, header := range headers {
		if !strings.HasPrefix(header, models.DetailsColumnPrefix) {
			continue
		}
		key := strings.TrimSpace(strings.TrimPrefix(header, models.DetailsColumnPrefix))
		value := strings.TrimSpace(row[header])
		if key != "" && value != "" {
			details[key] = value
		}
	}
	return details
}
