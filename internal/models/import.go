package models

import "fmt"

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// DetailsColumnPrefix namespaces dynamic detail columns in the import file.
// Any column named "details.<key>" lands in CandidateProduct.Details under <key>.
const DetailsColumnPrefix = "details."

// CandidateProduct is a parsed-but-not-persisted row from an import file.
// It round-trips to the client between the preview and confirm phases; the
// server holds no state in between.
type CandidateProduct struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	CategoryName  string    `json:"categoryName,omitempty"`
	SKU           string    `json:"sku,omitempty"`
	Model         string    `json:"model,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Sizes         []string  `json:"sizes,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	IsFeatured    bool      `json:"isFeatured"`
	IsNewArrival  bool      `json:"isNewArrival"`
	IsTrending    bool      `json:"isTrending"`
	IsBestSeller  bool      `json:"isBestSeller"`
	Details       StringMap `json:"details,omitempty"`
}

// ImportRowError represents an error or warning for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e ImportRowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// ImportOutcome classifies the result of confirming a single row
type ImportOutcome string

const (
	ImportOutcomeCreated ImportOutcome = "CREATED"
	ImportOutcomeUpdated ImportOutcome = "UPDATED"
	ImportOutcomeFailed  ImportOutcome = "FAILED"
)

// ImportPreview is the result of the read-only parse phase
type ImportPreview struct {
	Candidates []CandidateProduct
	Total      int
	Errors     []ImportRowError
}

// ImportSummary aggregates per-row outcomes of the confirm phase.
// Errors carries hard failures and soft category warnings alike; only hard
// failures count toward ErrorCount.
type ImportSummary struct {
	CreatedCount int
	UpdatedCount int
	ErrorCount   int
	Errors       []ImportRowError
}

// Message renders the summary line returned to the client
func (s ImportSummary) Message() string {
	return fmt.Sprintf("Import complete: %d created, %d updated, %d errors.",
		s.CreatedCount, s.UpdatedCount, s.ErrorCount)
}

// ImportPreviewResponse is the preview endpoint payload
type ImportPreviewResponse struct {
	Success bool               `json:"success"`
	Preview []CandidateProduct `json:"preview"`
	Total   int                `json:"total"`
	Errors  []string           `json:"errors"`
}

// ImportConfirmRequest is the confirm endpoint input
type ImportConfirmRequest struct {
	Products []CandidateProduct `json:"products"`
}

// ImportConfirmResponse is the confirm endpoint payload
type ImportConfirmResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean, list
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ProductImportColumns returns the column definitions for product import
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Classic Cotton T-Shirt"},
		{Name: "description", Description: "Product description", Required: false, Type: "string", Example: ""},
		{Name: "price", Description: "Product price", Required: true, Type: "number", Example: "29.99"},
		{Name: "stockQuantity", Description: "Stock on hand", Required: true, Type: "number", Example: "100"},
		{Name: "categoryName", Description: "Category name - unmatched names import the product as inactive", Required: true, Type: "string", Example: "Apparel"},
		{Name: "sku", Description: "Product SKU - rows with a SKU update the existing product", Required: false, Type: "string", Example: "TSH-BLU-001"},
		{Name: "model", Description: "Model name", Required: false, Type: "string", Example: ""},
		{Name: "brand", Description: "Brand name", Required: false, Type: "string", Example: ""},
		{Name: "images", Description: "Comma-separated image URLs", Required: false, Type: "list", Example: "a.jpg, b.jpg"},
		{Name: "sizes", Description: "Comma-separated sizes", Required: false, Type: "list", Example: "S, M, L"},
		{Name: "colors", Description: "Comma-separated colors", Required: false, Type: "list", Example: "Red, Blue"},
		{Name: "tags", Description: "Comma-separated tags", Required: false, Type: "list", Example: ""},
		{Name: "isFeatured", Description: "true/false", Required: false, Type: "boolean", Example: "false"},
		{Name: "isNewArrival", Description: "true/false", Required: false, Type: "boolean", Example: "false"},
		{Name: "isTrending", Description: "true/false", Required: false, Type: "boolean", Example: "false"},
		{Name: "isBestSeller", Description: "true/false", Required: false, Type: "boolean", Example: "false"},
		{Name: "details.<key>", Description: "Any number of detail columns, e.g. details.material", Required: false, Type: "string", Example: "details.material = Cotton"},
	}
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}
