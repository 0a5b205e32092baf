package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

// fakeProductStore keeps upserted products in memory keyed by SKU
type fakeProductStore struct {
	bySKU   map[string]*models.Product
	created []*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{bySKU: make(map[string]*models.Product)}
}

func (s *fakeProductStore) UpsertBySKU(product *models.Product) (*models.Product, bool, error) {
	sku := *product.SKU
	_, matched := s.bySKU[sku]
	s.bySKU[sku] = product
	return product, matched, nil
}

func (s *fakeProductStore) CreateProduct(product *models.Product) error {
	s.created = append(s.created, product)
	return nil
}

// fakeCategoryStore resolves a fixed set of category names
type fakeCategoryStore struct {
	categories map[string]*models.Category
}

func (s *fakeCategoryStore) FindByName(name string) (*models.Category, error) {
	if category, ok := s.categories[name]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func setupImportRouter(products *fakeProductStore, categories *fakeCategoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	importService := services.NewImportService(products, categories, logger)
	handler := NewImportHandler(importService)

	router := gin.New()
	router.GET("/import/template", handler.GetImportTemplate)
	router.POST("/import/preview", handler.PreviewImport)
	router.POST("/import/confirm", handler.ConfirmImport)
	return router
}

func uploadCSV(t *testing.T, router *gin.Engine, content string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "products.csv")
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/preview", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPreviewImport_ReturnsCandidatesAndRowErrors(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	csvData := `name,price,stockQuantity,categoryName,sku
Classic Tee,19.99,100,Apparel,TEE-001
,10,5,Apparel,BAD-001
`

	w := uploadCSV(t, router, csvData)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ImportPreviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Preview, 1)
	assert.Equal(t, "Classic Tee", resp.Preview[0].Name)
	assert.Equal(t, []string{"Row 3: name is required"}, resp.Errors)
}

func TestPreviewImport_FileRequired(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	req := httptest.NewRequest(http.MethodPost, "/import/preview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FILE_REQUIRED", resp.Error.Code)
}

func TestPreviewImport_RejectsUnknownExtension(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "products.pdf")
	part.Write([]byte("not a spreadsheet"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/import/preview", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_FORMAT", resp.Error.Code)
}

func TestPreviewImport_MalformedCSV(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	w := uploadCSV(t, router, "name,price,stockQuantity,categoryName\n\"broken,1,2,Apparel\n")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PARSE_ERROR", resp.Error.Code)
}

func TestConfirmImport_CreatesThenUpdates(t *testing.T) {
	products := newFakeProductStore()
	categories := &fakeCategoryStore{categories: map[string]*models.Category{
		"Apparel": {ID: uuid.New(), Name: "Apparel"},
	}}
	router := setupImportRouter(products, categories)

	payload := models.ImportConfirmRequest{
		Products: []models.CandidateProduct{
			{Name: "Classic Tee", Price: 19.99, StockQuantity: 100, CategoryName: "Apparel", SKU: "TEE-001"},
		},
	}
	body, _ := json.Marshal(payload)

	confirm := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/import/confirm", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// First confirm creates, an identical second confirm updates in place
	first := confirm()
	assert.Equal(t, http.StatusOK, first.Code)
	var firstResp models.ImportConfirmResponse
	assert.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	assert.True(t, firstResp.Success)
	assert.Equal(t, "Import complete: 1 created, 0 updated, 0 errors.", firstResp.Message)
	assert.Empty(t, firstResp.Errors)

	second := confirm()
	var secondResp models.ImportConfirmResponse
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	assert.Equal(t, "Import complete: 0 created, 1 updated, 0 errors.", secondResp.Message)

	assert.Len(t, products.bySKU, 1)
}

func TestConfirmImport_SoftCategoryFailureReportedInBand(t *testing.T) {
	products := newFakeProductStore()
	router := setupImportRouter(products, &fakeCategoryStore{})

	payload := models.ImportConfirmRequest{
		Products: []models.CandidateProduct{
			{Name: "Tee", Price: 10, StockQuantity: 1, CategoryName: "Ghost", SKU: "TEE-001"},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/import/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ImportConfirmResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Import complete: 1 created, 0 updated, 0 errors.", resp.Message)
	assert.Equal(t, []string{`Row 1: Tee: category "Ghost" not found, product imported as inactive`}, resp.Errors)
	assert.False(t, products.bySKU["TEE-001"].IsActive)
}

func TestConfirmImport_EmptyBatchRejected(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	body, _ := json.Marshal(models.ImportConfirmRequest{Products: []models.CandidateProduct{}})
	req := httptest.NewRequest(http.MethodPost, "/import/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EMPTY_IMPORT", resp.Error.Code)
}

func TestGetImportTemplate_CSV(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/import/template?format=csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "name,description,price,stockQuantity,categoryName")
	// The details.<key> placeholder is documentation only
	assert.NotContains(t, w.Body.String(), "details.<key>")
}

func TestGetImportTemplate_JSON(t *testing.T) {
	router := setupImportRouter(newFakeProductStore(), &fakeCategoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/import/template", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool                  `json:"success"`
		Template models.ImportTemplate `json:"template"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Template.Columns)
	assert.Equal(t, "name", resp.Template.Columns[0].Name)
}
