package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// MockProductStore is a mock implementation of ProductStore
type MockProductStore struct {
	mock.Mock
}

var _ ProductStore = (*MockProductStore)(nil)

func (m *MockProductStore) UpsertBySKU(product *models.Product) (*models.Product, bool, error) {
	args := m.Called(product)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Product), args.Bool(1), args.Error(2)
}

func (m *MockProductStore) CreateProduct(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

// MockCategoryStore is a mock implementation of CategoryStore
type MockCategoryStore struct {
	mock.Mock
}

var _ CategoryStore = (*MockCategoryStore)(nil)

func (m *MockCategoryStore) FindByName(name string) (*models.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func newTestService(products *MockProductStore, categories *MockCategoryStore) *ImportService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewImportService(products, categories, logger)
}

func TestParseCSV_ValidRows(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := `name,description,price,stockQuantity,categoryName,sku,brand,images,isFeatured
Classic Tee,Soft cotton tee,19.99,100,Apparel,TEE-001,Acme," a.jpg, b.jpg ,, c.jpg ",TRUE
Running Shoes,,89.5,25,Footwear,SHOE-001,Stride,,false
`

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Equal(t, 2, preview.Total)
	assert.Empty(t, preview.Errors)
	assert.Len(t, preview.Candidates, 2)

	first := preview.Candidates[0]
	assert.Equal(t, "Classic Tee", first.Name)
	assert.Equal(t, 19.99, first.Price)
	assert.Equal(t, 100, first.StockQuantity)
	assert.Equal(t, "Apparel", first.CategoryName)
	assert.Equal(t, "TEE-001", first.SKU)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, first.Images)
	assert.True(t, first.IsFeatured)

	second := preview.Candidates[1]
	assert.Equal(t, "Running Shoes", second.Name)
	assert.False(t, second.IsFeatured)
	assert.Empty(t, second.Images)
}

func TestParseCSV_RowNumbersMatchSpreadsheet(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := `name,price,stockQuantity,categoryName
Good Row,10,5,Apparel
,10,5,Apparel
Another Good Row,10,5,Apparel
`

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Equal(t, 3, preview.Total)
	assert.Len(t, preview.Candidates, 2)
	// Header is row 1, so the failing second data row is row 3
	assert.Len(t, preview.Errors, 1)
	assert.Equal(t, 3, preview.Errors[0].Row)
	assert.Equal(t, "Row 3: name is required", preview.Errors[0].String())
}

func TestParseCSV_CollectsEveryErrorPerRow(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := `name,price,stockQuantity,categoryName
,-5,many,
`

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Empty(t, preview.Candidates)
	assert.Equal(t, 1, preview.Total)

	messages := make([]string, 0, len(preview.Errors))
	for _, rowErr := range preview.Errors {
		assert.Equal(t, 2, rowErr.Row)
		messages = append(messages, rowErr.Message)
	}
	assert.Equal(t, []string{
		"name is required",
		"price must be a non-negative number",
		"stockQuantity must be a non-negative integer",
		"categoryName is required",
	}, messages)
}

func TestParseCSV_FailedRowsExcludedButCounted(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := `name,price,stockQuantity,categoryName
Valid,12,3,Apparel
Broken,abc,3,Apparel
`

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Equal(t, 2, preview.Total)
	assert.Len(t, preview.Candidates, 1)
	assert.Equal(t, "Valid", preview.Candidates[0].Name)
}

func TestParseCSV_MalformedFileFailsWholeParse(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := "name,price,stockQuantity,categoryName\n\"unterminated,12,3,Apparel\n"

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.Error(t, err)
	assert.Nil(t, preview)
}

func TestParseCSV_DetailsColumns(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := `name,price,stockQuantity,categoryName,details.material,details.origin,details.empty
Classic Tee,19.99,100,Apparel,Cotton,Portugal,
`

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Len(t, preview.Candidates, 1)
	assert.Equal(t, models.StringMap{
		"material": "Cotton",
		"origin":   "Portugal",
	}, preview.Candidates[0].Details)
}

func TestParseCSV_BooleanCoercion(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	csvData := `name,price,stockQuantity,categoryName,isFeatured,isNewArrival,isTrending,isBestSeller
Tee,10,1,Apparel,TRUE,True,true,yes
`

	preview, err := service.ParseCSV(strings.NewReader(csvData))

	assert.NoError(t, err)
	candidate := preview.Candidates[0]
	assert.True(t, candidate.IsFeatured)
	assert.True(t, candidate.IsNewArrival)
	assert.True(t, candidate.IsTrending)
	// Anything that is not "true" is false, including "yes"
	assert.False(t, candidate.IsBestSeller)
}

func TestConfirm_CreateWithSKU(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	categories.On("FindByName", "Apparel").Return(category, nil)
	products.On("UpsertBySKU", mock.AnythingOfType("*models.Product")).Return(&models.Product{}, false, nil)

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "Classic Tee", Price: 19.99, StockQuantity: 100, CategoryName: "Apparel", SKU: "TEE-001"},
	})

	assert.Equal(t, 1, summary.CreatedCount)
	assert.Equal(t, 0, summary.UpdatedCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, "Import complete: 1 created, 0 updated, 0 errors.", summary.Message())

	persisted := products.Calls[0].Arguments.Get(0).(*models.Product)
	assert.True(t, persisted.IsActive)
	assert.Equal(t, &category.ID, persisted.CategoryID)
	products.AssertExpectations(t)
}

func TestConfirm_UpdateWhenSKUMatches(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	categories.On("FindByName", "Apparel").Return(category, nil)
	products.On("UpsertBySKU", mock.AnythingOfType("*models.Product")).Return(&models.Product{}, true, nil)

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "Classic Tee", Price: 24.99, StockQuantity: 50, CategoryName: "Apparel", SKU: "TEE-001"},
	})

	assert.Equal(t, 0, summary.CreatedCount)
	assert.Equal(t, 1, summary.UpdatedCount)
	assert.Equal(t, "Import complete: 0 created, 1 updated, 0 errors.", summary.Message())
}

func TestConfirm_NoSKUAlwaysCreates(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	categories.On("FindByName", "Apparel").Return(category, nil)
	products.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(nil)

	candidate := models.CandidateProduct{Name: "Tee", Price: 10, StockQuantity: 1, CategoryName: "Apparel"}

	first := service.Confirm([]models.CandidateProduct{candidate})
	second := service.Confirm([]models.CandidateProduct{candidate})

	assert.Equal(t, 1, first.CreatedCount)
	assert.Equal(t, 1, second.CreatedCount)
	products.AssertNumberOfCalls(t, "CreateProduct", 2)
	products.AssertNotCalled(t, "UpsertBySKU")
}

func TestConfirm_UnmatchedCategoryImportsInactive(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	categories.On("FindByName", "Ghost").Return(nil, gorm.ErrRecordNotFound)
	products.On("UpsertBySKU", mock.AnythingOfType("*models.Product")).Return(&models.Product{}, false, nil)

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "Tee", Price: 10, StockQuantity: 1, CategoryName: "Ghost", SKU: "TEE-001"},
	})

	// Soft failure: the product is persisted inactive and the warning does
	// not count toward errorCount
	assert.Equal(t, 1, summary.CreatedCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Len(t, summary.Errors, 1)
	assert.Equal(t, `Row 1: Tee: category "Ghost" not found, product imported as inactive`, summary.Errors[0].String())

	persisted := products.Calls[0].Arguments.Get(0).(*models.Product)
	assert.False(t, persisted.IsActive)
	assert.Nil(t, persisted.CategoryID)
}

func TestConfirm_BlankCategoryImportsInactive(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	products.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(nil)

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "Tee", Price: 10, StockQuantity: 1},
	})

	assert.Equal(t, 1, summary.CreatedCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Len(t, summary.Errors, 1)
	assert.Equal(t, "Row 1: Tee: no category provided, product imported as inactive", summary.Errors[0].String())
	categories.AssertNotCalled(t, "FindByName")

	persisted := products.Calls[0].Arguments.Get(0).(*models.Product)
	assert.False(t, persisted.IsActive)
}

func TestConfirm_CategoryLookupFailureIsHardError(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	categories.On("FindByName", "Apparel").Return(nil, errors.New("connection refused"))

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "Tee", Price: 10, StockQuantity: 1, CategoryName: "Apparel", SKU: "TEE-001"},
	})

	assert.Equal(t, 0, summary.CreatedCount)
	assert.Equal(t, 1, summary.ErrorCount)
	assert.Len(t, summary.Errors, 1)
	products.AssertNotCalled(t, "UpsertBySKU")
	products.AssertNotCalled(t, "CreateProduct")
}

func TestConfirm_RowFailureDoesNotAbortRemainingRows(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	categories.On("FindByName", "Apparel").Return(category, nil)
	products.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(nil)

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "First", Price: 10, StockQuantity: 1, CategoryName: "Apparel"},
		{Name: "", Price: 10, StockQuantity: 1, CategoryName: "Apparel"},
		{Name: "Third", Price: -1, StockQuantity: 1, CategoryName: "Apparel"},
		{Name: "Fourth", Price: 10, StockQuantity: 1, CategoryName: "Apparel"},
	})

	assert.Equal(t, 2, summary.CreatedCount)
	assert.Equal(t, 2, summary.ErrorCount)
	assert.Equal(t, "Row 2: name is required", summary.Errors[0].String())
	assert.Equal(t, "Row 3: Third: price must be a non-negative number", summary.Errors[1].String())
	assert.Equal(t, "Import complete: 2 created, 0 updated, 2 errors.", summary.Message())
}

func TestConfirm_DuplicateSKUsApplySequentially(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	categories.On("FindByName", "Apparel").Return(category, nil)
	products.On("UpsertBySKU", mock.AnythingOfType("*models.Product")).Return(&models.Product{}, false, nil).Once()
	products.On("UpsertBySKU", mock.AnythingOfType("*models.Product")).Return(&models.Product{}, true, nil).Once()

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "Tee v1", Price: 10, StockQuantity: 1, CategoryName: "Apparel", SKU: "TEE-001"},
		{Name: "Tee v2", Price: 12, StockQuantity: 2, CategoryName: "Apparel", SKU: "TEE-001"},
	})

	assert.Equal(t, 1, summary.CreatedCount)
	assert.Equal(t, 1, summary.UpdatedCount)

	first := products.Calls[0].Arguments.Get(0).(*models.Product)
	second := products.Calls[1].Arguments.Get(0).(*models.Product)
	assert.Equal(t, "Tee v1", first.Name)
	assert.Equal(t, "Tee v2", second.Name)
}

func TestConfirm_CategoryResolvedPerRow(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	// The category appears between the two rows of the same batch
	categories.On("FindByName", "Apparel").Return(nil, gorm.ErrRecordNotFound).Once()
	categories.On("FindByName", "Apparel").Return(category, nil).Once()
	products.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(nil)

	summary := service.Confirm([]models.CandidateProduct{
		{Name: "First", Price: 10, StockQuantity: 1, CategoryName: "Apparel"},
		{Name: "Second", Price: 10, StockQuantity: 1, CategoryName: "Apparel"},
	})

	assert.Equal(t, 2, summary.CreatedCount)
	assert.Len(t, summary.Errors, 1)

	first := products.Calls[0].Arguments.Get(0).(*models.Product)
	second := products.Calls[1].Arguments.Get(0).(*models.Product)
	assert.False(t, first.IsActive)
	assert.True(t, second.IsActive)
	categories.AssertNumberOfCalls(t, "FindByName", 2)
}

func TestConfirm_NormalizesListsAndDetails(t *testing.T) {
	products := &MockProductStore{}
	categories := &MockCategoryStore{}
	service := newTestService(products, categories)

	category := &models.Category{ID: uuid.New(), Name: "Apparel"}
	categories.On("FindByName", "Apparel").Return(category, nil)
	products.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(nil)

	service.Confirm([]models.CandidateProduct{
		{
			Name:          "Tee",
			Price:         10,
			StockQuantity: 1,
			CategoryName:  "Apparel",
			Images:        []string{" a.jpg ", "", "b.jpg"},
			Details:       models.StringMap{" material ": " Cotton ", "empty": "  "},
		},
	})

	persisted := products.Calls[0].Arguments.Get(0).(*models.Product)
	assert.Equal(t, models.StringArray{"a.jpg", "b.jpg"}, persisted.Images)
	assert.Equal(t, models.StringMap{"material": "Cotton"}, persisted.Details)
}

func TestConfirm_EmptyBatch(t *testing.T) {
	service := newTestService(&MockProductStore{}, &MockCategoryStore{})

	summary := service.Confirm(nil)

	assert.Equal(t, 0, summary.CreatedCount)
	assert.Equal(t, 0, summary.UpdatedCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Equal(t, "Import complete: 0 created, 0 updated, 0 errors.", summary.Message())
}
