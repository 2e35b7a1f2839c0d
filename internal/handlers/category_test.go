package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/ymatsuda/todo-api/internal/constants"
	"github.com/ymatsuda/todo-api/internal/dto"
	"github.com/ymatsuda/todo-api/internal/models"
	"github.com/ymatsuda/todo-api/internal/repository"
	"github.com/ymatsuda/todo-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CategoryHandlerTestSuite defines the test suite for CategoryHandler
type CategoryHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *CategoryHandler
	todoHandler *TodoHandler
}

// SetupTest runs before each test
func (suite *CategoryHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Todo{},
		&models.Category{},
		&models.TodoCategory{},
	)
	suite.Require().NoError(err)

	todoRepo := repository.NewTodoRepository(suite.db)
	categoryRepo := repository.NewCategoryRepository(suite.db)
	associations := services.NewAssociationService(todoRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	todoService := services.NewTodoService(todoRepo, associations)

	suite.handler = NewCategoryHandler(categoryService, associations)
	suite.todoHandler = NewTodoHandler(todoService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CategoryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *CategoryHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Name:         "Test User",
	}
	suite.db.Create(user)
	return user
}

func (suite *CategoryHandlerTestSuite) createTestTodo(title string, userID uint64) *models.Todo {
	todo := &models.Todo{
		UserID:   userID,
		Title:    title,
		Priority: models.PriorityMedium,
	}
	suite.db.Create(todo)
	return todo
}

func (suite *CategoryHandlerTestSuite) createTestCategory(name string, userID uint64) *models.Category {
	category := &models.Category{
		UserID: userID,
		Name:   name,
		Color:  "#3b82f6",
	}
	suite.db.Create(category)
	return category
}

func (suite *CategoryHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *CategoryHandlerTestSuite) setIDParam(c *gin.Context, id any) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%v", id)}}
}

func (suite *CategoryHandlerTestSuite) setLinkParams(c *gin.Context, todoID, categoryID uint64) {
	c.Params = gin.Params{
		{Key: "todoId", Value: fmt.Sprintf("%d", todoID)},
		{Key: "categoryId", Value: fmt.Sprintf("%d", categoryID)},
	}
}

func (suite *CategoryHandlerTestSuite) countLinks() int64 {
	var count int64
	suite.db.Model(&models.TodoCategory{}).Count(&count)
	return count
}

// TestCreateCategory_DefaultColor checks the default accent color
func (suite *CategoryHandlerTestSuite) TestCreateCategory_DefaultColor() {
	user := suite.createTestUser("a@x.com")

	body, _ := json.Marshal(map[string]any{"name": "Work"})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var category dto.CategoryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(suite.T(), "Work", category.Name)
	assert.Equal(suite.T(), "#3b82f6", category.Color)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_TrimsName() {
	user := suite.createTestUser("a@x.com")

	body, _ := json.Marshal(map[string]any{"name": "  Work  "})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var category dto.CategoryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(suite.T(), "Work", category.Name)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_EmptyName() {
	user := suite.createTestUser("a@x.com")

	body, _ := json.Marshal(map[string]any{"name": "   "})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestCreateCategory_InvalidColor() {
	user := suite.createTestUser("a@x.com")

	body, _ := json.Marshal(map[string]any{"name": "Work", "color": "zzzzzz"})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestUpdateCategory_InvalidColor() {
	user := suite.createTestUser("a@x.com")
	category := suite.createTestCategory("Work", user.ID)

	body, _ := json.Marshal(map[string]any{"color": "zzzzzz"})
	c, w := suite.createAuthContext("PUT", "/api/categories/1", body, user.ID)
	suite.setIDParam(c, category.ID)

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestUpdateCategory_PartialFields() {
	user := suite.createTestUser("a@x.com")
	category := suite.createTestCategory("Work", user.ID)

	body, _ := json.Marshal(map[string]any{"color": "#FF0000"})
	c, w := suite.createAuthContext("PUT", "/api/categories/1", body, user.ID)
	suite.setIDParam(c, category.ID)

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated dto.CategoryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(suite.T(), "Work", updated.Name)
	assert.Equal(suite.T(), "#FF0000", updated.Color)
}

func (suite *CategoryHandlerTestSuite) TestGetCategory_OtherOwner() {
	user := suite.createTestUser("a@x.com")
	other := suite.createTestUser("b@x.com")
	category := suite.createTestCategory("Private", user.ID)

	c, w := suite.createAuthContext("GET", "/api/categories/1", nil, other.ID)
	suite.setIDParam(c, category.ID)

	suite.handler.GetCategory(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestLinkTodo_Idempotent: a second identical link request succeeds and
// leaves exactly one association row.
func (suite *CategoryHandlerTestSuite) TestLinkTodo_Idempotent() {
	user := suite.createTestUser("a@x.com")
	todo := suite.createTestTodo("Buy milk", user.ID)
	category := suite.createTestCategory("Errands", user.ID)

	for i := 0; i < 2; i++ {
		c, w := suite.createAuthContext("POST", "/api/categories/todos/1/categories/1", nil, user.ID)
		suite.setLinkParams(c, todo.ID, category.ID)

		suite.handler.LinkTodo(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	}

	assert.EqualValues(suite.T(), 1, suite.countLinks())
}

func (suite *CategoryHandlerTestSuite) TestLinkTodo_CrossOwner() {
	user := suite.createTestUser("a@x.com")
	other := suite.createTestUser("b@x.com")
	todo := suite.createTestTodo("Buy milk", user.ID)
	theirs := suite.createTestCategory("Theirs", other.ID)

	c, w := suite.createAuthContext("POST", "/api/categories/todos/1/categories/1", nil, user.ID)
	suite.setLinkParams(c, todo.ID, theirs.ID)

	suite.handler.LinkTodo(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.EqualValues(suite.T(), 0, suite.countLinks())
}

func (suite *CategoryHandlerTestSuite) TestUnlinkTodo_AbsentLink() {
	user := suite.createTestUser("a@x.com")
	todo := suite.createTestTodo("Buy milk", user.ID)
	category := suite.createTestCategory("Errands", user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/categories/todos/1/categories/1", nil, user.ID)
	suite.setLinkParams(c, todo.ID, category.ID)

	suite.handler.UnlinkTodo(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *CategoryHandlerTestSuite) TestUnlinkTodo_ExistingLink() {
	user := suite.createTestUser("a@x.com")
	todo := suite.createTestTodo("Buy milk", user.ID)
	category := suite.createTestCategory("Errands", user.ID)
	suite.db.Create(&models.TodoCategory{TodoID: todo.ID, CategoryID: category.ID})

	c, w := suite.createAuthContext("DELETE", "/api/categories/todos/1/categories/1", nil, user.ID)
	suite.setLinkParams(c, todo.ID, category.ID)

	suite.handler.UnlinkTodo(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.EqualValues(suite.T(), 0, suite.countLinks())
}

// TestDeleteCategory_RemovesFromTodos: the category disappears from todo
// hydration, but the todos themselves survive.
func (suite *CategoryHandlerTestSuite) TestDeleteCategory_RemovesFromTodos() {
	user := suite.createTestUser("a@x.com")
	todo := suite.createTestTodo("Buy milk", user.ID)
	category := suite.createTestCategory("Errands", user.ID)
	suite.db.Create(&models.TodoCategory{TodoID: todo.ID, CategoryID: category.ID})

	c, w := suite.createAuthContext("DELETE", "/api/categories/1", nil, user.ID)
	suite.setIDParam(c, category.ID)

	suite.handler.DeleteCategory(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	c, w = suite.createAuthContext("GET", "/api/todos/1", nil, user.ID)
	suite.setIDParam(c, todo.ID)

	suite.todoHandler.GetTodo(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var hydrated dto.TodoDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &hydrated))
	assert.Empty(suite.T(), hydrated.Categories)

	var todoCount int64
	suite.db.Model(&models.Todo{}).Count(&todoCount)
	assert.EqualValues(suite.T(), 1, todoCount)
}

func (suite *CategoryHandlerTestSuite) TestDeleteCategory_NotFound() {
	user := suite.createTestUser("a@x.com")

	c, w := suite.createAuthContext("DELETE", "/api/categories/999", nil, user.ID)
	suite.setIDParam(c, 999)

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestCategoryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerTestSuite))
}
