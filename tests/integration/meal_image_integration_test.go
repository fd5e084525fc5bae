package integration

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
	"github.com/breakfast4u/breakfast4u-api/tests/testutil"
)

// MealImageIntegrationTestSuite covers the meal photo upload path with the
// mock image backend standing in for S3.
type MealImageIntegrationTestSuite struct {
	suite.Suite
	db           *gorm.DB
	router       *gin.Engine
	owner        *models.User
	meal         *models.Meal
	imageService *services.MockImageService
}

func (suite *MealImageIntegrationTestSuite) SetupTest() {
	suite.db = testutil.OpenTestDB(suite.T())
	suite.router = apiRouter()

	suite.imageService = services.NewMockImageService()
	suite.imageService.SetAsMockForTesting()

	suite.owner = testutil.CreateUser(suite.T(), suite.db, models.RoleOwner)
	suite.meal = &models.Meal{
		Name:            "Uttapam",
		Description:     "Thick savory pancake with onion and tomato",
		Price:           55,
		Category:        "South Indian",
		TimeOfDay:       models.StringList{"Morning"},
		PreparationTime: 15,
		IsAvailable:     true,
		CreatedByID:     suite.owner.ID,
	}
	require.NoError(suite.T(), suite.db.Create(suite.meal).Error)
}

func (suite *MealImageIntegrationTestSuite) uploadImage(filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(suite.T(), err)
	_, err = part.Write(content)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/meals/%d/image", suite.meal.ID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", testutil.BearerToken(suite.T(), suite.owner))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *MealImageIntegrationTestSuite) TestUploadPNG() {
	w := suite.uploadImage("photo.png", []byte("fake png bytes"))
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	// The stored key is attached to the meal and resolvable to a URL.
	var meal models.Meal
	require.NoError(suite.T(), suite.db.First(&meal, suite.meal.ID).Error)
	assert.NotEmpty(suite.T(), meal.ImageKey)
	assert.True(suite.T(), suite.imageService.ImageExists(meal.ImageKey))

	data := decode(suite.T(), w)["data"].(map[string]interface{})
	assert.Contains(suite.T(), data["imageUrl"], meal.ImageKey)
}

func (suite *MealImageIntegrationTestSuite) TestUploadRejectsNonPNG() {
	w := suite.uploadImage("photo.jpg", []byte("fake jpg bytes"))
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var meal models.Meal
	require.NoError(suite.T(), suite.db.First(&meal, suite.meal.ID).Error)
	assert.Empty(suite.T(), meal.ImageKey)
}

func (suite *MealImageIntegrationTestSuite) TestReplacementDeletesOldImage() {
	require.Equal(suite.T(), http.StatusOK, suite.uploadImage("first.png", []byte("one")).Code)

	var meal models.Meal
	require.NoError(suite.T(), suite.db.First(&meal, suite.meal.ID).Error)
	firstKey := meal.ImageKey

	require.Equal(suite.T(), http.StatusOK, suite.uploadImage("second.png", []byte("two")).Code)
	require.NoError(suite.T(), suite.db.First(&meal, suite.meal.ID).Error)

	assert.NotEqual(suite.T(), firstKey, meal.ImageKey)
	assert.False(suite.T(), suite.imageService.ImageExists(firstKey), "Replaced image is deleted from storage")
	assert.True(suite.T(), suite.imageService.ImageExists(meal.ImageKey))
}

func (suite *MealImageIntegrationTestSuite) TestUploadRequiresOwnership() {
	otherOwner := testutil.CreateUser(suite.T(), suite.db, models.RoleOwner)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("image", "photo.png")
	part.Write([]byte("fake png bytes"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/meals/%d/image", suite.meal.ID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", testutil.BearerToken(suite.T(), otherOwner))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestMealImageIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MealImageIntegrationTestSuite))
}
