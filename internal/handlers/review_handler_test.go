package handlers

import (
	"net/http"
	"testing"

	"easypro-api/internal/middleware"
	"easypro-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newReviewRouter() *gin.Engine {
	r := gin.New()
	reviews := r.Group("/easyPro/reviews")
	reviews.POST("", middleware.ProtectUser(), CreateReview)
	reviews.GET("/writer/:writerId", GetWriterReviews)
	return r
}

func review(writerID string, score int) gin.H {
	return gin.H{
		"followingInstructions": score,
		"grammar":               score,
		"responseSpeed":         score,
		"formatting":            score,
		"other":                 score,
		"writerId":              writerID,
		"subject":               "History",
		"paperType":             "Essay",
	}
}

func TestCreateReview_UpdatesWriterRating(t *testing.T) {
	db := setupDB(t)
	_, token := seedUser(t, db, "alice@example.com", models.RoleUser)
	writer := seedWriter(t, db, "wendy")
	r := newReviewRouter()

	w := doJSON(r, http.MethodPost, "/easyPro/reviews", token, review(writer.ID, 5))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.EqualValues(t, 5, decode(t, w)["writerRating"])

	w = doJSON(r, http.MethodPost, "/easyPro/reviews", token, review(writer.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)

	var stored models.Writer
	require.NoError(t, db.First(&stored, "id = ?", writer.ID).Error)
	require.InDelta(t, 3.5, stored.Rating, 1e-9)

	w = doJSON(r, http.MethodGet, "/easyPro/reviews/writer/"+writer.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 2, decode(t, w)["count"])
}

func TestCreateReview_Validation(t *testing.T) {
	db := setupDB(t)
	_, token := seedUser(t, db, "alice@example.com", models.RoleUser)
	writer := seedWriter(t, db, "wendy")
	r := newReviewRouter()

	w := doJSON(r, http.MethodPost, "/easyPro/reviews", token, review(writer.ID, 6))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/easyPro/reviews", token, review("missing", 4))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/easyPro/reviews", "", review(writer.ID, 4))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
