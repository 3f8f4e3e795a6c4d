package handlers

import (
	"net/http"
	"testing"

	"easypro-api/internal/middleware"
	"easypro-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newResourceRouter() *gin.Engine {
	r := gin.New()
	resources := r.Group("/easyPro/resources")
	resources.GET("", GetResources)
	resources.GET("/:id", GetResource)
	resources.POST("", middleware.ProtectAdmin(), CreateResource)
	resources.PUT("/:id", middleware.ProtectAdmin(), UpdateResource)
	resources.DELETE("/:id", middleware.ProtectAdmin(), DeleteResource)
	return r
}

func seedResource(t *testing.T, db *gorm.DB, title, subject string, rtype models.ResourceType, writerID string, tags ...string) models.Resource {
	t.Helper()
	res := models.Resource{
		Title:       title,
		Subject:     subject,
		Description: "desc",
		Type:        rtype,
		Tags:        tags,
		Link:        "https://cdn.test/" + title,
		WriterID:    writerID,
	}
	require.NoError(t, db.Create(&res).Error)
	return res
}

func TestGetResources_SearchFilterPaginate(t *testing.T) {
	db := setupDB(t)
	wendy := seedWriter(t, db, "wendy")
	otto := seedWriter(t, db, "otto")
	seedResource(t, db, "Calculus notes", "Math", models.ResourcePDF, wendy.ID, "derivatives")
	seedResource(t, db, "Cell biology", "Biology", models.ResourceVideo, otto.ID)
	seedResource(t, db, "Essay guide", "English", models.ResourcePDF, otto.ID, "writing")
	r := newResourceRouter()

	w := doJSON(r, http.MethodGet, "/easyPro/resources", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.EqualValues(t, 3, body["totalCount"])
	require.EqualValues(t, 3, body["count"])

	w = doJSON(r, http.MethodGet, "/easyPro/resources?search=derivatives", "", nil)
	body = decode(t, w)
	require.EqualValues(t, 1, body["totalCount"])
	first := body["resources"].([]any)[0].(map[string]any)
	require.Equal(t, "Calculus notes", first["title"])
	require.Equal(t, "wendy", first["author"].(map[string]any)["fullName"])

	w = doJSON(r, http.MethodGet, "/easyPro/resources?search=otto", "", nil)
	require.EqualValues(t, 2, decode(t, w)["totalCount"])

	w = doJSON(r, http.MethodGet, "/easyPro/resources?type=pdf&limit=1&sort=title&order=asc", "", nil)
	body = decode(t, w)
	require.EqualValues(t, 2, body["totalCount"])
	require.EqualValues(t, 1, body["count"])
	require.Equal(t, "Calculus notes", body["resources"].([]any)[0].(map[string]any)["title"])

	w = doJSON(r, http.MethodGet, "/easyPro/resources?subject=bio", "", nil)
	require.EqualValues(t, 1, decode(t, w)["totalCount"])
}

func TestGetResource_IncrementsViews(t *testing.T) {
	db := setupDB(t)
	wendy := seedWriter(t, db, "wendy")
	res := seedResource(t, db, "Notes", "Math", models.ResourcePDF, wendy.ID)
	r := newResourceRouter()

	for i := 1; i <= 2; i++ {
		w := doJSON(r, http.MethodGet, "/easyPro/resources/"+res.ID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.EqualValues(t, i, decode(t, w)["data"].(map[string]any)["views"])
	}

	w := doJSON(r, http.MethodGet, "/easyPro/resources/missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUpdateDeleteResource(t *testing.T) {
	db := setupDB(t)
	_, token := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	wendy := seedWriter(t, db, "wendy")
	uploader := useFakeUploader(t)
	r := newResourceRouter()

	fields := map[string]string{
		"title":       "Thesis template",
		"subject":     "Writing",
		"description": "A template",
		"type":        "other",
		"tags":        "thesis, template",
		"writerId":    wendy.ID,
	}
	w := doMultipart(t, r, http.MethodPost, "/easyPro/resources", token, fields)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "File is required", decode(t, w)["message"])

	w = doMultipart(t, r, http.MethodPost, "/easyPro/resources", token, fields, formFile{"file", "thesis.docx", "doc"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	require.Equal(t, "https://cdn.test/easyPro/resources/thesis.docx", data["link"])
	require.Equal(t, []any{"thesis", "template"}, data["tags"])
	id := data["id"].(string)

	w = doMultipart(t, r, http.MethodPut, "/easyPro/resources/"+id, token, map[string]string{"title": "Thesis template v2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = decode(t, w)["data"].(map[string]any)
	require.Equal(t, "Thesis template v2", data["title"])
	require.Equal(t, "https://cdn.test/easyPro/resources/thesis.docx", data["link"])
	require.Equal(t, []string{"easyPro/resources"}, uploader.folders)

	w = doMultipart(t, r, http.MethodPut, "/easyPro/resources/"+id, token, map[string]string{"type": "poster"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/easyPro/resources/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/easyPro/resources/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateResource_UnknownWriter(t *testing.T) {
	db := setupDB(t)
	_, token := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	useFakeUploader(t)
	r := newResourceRouter()

	w := doMultipart(t, r, http.MethodPost, "/easyPro/resources", token, map[string]string{
		"title":       "Orphan",
		"description": "no author",
		"type":        "pdf",
		"writerId":    "missing",
	}, formFile{"file", "x.pdf", "pdf"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
