package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	cocktailHandler "cocktail-explorer/internal/api/handlers/cocktail"
	"cocktail-explorer/internal/api/middleware"
	"cocktail-explorer/internal/core/catalog"
	cocktailService "cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/core/session"
	"cocktail-explorer/internal/infrastructure/config"
	"cocktail-explorer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fullDrink 回傳目錄格式的完整記錄
func fullDrink(id, name string, ingredients ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"idDrink":%q,"strDrink":%q,"strInstructions":"Shake with ice.","strTags":"IBA,ContemporaryClassic"`, id, name)
	for i, ing := range ingredients {
		fmt.Fprintf(&b, `,"strIngredient%d":%q,"strMeasure%d":"1 oz"`, i+1, ing, i+1)
	}
	b.WriteString("}")
	return b.String()
}

// fakeCocktailDB 模擬遠端目錄
func fakeCocktailDB(t *testing.T) *httptest.Server {
	t.Helper()
	records := map[string]string{
		"11007": fullDrink("11007", "Margarita", "Tequila", "Triple sec", "Lime juice", "Salt"),
		"11118": fullDrink("11118", "Blue Margarita", "Tequila", "Blue Curacao", "Lime juice", "Salt", "Ice", "Sugar"),
		"11000": fullDrink("11000", "Mojito", "Light rum", "Lime", "Sugar", "Mint", "Soda water"),
		"17222": fullDrink("17222", "A1", "Gin", "Grand Marnier", "Lemon Juice", "Grenadine"),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/search.php":
			switch q.Get("s") {
			case "margarita":
				fmt.Fprintf(w, `{"drinks":[%s,%s]}`, records["11007"], records["11118"])
			case "broken":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				fmt.Fprint(w, `{"drinks":null}`)
			}
		case "/filter.php":
			if q.Get("i") == "Lime" {
				fmt.Fprint(w, `{"drinks":[{"idDrink":"11000","strDrink":"Mojito"},{"idDrink":"11007","strDrink":"Margarita"}]}`)
				return
			}
			fmt.Fprint(w, `{"drinks":"None Found"}`)
		case "/lookup.php":
			if rec, ok := records[q.Get("i")]; ok {
				fmt.Fprintf(w, `{"drinks":[%s]}`, rec)
				return
			}
			fmt.Fprint(w, `{"drinks":null}`)
		case "/random.php":
			fmt.Fprintf(w, `{"drinks":[%s]}`, records["17222"])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newLimitedRouter(t, nil)
}

func newLimitedRouter(t *testing.T, limiter middleware.Limiter) *gin.Engine {
	t.Helper()
	server := fakeCocktailDB(t)

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Debug: true, Version: "test"},
		Catalog: config.CatalogConfig{
			BaseURL: server.URL,
			Timeout: 5 * time.Second,
		},
		Session:     config.SessionConfig{Enabled: true, MaxSize: 10, TTL: time.Minute},
		RateLimit:   config.RateLimitConfig{Window: time.Minute},
		DedupWindow: time.Second,
	}

	client := catalog.NewClient(cfg.Catalog)
	svc := cocktailService.NewService(client, cfg.Catalog)
	sessions := session.NewStore(cfg.Session, svc.NewExplorer)
	t.Cleanup(func() { _ = sessions.Close() })

	router, err := SetupRouter(cfg, svc, sessions, limiter)
	require.NoError(t, err)
	return router
}

func request(t *testing.T, r http.Handler, method, path, body string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		// 先歸零，避免沿用上一個回應的欄位
		v := reflect.ValueOf(out).Elem()
		v.Set(reflect.Zero(v.Type()))
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func TestSetupRouter_RequiresDependencies(t *testing.T) {
	_, err := SetupRouter(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	var resp map[string]interface{}
	w := request(t, r, http.MethodGet, "/health", "", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, request(t, r, http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(t, r, http.MethodGet, "/live", "", nil).Code)
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)

	var view cocktailHandler.ViewResponse
	w := request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=margarita", "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, view.Results, 2)

	assert.Equal(t, 6, view.MaxIngredientCount)
	first := view.Results[0]
	assert.Equal(t, "Margarita", first.Name)
	require.NotNil(t, first.Difficulty)
	assert.InDelta(t, 66.67, *first.Difficulty, 0.01)
	assert.Equal(t, "Difficulty: 67%", first.DifficultyLabel)
	assert.Equal(t, []string{"IBA", "ContemporaryClassic"}, first.Tags)
	assert.Len(t, view.Results[1].Preview, 5)
	assert.Len(t, view.Results[1].Ingredients, 6)

	w = request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=margarita&max_difficulty=70", "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, view.Results, 1)
	assert.Equal(t, 2, view.Total)
}

func TestSearchEndpoint_IngredientsFilter(t *testing.T) {
	r := newTestRouter(t)

	var view cocktailHandler.ViewResponse
	w := request(t, r, http.MethodGet, "/api/v1/cocktails/search?i=Lime&i=mint", "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Mojito", view.Results[0].Name)
	assert.Equal(t, "Shake with ice.", view.Results[0].Instructions)
}

func TestSearchEndpoint_Empty(t *testing.T) {
	r := newTestRouter(t)

	var view cocktailHandler.ViewResponse
	require.Equal(t, http.StatusOK, request(t, r, http.MethodGet, "/api/v1/cocktails/search", "", &view).Code)
	assert.Empty(t, view.Results)
	assert.Equal(t, cocktailService.HintGetStarted, view.Hint)

	require.Equal(t, http.StatusOK, request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=zzz", "", &view).Code)
	assert.Empty(t, view.Results)
	assert.Equal(t, cocktailService.HintNoMatches, view.Hint)

	require.Equal(t, http.StatusOK, request(t, r, http.MethodGet, "/api/v1/cocktails/search?i=Unobtainium", "", &view).Code)
	assert.Empty(t, view.Results)
}

func TestSearchEndpoint_Errors(t *testing.T) {
	r := newTestRouter(t)

	var resp common.ErrorResponse
	w := request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=broken", "", &resp)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, common.ErrCodeCatalogUnavailable, resp.Code)
	assert.NotEmpty(t, resp.Details)

	w = request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=margarita&max_difficulty=150", "", &resp)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.ErrCodeInvalidRequest, resp.Code)

	w = request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=margarita&max_difficulty=hard", "", &resp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, v := range []string{"NaN", "nan", "Inf", "-Inf"} {
		w = request(t, r, http.MethodGet, "/api/v1/cocktails/search?s=margarita&max_difficulty="+v, "", &resp)
		assert.Equal(t, http.StatusBadRequest, w.Code, v)
		assert.Equal(t, common.ErrCodeInvalidRequest, resp.Code, v)
	}
}

func TestLookupAndRandomEndpoints(t *testing.T) {
	r := newTestRouter(t)

	var drink cocktailHandler.DrinkResponse
	w := request(t, r, http.MethodGet, "/api/v1/cocktails/11000", "", &drink)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mojito", drink.Name)
	assert.Nil(t, drink.Difficulty)

	var resp common.ErrorResponse
	w = request(t, r, http.MethodGet, "/api/v1/cocktails/999", "", &resp)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeNotFound, resp.Code)

	w = request(t, r, http.MethodGet, "/api/v1/cocktails/random", "", &drink)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "17222", drink.ID)
}

func TestSuggestEndpoint(t *testing.T) {
	r := newTestRouter(t)

	var resp cocktailHandler.SuggestResponse
	w := request(t, r, http.MethodGet, "/api/v1/ingredients/suggest?q=GIN&selected=Gin", "", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Ginger Beer"}, resp.Suggestions)

	request(t, r, http.MethodGet, "/api/v1/ingredients/suggest", "", &resp)
	assert.Equal(t, []string{}, resp.Suggestions)
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)

	var view cocktailHandler.ViewResponse
	w := request(t, r, http.MethodPost, "/api/v1/sessions", "", &view)
	require.Equal(t, http.StatusCreated, w.Code)
	id := view.SessionID
	require.NotEmpty(t, id)
	assert.Equal(t, "/api/v1/sessions/"+id, w.Header().Get("Location"))
	assert.Equal(t, cocktailService.HintGetStarted, view.Hint)

	base := "/api/v1/sessions/" + id

	w = request(t, r, http.MethodPost, base+"/ingredients", `{"name":"Lime"}`, &view)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, view.Results, 2)

	var errResp common.ErrorResponse
	w = request(t, r, http.MethodPost, base+"/ingredients", `{"name":"Lime"}`, &errResp)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, r, http.MethodPost, base+"/ingredients", `{"name":"salt"}`, &view)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "11007", view.Results[0].ID)

	var suggestions cocktailHandler.SuggestResponse
	request(t, r, http.MethodGet, base+"/suggestions?q=lim", "", &suggestions)
	assert.Equal(t, []string{"Lime Juice"}, suggestions.Suggestions)

	w = request(t, r, http.MethodPost, base+"/selection", `{"id":"11007"}`, &view)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "Margarita", view.Selected.Name)

	w = request(t, r, http.MethodPost, base+"/selection", `{"id":"42"}`, &errResp)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, r, http.MethodDelete, base+"/selection", "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, view.Selected)
	assert.NotContains(t, w.Body.String(), `"selected"`)
	assert.Len(t, view.Results, 1)

	w = request(t, r, http.MethodPut, base+"/difficulty", `{"max":10}`, &view)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, view.Results)
	assert.Equal(t, cocktailService.HintNoMatches, view.Hint)

	w = request(t, r, http.MethodPut, base+"/difficulty", `{"max":101}`, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodDelete, base+"/ingredients/salt", "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Lime"}, view.Ingredients)

	w = request(t, r, http.MethodPut, base+"/search", `{"term":"broken"}`, &view)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(view.Error, "Failed to fetch cocktails. Please try again. "))

	w = request(t, r, http.MethodPost, base+"/roll", "", &view)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "17222", view.Selected.ID)

	assert.Equal(t, http.StatusNoContent, request(t, r, http.MethodDelete, base, "", nil).Code)

	w = request(t, r, http.MethodGet, base, "", &errResp)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeSessionNotFound, errResp.Code)
}

func TestSessionCreate_Deduplicated(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/api/v1/sessions", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, request(t, r, http.MethodPost, "/api/v1/sessions", "", nil).Code)
}

func TestSetupRouter_AppliesLimiter(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(1, time.Minute)
	t.Cleanup(func() { _ = limiter.Close() })
	r := newLimitedRouter(t, limiter)

	assert.Equal(t, http.StatusOK, request(t, r, http.MethodGet, "/health", "", nil).Code)

	w := request(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
