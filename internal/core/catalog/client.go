package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cocktail-explorer/internal/infrastructure/config"
	"cocktail-explorer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// 目錄操作名稱（用於日誌與錯誤）
const (
	OpSearch = "search"
	OpFilter = "filter"
	OpLookup = "lookup"
	OpRandom = "random"
)

// maxErrorBody 錯誤回應保留的最大長度
const maxErrorBody = 512

// Client TheCocktailDB API 客戶端
type Client struct {
	client *resty.Client
}

// NewClient 創建新的目錄客戶端
func NewClient(cfg config.CatalogConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = config.DefaultCatalogBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{client: client}
}

// SearchByName 依名稱搜尋（search.php?s=）
func (c *Client) SearchByName(ctx context.Context, name string) ([]Drink, error) {
	return c.get(ctx, OpSearch, "/search.php", map[string]string{"s": name})
}

// FilterByIngredient 依單一食材篩選（filter.php?i=），回傳的記錄只有 id、名稱與縮圖
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]Drink, error) {
	return c.get(ctx, OpFilter, "/filter.php", map[string]string{"i": ingredient})
}

// LookupByID 依 id 查詢完整記錄（lookup.php?i=）
func (c *Client) LookupByID(ctx context.Context, id string) ([]Drink, error) {
	return c.get(ctx, OpLookup, "/lookup.php", map[string]string{"i": id})
}

// Random 隨機取得一筆記錄（random.php）
func (c *Client) Random(ctx context.Context) ([]Drink, error) {
	return c.get(ctx, OpRandom, "/random.php", nil)
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// get 發送 GET 請求並解析 drinks 陣列
func (c *Client) get(ctx context.Context, operation, path string, params map[string]string) ([]Drink, error) {
	start := time.Now()

	req := c.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		common.LogCatalogCall(operation, 0, time.Since(start), err)
		return nil, err
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		statusErr := &StatusError{
			Operation:  operation,
			StatusCode: status,
			Body:       truncate(strings.TrimSpace(resp.String()), maxErrorBody),
		}
		common.LogCatalogCall(operation, status, time.Since(start), statusErr)
		return nil, statusErr
	}

	drinks, err := decodeDrinks(operation, resp.Body())
	common.LogCatalogCall(operation, status, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return drinks, nil
}

// decodeDrinks 解析 { "drinks": [...] | null } 信封
func decodeDrinks(operation string, body []byte) ([]Drink, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Operation: operation, Err: errors.New("invalid JSON")}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{Operation: operation, Err: errors.New("expected a JSON object")}
	}

	list := root.Get("drinks")
	switch {
	case !list.Exists(), list.Type == gjson.Null:
		return nil, nil
	case list.Type == gjson.String:
		// 部分端點查無資料時回傳 "no data found" 字串
		common.LogDebug("Catalog returned a string in place of drinks",
			zap.String("operation", operation),
			zap.String("value", list.Str),
		)
		return nil, nil
	case !list.IsArray():
		return nil, &DecodeError{Operation: operation, Err: errors.New("drinks is not an array")}
	}

	items := list.Array()
	drinks := make([]Drink, 0, len(items))
	for i, item := range items {
		drink, err := decodeDrink(item)
		if err != nil {
			return nil, &DecodeError{Operation: operation, Err: fmt.Errorf("drinks[%d]: %w", i, err)}
		}
		drinks = append(drinks, drink)
	}
	return drinks, nil
}

// decodeDrink 解析單筆記錄
func decodeDrink(item gjson.Result) (Drink, error) {
	if !item.IsObject() {
		return Drink{}, errors.New("record is not an object")
	}

	d := Drink{
		ID:           text(item, "idDrink"),
		Name:         text(item, "strDrink"),
		Thumbnail:    text(item, "strDrinkThumb"),
		Category:     text(item, "strCategory"),
		Glass:        text(item, "strGlass"),
		Alcoholic:    text(item, "strAlcoholic"),
		Instructions: text(item, "strInstructions"),
		Tags:         text(item, "strTags"),
		IBA:          text(item, "strIBA"),
		Alternate:    text(item, "strDrinkAlternate"),
		DateModified: text(item, "dateModified"),
	}
	if d.ID == "" {
		return Drink{}, errors.New("record has no idDrink")
	}

	// 掃描所有欄位，不因中間缺漏而停止
	for n := 1; n <= IngredientSlots; n++ {
		d.Ingredients[n-1] = text(item, ingredientKey(n))
		d.Measures[n-1] = text(item, measureKey(n))
	}
	return d, nil
}

// text 讀取字串欄位，null 或不存在時回傳空字串
func text(item gjson.Result, key string) string {
	v := item.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
