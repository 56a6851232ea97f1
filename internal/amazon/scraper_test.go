package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benri/internal/logging"
)

const searchPage = `<html><body>
<div data-component-type="s-search-result">
  <h2>ノートパソコン 15.6インチ</h2>
  <a class="a-link-normal" href="/dp/B000000001">1,234</a>
  <span class="a-price-whole">45,800</span>
  <span class="a-icon-alt">5つ星のうち4.3</span>
  <img class="s-image" src="https://img.example/1.jpg"/>
</div>
<div data-component-type="s-search-result">
  <h2>ノートパソコン 14インチ</h2>
  <a class="a-link-normal" href="https://www.example.com/dp/B000000002">567</a>
  <span class="a-offscreen">￥52,000</span>
</div>
<div data-component-type="s-search-result">
  <h2>third</h2>
</div>
</body></html>`

const productPage = `<html><body>
<span id="productTitle"> テスト商品 プレミアム </span>
<span id="priceblock_ourprice">￥9,980</span>
<span id="acrPopover">5つ星のうち4.7</span>
<span id="acrCustomerReviewText">321個の評価</span>
<div id="availability"><span> 在庫あり。 </span></div>
<div id="feature-bullets">
  <span class="a-list-item">軽量設計</span>
  <span class="a-list-item">長時間バッテリー</span>
</div>
<img id="landingImage" src="https://img.example/main.jpg"/>
</body></html>`

func newTestScraper(t *testing.T, handler http.Handler) *Scraper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewScraper(logging.Nop(),
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithDelay(0))
}

func TestSearchParsesResults(t *testing.T) {
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/s", r.URL.Path)
		assert.Equal(t, "ノートパソコン", r.URL.Query().Get("k"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		fmt.Fprint(w, searchPage)
	}))

	products, err := s.Search(context.Background(), "ノートパソコン", 10)
	require.NoError(t, err)
	require.Len(t, products, 3)

	first := products[0]
	assert.Equal(t, "ノートパソコン 15.6インチ", first.Title)
	assert.Equal(t, "45,800", first.Price)
	assert.Equal(t, "4.3", first.Rating)
	assert.Equal(t, "1,234", first.ReviewCount)
	assert.Equal(t, "https://img.example/1.jpg", first.ImageURL)
	assert.Equal(t, s.baseURL+"/dp/B000000001", first.URL)

	// Absolute hrefs pass through and the offscreen price is the fallback.
	assert.Equal(t, "https://www.example.com/dp/B000000002", products[1].URL)
	assert.Equal(t, "￥52,000", products[1].Price)

	// Missing fields stay empty rather than failing the whole page.
	assert.Equal(t, "third", products[2].Title)
	assert.Empty(t, products[2].Price)
}

func TestSearchHonorsMaxResults(t *testing.T) {
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage)
	}))

	products, err := s.Search(context.Background(), "pc", 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestSearchRequiresKeyword(t *testing.T) {
	s := NewScraper(logging.Nop(), WithDelay(0))
	_, err := s.Search(context.Background(), "  ", 5)
	assert.Error(t, err)
}

func TestSearchSurfacesHTTPError(t *testing.T) {
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "captcha", http.StatusServiceUnavailable)
	}))

	_, err := s.Search(context.Background(), "pc", 5)
	assert.ErrorContains(t, err, "503")
}

func TestProductParsesDetailPage(t *testing.T) {
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage)
	}))

	p, err := s.Product(context.Background(), s.baseURL+"/dp/B000000001")
	require.NoError(t, err)
	assert.Equal(t, "テスト商品 プレミアム", p.Title)
	assert.Equal(t, "￥9,980", p.Price)
	assert.Equal(t, "4.7", p.Rating)
	assert.Equal(t, "321個の評価", p.ReviewCount)
	assert.Equal(t, "在庫あり。", p.Availability)
	assert.Equal(t, "軽量設計\n長時間バッテリー", p.Description)
	assert.Equal(t, "https://img.example/main.jpg", p.ImageURL)
}

func TestProductTitleFallback(t *testing.T) {
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1 class="a-size-large">代替タイトル</h1></body></html>`)
	}))

	p, err := s.Product(context.Background(), s.baseURL+"/dp/B0")
	require.NoError(t, err)
	assert.Equal(t, "代替タイトル", p.Title)
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	products := []Product{{Title: "テスト", Price: "￥100"}}
	require.NoError(t, SaveJSON(products, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded []Product
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, products, loaded)
}

func TestSleepRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleepCtx(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}
