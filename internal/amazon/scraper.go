package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	benrierrors "benri/internal/errors"
	"benri/internal/httpclient"
	"benri/internal/logging"
)

const (
	// DefaultBaseURL targets the Japanese storefront.
	DefaultBaseURL = "https://www.amazon.co.jp"

	// DefaultDelay is the pause between page fetches.
	DefaultDelay = time.Second

	unknownTitle = "タイトル不明"
)

// browserHeaders make requests look like a desktop browser session.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "ja,en-US;q=0.9,en;q=0.8",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

var ratingPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// Product holds the fields scraped for a single listing.
type Product struct {
	Title        string `json:"title"`
	Price        string `json:"price,omitempty"`
	Rating       string `json:"rating,omitempty"`
	ReviewCount  string `json:"review_count,omitempty"`
	Availability string `json:"availability,omitempty"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Scraper fetches and parses Amazon listing pages.
type Scraper struct {
	baseURL string
	delay   time.Duration
	http    *http.Client
	logger  logging.Logger
	sleep   func(ctx context.Context, d time.Duration)
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithBaseURL overrides the storefront base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithDelay sets the pause between page fetches.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) { s.delay = d }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) { s.http = hc }
}

// NewScraper builds a Scraper with browser-like headers and a polite
// inter-request delay.
func NewScraper(logger logging.Logger, opts ...Option) *Scraper {
	s := &Scraper{
		baseURL: DefaultBaseURL,
		delay:   DefaultDelay,
		http:    httpclient.New(10 * time.Second),
		logger:  logging.OrNop(logger),
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: %w", pageURL,
			&benrierrors.HTTPStatusError{Status: resp.StatusCode})
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// Search scrapes the keyword search page and returns up to maxResults
// products.
func (s *Scraper) Search(ctx context.Context, keyword string, maxResults int) ([]Product, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	searchURL := s.baseURL + "/s?k=" + url.QueryEscape(keyword)
	doc, err := s.fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var products []Product
	doc.Find(`div[data-component-type="s-search-result"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		products = append(products, s.extractSearchResult(sel))
		return len(products) < maxResults
	})

	s.logger.Info("amazon search %q returned %d products", keyword, len(products))
	s.sleep(ctx, s.delay)
	return products, nil
}

// Product scrapes a single product detail page.
func (s *Scraper) Product(ctx context.Context, productURL string) (*Product, error) {
	doc, err := s.fetch(ctx, productURL)
	if err != nil {
		return nil, err
	}

	p := &Product{
		Title:        extractTitle(doc),
		Price:        extractPagePrice(doc),
		Rating:       extractRating(doc.Find("#acrPopover, span.a-icon-alt").First()),
		ReviewCount:  strings.TrimSpace(doc.Find("#acrCustomerReviewText").First().Text()),
		Availability: strings.TrimSpace(doc.Find("#availability span").First().Text()),
		Description:  extractDescription(doc),
		ImageURL:     extractImageURL(doc),
		URL:          productURL,
	}
	s.sleep(ctx, s.delay)
	return p, nil
}

func (s *Scraper) extractSearchResult(sel *goquery.Selection) Product {
	title := strings.TrimSpace(sel.Find("h2").First().Text())
	if title == "" {
		title = unknownTitle
	}

	p := Product{
		Title:  title,
		Price:  firstText(sel, "span.a-price-whole", "span.a-offscreen"),
		Rating: extractRating(sel.Find("span.a-icon-alt").First()),
	}

	if href, ok := sel.Find("a.a-link-normal").First().Attr("href"); ok && href != "" {
		if strings.HasPrefix(href, "/") {
			p.URL = s.baseURL + href
		} else {
			p.URL = href
		}
	}
	if reviews := strings.TrimSpace(sel.Find("a.a-link-normal").First().Text()); reviews != "" {
		p.ReviewCount = reviews
	}
	if src, ok := sel.Find("img.s-image").First().Attr("src"); ok {
		p.ImageURL = src
	}
	return p
}

func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("#productTitle").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1.a-size-large").First().Text())
	}
	if title == "" {
		title = unknownTitle
	}
	return title
}

func extractPagePrice(doc *goquery.Document) string {
	for _, selector := range []string{
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"span.a-price-whole",
		"span.a-offscreen",
	} {
		if price := strings.TrimSpace(doc.Find(selector).First().Text()); price != "" {
			return price
		}
	}
	return ""
}

func extractRating(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return ""
	}
	return ratingPattern.FindString(text)
}

func extractDescription(doc *goquery.Document) string {
	var bullets []string
	doc.Find("#feature-bullets span.a-list-item").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			bullets = append(bullets, text)
		}
	})
	return strings.Join(bullets, "\n")
}

func extractImageURL(doc *goquery.Document) string {
	img := doc.Find("#landingImage").First()
	if src, ok := img.Attr("data-old-src"); ok && src != "" {
		return src
	}
	if src, ok := img.Attr("src"); ok {
		return src
	}
	return ""
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(sel.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// SaveJSON writes products to a pretty-printed JSON file.
func SaveJSON(products []Product, filename string) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
