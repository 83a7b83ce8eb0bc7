// Package main implements a fixture retailer site for local development.
// It serves category and product pages in ATB Market markup from a YAML
// catalog, so the full scrape pipeline can run without touching a real
// retailer. Point browser.domain_aliases at it: {localhost: atbmarket.com}.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/catalog.yaml
var defaultCatalog []byte

// storeCookie is the cookie ATB Market pins the physical store with.
const storeCookie = "selectedStore"

type catalog struct {
	Stores     []fixtureStore `yaml:"stores"`
	Categories []category     `yaml:"categories"`
}

type fixtureStore struct {
	ID          string          `yaml:"id"`
	Address     string          `yaml:"address"`
	PriceFactor decimal.Decimal `yaml:"price_factor"`
}

type category struct {
	Slug     string    `yaml:"slug"`
	Title    string    `yaml:"title"`
	Products []product `yaml:"products"`
}

type product struct {
	Slug     string           `yaml:"slug"`
	Name     string           `yaml:"name"`
	Price    decimal.Decimal  `yaml:"price"`
	OldPrice *decimal.Decimal `yaml:"old_price"`
	Image    string           `yaml:"image"`
	InStock  bool             `yaml:"in_stock"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	catalogFile := flag.String("catalog", "", "path to a catalog YAML (default: built-in fixture)")
	failEvery := flag.Int("fail-every", 0, "answer every Nth page request with 503 (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data := defaultCatalog
	if *catalogFile != "" {
		var err error
		data, err = os.ReadFile(*catalogFile) //nolint:gosec // fixture path from trusted CLI flag
		if err != nil {
			logger.Error("failed to read catalog", "path", *catalogFile, "error", err)
			os.Exit(1)
		}
	}

	cat, err := parseCatalog(data)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded catalog", "stores", len(cat.Stores), "categories", len(cat.Categories))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting fixture retailer", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newSite(logger, cat, *failEvery),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func parseCatalog(data []byte) (*catalog, error) {
	var cat catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(cat.Stores) == 0 {
		return nil, fmt.Errorf("catalog has no stores")
	}
	for i := range cat.Stores {
		if cat.Stores[i].PriceFactor.IsZero() {
			cat.Stores[i].PriceFactor = decimal.NewFromInt(1)
		}
	}
	return &cat, nil
}

// site serves the catalog. The first store is the default when a request
// carries no known store.
type site struct {
	log       *slog.Logger
	cat       *catalog
	failEvery int64
	requests  atomic.Int64
}

func newSite(logger *slog.Logger, cat *catalog, failEvery int) http.Handler {
	s := &site{log: logger, cat: cat, failEvery: int64(failEvery)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /{$}", s.index)
	mux.Handle("GET /catalog/{slug}", s.flaky(http.HandlerFunc(s.category)))
	mux.Handle("GET /product/{slug}", s.flaky(http.HandlerFunc(s.product)))
	return requestLogger(logger, mux)
}

// store picks the physical store from the selectedStore cookie or the
// store query parameter.
func (s *site) store(r *http.Request) *fixtureStore {
	id := r.URL.Query().Get("store")
	if c, err := r.Cookie(storeCookie); err == nil && id == "" {
		id = c.Value
	}
	for i := range s.cat.Stores {
		if s.cat.Stores[i].ID == id {
			return &s.cat.Stores[i]
		}
	}
	return &s.cat.Stores[0]
}

func (s *site) flaky(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.requests.Add(1)
		if s.failEvery > 0 && n%s.failEvery == 0 {
			s.log.Warn("injected failure", "path", r.URL.Path, "request", n)
			http.Error(w, "service temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *site) index(w http.ResponseWriter, _ *http.Request) {
	render(w, s.log, indexTmpl, s.cat)
}

func (s *site) category(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	for i := range s.cat.Categories {
		c := &s.cat.Categories[i]
		if c.Slug != slug {
			continue
		}
		st := s.store(r)
		render(w, s.log, listingTmpl, listing{
			Base:  origin(r),
			Title: c.Title,
			Store: st,
			Cards: cards(c.Products, st),
		})
		s.log.Info("category", "slug", slug, "store", st.ID, "products", len(c.Products))
		return
	}
	http.NotFound(w, r)
}

func (s *site) product(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	for i := range s.cat.Categories {
		for j := range s.cat.Categories[i].Products {
			p := s.cat.Categories[i].Products[j]
			if p.Slug != slug {
				continue
			}
			st := s.store(r)
			render(w, s.log, listingTmpl, listing{
				Base:  origin(r),
				Title: p.Name,
				Store: st,
				Cards: cards([]product{p}, st),
			})
			s.log.Info("product", "slug", slug, "store", st.ID)
			return
		}
	}
	http.NotFound(w, r)
}

type listing struct {
	// Base is the site's own origin, so product links lead back here.
	Base  string
	Title string
	Store *fixtureStore
	Cards []card
}

type card struct {
	ID       int
	Slug     string
	Name     string
	Price    string
	OldPrice string
	Image    string
	InStock  bool
}

// cards prices products for st. Prices use the retailer's comma decimal
// separator.
func cards(products []product, st *fixtureStore) []card {
	out := make([]card, 0, len(products))
	for i := range products {
		p := &products[i]
		c := card{
			ID:      184000 + i,
			Slug:    p.Slug,
			Name:    p.Name,
			Price:   localPrice(p.Price, st.PriceFactor),
			Image:   p.Image,
			InStock: p.InStock,
		}
		if p.OldPrice != nil {
			c.OldPrice = localPrice(*p.OldPrice, st.PriceFactor)
		}
		out = append(out, c)
	}
	return out
}

func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func localPrice(price, factor decimal.Decimal) string {
	return strings.Replace(price.Mul(factor).StringFixed(2), ".", ",", 1)
}

func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error("rendering page", "template", tmpl.Name(), "error", err)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="uk">
<head><meta charset="utf-8"><title>АТБ-Маркет (fixture)</title></head>
<body>
<ul class="catalog-menu">
{{- range .Categories}}
  <li><a href="/catalog/{{.Slug}}">{{.Title}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="uk">
<head><meta charset="utf-8"><title>{{.Title}} | АТБ-Маркет</title></head>
<body>
<div class="store-selector" data-store-id="{{.Store.ID}}">{{.Store.Address}}</div>
<div class="catalog-list">
{{- range .Cards}}
  <article class="catalog-item{{if not .InStock}} out-of-stock{{end}}" data-product-id="{{.ID}}">
    <a class="catalog-item__photo-link" href="{{$.Base}}/product/{{.Slug}}">
      {{- if .Image}}<img class="catalog-item__img" src="data:image/gif;base64,R0lGODlhAQABAAAAACw=" data-src="{{.Image}}" alt="">{{end -}}
    </a>
    <div class="catalog-item__title"><a href="{{$.Base}}/product/{{.Slug}}">{{.Name}}</a></div>
    <div class="catalog-item__bottom">
      <data class="product-price__top">{{.Price}} <abbr>грн</abbr></data>
      {{- if .OldPrice}}
      <data class="product-price__bottom"><s>{{.OldPrice}}</s></data>
      {{- end}}
    </div>
  </article>
{{- end}}
</div>
</body>
</html>
`))
