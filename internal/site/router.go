// Package site serves the portfolio page, its HTMX fragments and the tariff
// calculator endpoints.
package site

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simonting/portfolio/internal/content"
	"github.com/simonting/portfolio/internal/observability"
	"github.com/simonting/portfolio/internal/tariff"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Deps are the collaborators the router needs.
type Deps struct {
	Site      *content.Site
	Estimator *tariff.Estimator
	Catalog   *tariff.Catalog
	Mailer    Mailer
	Logger    *zap.Logger
	// StaticDir is served under /static when it exists.
	StaticDir string
}

type server struct {
	site      *content.Site
	estimator *tariff.Estimator
	catalog   *tariff.Catalog
	mailer    Mailer
	logger    *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Site == nil {
		return nil, errors.New("site: content is required")
	}
	if deps.Estimator == nil {
		deps.Estimator = tariff.NewEstimator()
	}
	if deps.Catalog == nil {
		deps.Catalog = tariff.DefaultCatalog()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Mailer == nil {
		deps.Mailer = disabledMailer{}
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &server{
		site:      deps.Site,
		estimator: deps.Estimator,
		catalog:   deps.Catalog,
		mailer:    deps.Mailer,
		logger:    deps.Logger,
	}

	r := gin.New()
	r.Use(observability.RequestID(), observability.Logger(deps.Logger), observability.Recovery(deps.Logger))
	r.SetHTMLTemplate(tmpl)

	if deps.StaticDir != "" {
		if info, err := os.Stat(deps.StaticDir); err == nil && info.IsDir() {
			r.Static("/static", deps.StaticDir)
		}
	}

	r.GET("/", s.home)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// HTMX fragments
	r.GET("/tariff/form", s.tariffForm)
	r.GET("/tariff/hs-codes", s.hsCodeOptions)
	r.POST("/tariff/estimate", s.estimateFragment)
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)

	api := r.Group("/api/tariff")
	api.POST("/estimate", s.estimateJSON)
	api.GET("/hs-codes", s.searchHSCodes)
	api.GET("/rates", s.exportRates)

	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": content.Markdown,
		"money":    tariff.FormatAmount,
		"percent": func(rate decimal.Decimal) string {
			return rate.Mul(decimal.NewFromInt(100)).String() + "%"
		},
	}
}

func (s *server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"site":      s.site,
		"countries": tariff.Countries(),
		"catalog":   s.catalog.Entries(),
	})
}
