package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simonting/portfolio/internal/observability"
	"github.com/simonting/portfolio/internal/tariff"
)

const unavailableMessage = "The calculator is busy right now. Please try again."

type quoteResponse struct {
	HSCode      string  `json:"hsCode"`
	Origin      string  `json:"originCountry"`
	Destination string  `json:"destinationCountry"`
	Value       float64 `json:"productValue"`
	DutyRate    float64 `json:"dutyRate"`
	VATRate     float64 `json:"vatRate"`
	BaseDuty    float64 `json:"baseDuty"`
	VAT         float64 `json:"vat"`
	TotalCost   float64 `json:"totalCost"`
	Currency    string  `json:"currency"`
}

func newQuoteResponse(q tariff.Quote) quoteResponse {
	return quoteResponse{
		HSCode:      q.HSCode,
		Origin:      string(q.Origin),
		Destination: string(q.Destination),
		Value:       q.Value.InexactFloat64(),
		DutyRate:    q.DutyPercent.InexactFloat64(),
		VATRate:     q.VATRate.InexactFloat64(),
		BaseDuty:    q.BaseDuty.InexactFloat64(),
		VAT:         q.VAT.InexactFloat64(),
		TotalCost:   q.TotalCost.InexactFloat64(),
		Currency:    q.Currency,
	}
}

type dutyRateResponse struct {
	HSCode      string  `json:"hsCode"`
	Destination string  `json:"destination"`
	Percent     float64 `json:"percent"`
}

type ratesResponse struct {
	Duty    []dutyRateResponse `json:"duty"`
	VAT     map[string]float64 `json:"vat"`
	Default struct {
		DutyPercent float64 `json:"dutyPercent"`
		VATRate     float64 `json:"vatRate"`
	} `json:"default"`
}

func (s *server) tariffForm(c *gin.Context) {
	c.HTML(http.StatusOK, "tariff-form.html", gin.H{
		"countries": tariff.Countries(),
		"catalog":   s.catalog.Entries(),
	})
}

// estimateFragment answers the HTMX form. Validation problems are shown
// inline with a 200 so htmx swaps them in.
func (s *server) estimateFragment(c *gin.Context) {
	var req tariff.Request
	if err := c.ShouldBind(&req); err != nil {
		req = tariff.Request{}
	}

	q, err := s.estimator.Estimate(c.Request.Context(), req)
	if err != nil {
		if msg, ok := tariff.UserMessage(err); ok {
			c.HTML(http.StatusOK, "tariff-error.html", gin.H{"error": msg})
			return
		}
		s.logEstimateFailure(c, err)
		c.HTML(http.StatusServiceUnavailable, "tariff-error.html", gin.H{"error": unavailableMessage})
		return
	}

	c.HTML(http.StatusOK, "tariff-result.html", gin.H{
		"quote":      q,
		"disclaimer": s.site.SideProject.Disclaimer,
	})
}

func (s *server) estimateJSON(c *gin.Context) {
	var req tariff.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	q, err := s.estimator.Estimate(c.Request.Context(), req)
	if err != nil {
		if msg, ok := tariff.UserMessage(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
			return
		}
		s.logEstimateFailure(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": unavailableMessage})
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(q))
}

func (s *server) logEstimateFailure(c *gin.Context, err error) {
	logger := observability.FromContext(c, s.logger)
	if errors.Is(err, context.Canceled) {
		logger.Info("tariff estimate cancelled by client")
		return
	}
	logger.Warn("tariff estimate failed", zap.Error(err))
}

func (s *server) hsCodeOptions(c *gin.Context) {
	c.HTML(http.StatusOK, "tariff-hs-options.html", gin.H{
		"results": s.catalog.Search(c.Query("q")),
	})
}

func (s *server) searchHSCodes(c *gin.Context) {
	results := s.catalog.Search(c.Query("q"))
	if results == nil {
		results = []tariff.HSCode{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *server) exportRates(c *gin.Context) {
	tables := s.estimator.Tables()

	var resp ratesResponse
	resp.Duty = make([]dutyRateResponse, 0, tables.Duty.Len())
	for _, row := range tables.Duty.Rows() {
		resp.Duty = append(resp.Duty, dutyRateResponse{
			HSCode:      row.HSCode,
			Destination: string(row.Destination),
			Percent:     row.Percent.InexactFloat64(),
		})
	}

	vat := tables.VAT.Rates()
	resp.VAT = make(map[string]float64, len(vat))
	for dest, rate := range vat {
		resp.VAT[string(dest)] = rate.InexactFloat64()
	}
	resp.Default.DutyPercent = tariff.DefaultDutyPercent.InexactFloat64()
	resp.Default.VATRate = tariff.DefaultVATRate.InexactFloat64()

	if c.Query("download") != "" {
		c.Header("Content-Disposition", "attachment; filename=tariff-rates.json")
	}
	c.JSON(http.StatusOK, resp)
}
