// Package tariff estimates import duty, VAT and landed cost from static
// rate tables.
package tariff

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Request holds the four calculator fields as submitted.
type Request struct {
	HSCode      string `json:"hsCode" form:"hsCode"`
	Origin      string `json:"originCountry" form:"originCountry"`
	Destination string `json:"destinationCountry" form:"destinationCountry"`
	Value       string `json:"productValue" form:"productValue"`
}

// Quote is the outcome of one estimate.
type Quote struct {
	HSCode      string
	Origin      Country
	Destination Country
	Value       decimal.Decimal
	// DutyPercent is the ad valorem rate applied, e.g. 18 for 18%.
	DutyPercent decimal.Decimal
	// VATRate is a fraction, e.g. 0.05.
	VATRate   decimal.Decimal
	BaseDuty  decimal.Decimal
	VAT       decimal.Decimal
	TotalCost decimal.Decimal
	Currency  string
}

// Estimator resolves rates from its tables and computes quotes. It holds no
// mutable state and is safe for concurrent use.
type Estimator struct {
	tables  Tables
	latency time.Duration
	logger  *zap.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithTables replaces the built-in rate tables.
func WithTables(t Tables) Option {
	return func(e *Estimator) { e.tables = t }
}

// WithLatency makes Estimate wait d before returning a quote. Zero disables
// the wait.
func WithLatency(d time.Duration) Option {
	return func(e *Estimator) {
		if d < 0 {
			d = 0
		}
		e.latency = d
	}
}

// WithLogger sets the logger used for per-estimate debug entries.
func WithLogger(l *zap.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEstimator returns an Estimator using DefaultTables unless overridden.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		tables: DefaultTables(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the tables the estimator reads from.
func (e *Estimator) Tables() Tables { return e.tables }

// Estimate validates req and computes its quote. Validation failures return
// immediately; otherwise the configured latency elapses first, and a
// cancelled ctx aborts the wait with ctx.Err().
func (e *Estimator) Estimate(ctx context.Context, req Request) (Quote, error) {
	q, err := Compute(e.tables, req)
	if err != nil {
		return Quote{}, err
	}
	if e.latency > 0 {
		timer := time.NewTimer(e.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Quote{}, ctx.Err()
		case <-timer.C:
		}
	}
	e.logger.Debug("tariff estimate",
		zap.String("hs_code", q.HSCode),
		zap.String("origin", string(q.Origin)),
		zap.String("destination", string(q.Destination)),
		zap.String("duty_percent", q.DutyPercent.String()),
		zap.String("vat_rate", q.VATRate.String()),
		zap.String("total", q.TotalCost.String()),
		zap.String("currency", q.Currency),
	)
	return q, nil
}

// Compute is the synchronous core of Estimate.
//
// The origin must be present but does not influence any rate: lookups key
// on HS code and destination only.
func Compute(t Tables, req Request) (Quote, error) {
	code := strings.TrimSpace(req.HSCode)
	origin := NormalizeCountry(req.Origin)
	dest := NormalizeCountry(req.Destination)
	rawValue := strings.TrimSpace(req.Value)

	var missing []string
	if code == "" {
		missing = append(missing, "hsCode")
	}
	if origin == "" {
		missing = append(missing, "originCountry")
	}
	if dest == "" {
		missing = append(missing, "destinationCountry")
	}
	if rawValue == "" {
		missing = append(missing, "productValue")
	}
	if len(missing) > 0 {
		return Quote{}, &MissingFieldError{Fields: missing}
	}

	value, err := ParseValue(rawValue)
	if err != nil {
		return Quote{}, err
	}

	dutyPct := t.dutyRate(code, dest)
	vatRate := t.vatRate(dest)

	baseDuty := value.Mul(dutyPct).Div(hundred)
	vat := value.Add(baseDuty).Mul(vatRate)
	total := value.Add(baseDuty).Add(vat)

	return Quote{
		HSCode:      code,
		Origin:      origin,
		Destination: dest,
		Value:       value,
		DutyPercent: dutyPct,
		VATRate:     vatRate,
		BaseDuty:    baseDuty,
		VAT:         vat,
		TotalCost:   total,
		Currency:    CurrencyFor(dest),
	}, nil
}

// ParseValue parses a declared value, which must be a finite number
// strictly greater than zero.
func ParseValue(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Decimal{}, &InvalidValueError{Value: raw}
	}
	// Decimal parsing keeps "0.1" exact; it rejects the hex forms
	// ParseFloat accepts.
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, &InvalidValueError{Value: raw}
	}
	return d, nil
}
