package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/simonting/portfolio/internal/content"
	"github.com/simonting/portfolio/internal/tariff"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []ContactMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestRouter(t *testing.T, opts ...func(*Deps)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	site, err := content.Default()
	require.NoError(t, err)

	deps := Deps{
		Site:      site,
		Estimator: tariff.NewEstimator(),
		Mailer:    &fakeMailer{},
	}
	for _, opt := range opts {
		opt(&deps)
	}
	r, err := NewRouter(deps)
	require.NoError(t, err)
	return r
}

func postForm(r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewRouterRequiresContent(t *testing.T) {
	_, err := NewRouter(Deps{})
	require.Error(t, err)
}

func TestHomeRendersSectionsAndCalculator(t *testing.T) {
	r := newTestRouter(t)

	rec := get(r, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"Simon Ting",
		`id="about"`,
		`id="projects"`,
		`id="skills"`,
		`id="experience"`,
		`id="day-in-life"`,
		`id="side-project"`,
		`id="contact"`,
		"Tariff Calculator",
		`<option value="CA">Canada</option>`,
		`<option value="8471.30.01">Computers</option>`,
		"<strong>B2B logistics SaaS</strong>",
	} {
		require.Contains(t, body, want)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	rec := get(r, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTariffFormFragment(t *testing.T) {
	r := newTestRouter(t)
	rec := get(r, "/tariff/form")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `name="destinationCountry"`)
	require.NotContains(t, rec.Body.String(), "<html")
}

func TestEstimateFragment(t *testing.T) {
	r := newTestRouter(t)

	rec := postForm(r, "/tariff/estimate", url.Values{
		"hsCode":             {"6203.42.11"},
		"originCountry":      {"US"},
		"destinationCountry": {"CA"},
		"productValue":       {"500"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "CA$90.00")
	require.Contains(t, body, "CA$29.50")
	require.Contains(t, body, "CA$619.50")
	require.Contains(t, body, "18%")
	require.Contains(t, body, "5%")
	require.Contains(t, body, "This is an estimate")
}

func TestEstimateFragmentValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := postForm(r, "/tariff/estimate", url.Values{
		"hsCode":        {"6203.42.11"},
		"originCountry": {"US"},
		"productValue":  {"500"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Please fill in all fields")
	require.NotContains(t, rec.Body.String(), "Calculation Results")

	rec = postForm(r, "/tariff/estimate", url.Values{
		"hsCode":             {"6203.42.11"},
		"originCountry":      {"US"},
		"destinationCountry": {"CA"},
		"productValue":       {"-5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Please enter a valid product value")
}

func TestEstimateFragmentCancelled(t *testing.T) {
	r := newTestRouter(t, func(d *Deps) {
		d.Estimator = tariff.NewEstimator(tariff.WithLatency(time.Hour))
	})

	values := url.Values{
		"hsCode":             {"8471.30.01"},
		"originCountry":      {"US"},
		"destinationCountry": {"US"},
		"productValue":       {"1000"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/tariff/estimate", strings.NewReader(values.Encode())).WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "calculator is busy")
}

func TestEstimateJSON(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(r, "/api/tariff/estimate",
		`{"hsCode":"9999.99.99","originCountry":"MX","destinationCountry":"JP","productValue":"200"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "JPY", got.Currency)
	require.InDelta(t, 10, got.DutyRate, 1e-9)
	require.InDelta(t, 0.10, got.VATRate, 1e-9)
	require.InDelta(t, 20, got.BaseDuty, 1e-9)
	require.InDelta(t, 22, got.VAT, 1e-9)
	require.InDelta(t, 242, got.TotalCost, 1e-9)
	require.InDelta(t, got.Value+got.BaseDuty+got.VAT, got.TotalCost, 1e-9)
}

func TestEstimateJSONErrors(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(r, "/api/tariff/estimate", `{"hsCode":"8471.30.01","originCountry":"US","destinationCountry":"US"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t, `{"error":"Please fill in all fields"}`, rec.Body.String())

	rec = postJSON(r, "/api/tariff/estimate", `{"hsCode":"8471.30.01","originCountry":"US","destinationCountry":"US","productValue":"abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t, `{"error":"Please enter a valid product value"}`, rec.Body.String())

	rec = postJSON(r, "/api/tariff/estimate", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHSCodeSearch(t *testing.T) {
	r := newTestRouter(t)

	rec := get(r, "/api/tariff/hs-codes?q=watch")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"results":[{"code":"9102.21.00","description":"Wrist watches"}]}`, rec.Body.String())

	rec = get(r, "/api/tariff/hs-codes")
	require.JSONEq(t, `{"results":[]}`, rec.Body.String())

	rec = get(r, "/tariff/hs-codes?q=coffee")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `<option value="0901.21.00">Coffee beans and roasted coffee</option>`)
}

func TestExportRates(t *testing.T) {
	r := newTestRouter(t)

	rec := get(r, "/api/tariff/rates?download=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "attachment; filename=tariff-rates.json", rec.Header().Get("Content-Disposition"))

	var got ratesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Duty, 72)
	require.InDelta(t, 0.05, got.VAT["CA"], 1e-9)
	require.InDelta(t, 10, got.Default.DutyPercent, 1e-9)
	require.InDelta(t, 0.2, got.Default.VATRate, 1e-9)
}

func TestContactFlow(t *testing.T) {
	mailer := &fakeMailer{}
	r := newTestRouter(t, func(d *Deps) { d.Mailer = mailer })

	rec := get(r, "/contact-form")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Contact Me")

	rec = postForm(r, "/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Hello"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Thanks for reaching out")
	require.Equal(t, []ContactMessage{{Name: "Ada", Email: "ada@example.com", Message: "Hello"}}, mailer.sent)

	rec = postForm(r, "/contact", url.Values{"fullName": {"Ada"}, "email": {"not-an-email"}, "message": {"Hi"}})
	require.Contains(t, rec.Body.String(), "valid email address")
	require.Len(t, mailer.sent, 1)
}

func TestContactMailerFailure(t *testing.T) {
	r := newTestRouter(t, func(d *Deps) { d.Mailer = &fakeMailer{err: errors.New("relay down")} })

	rec := postForm(r, "/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Hello"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "error sending your message")
}
