package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shanehull/trendscan/internal/ai"
	"github.com/shanehull/trendscan/internal/session"
	"github.com/shanehull/trendscan/internal/types"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	started chan struct{}
	release chan struct{}
	last    *ai.AnalysisRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req *ai.AnalysisRequest) (string, error) {
	g.mu.Lock()
	g.last = req
	g.mu.Unlock()
	if g.started != nil {
		close(g.started)
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

func (g *stubGenerator) lastRequest() *ai.AnalysisRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func payload(t *testing.T, n int, withSummary bool) string {
	t.Helper()
	r := types.TrendAnalysisResult{}
	for i := 0; i < n; i++ {
		r.Topics = append(r.Topics, types.Topic{
			Title:        fmt.Sprintf("Тема %d", i+1),
			Link:         fmt.Sprintf("https://example.com/%d", i+1),
			Source:       "Habr",
			PublishDate:  "2026-10-01",
			Announcement: "Анонс",
			SeoAnalysis: types.SeoAnalysis{
				Keywords:    []string{"ai"},
				Intent:      types.IntentInformational,
				Dynamics:    "Рост",
				Competition: types.Competitions[i%len(types.Competitions)],
				Potential:   types.Potentials[i%len(types.Potentials)],
			},
			WhyAttractive: types.AttractivenessRationale{PainPoints: "Боль"},
		})
	}
	if withSummary {
		r.Summary = &types.AnalyticalSummary{
			DominantTrends:          []string{"Агенты"},
			NicheCompetitionLevel:   "Средний",
			MaxSeoPotentialTopics:   []string{"Тема 1"},
			PriorityRecommendations: []string{"Писать гайды"},
		}
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(data)
}

type testEnv struct {
	srv    *httptest.Server
	server *Server
	client *http.Client
	gen    *stubGenerator
}

func newTestEnv(t *testing.T, gen *stubGenerator, timeout time.Duration) *testEnv {
	t.Helper()
	s, err := NewServer(ai.NewAnalyzer(gen, nil), session.NewStore(), nil, Options{
		AnalysisTimeout: timeout,
		CSRFKey:         testKey,
		Now:             func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		srv.Close()
		s.Wait()
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testEnv{srv: srv, server: s, client: &http.Client{Jar: jar}, gen: gen}
}

func (e *testEnv) index(t *testing.T) *goquery.Document {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("GET / status %d", resp.StatusCode)
	}
	return document(t, resp)
}

func csrfToken(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	token, ok := doc.Find(`input[name="gorilla.csrf.Token"]`).Attr("value")
	if !ok || token == "" {
		t.Fatalf("csrf token missing from form")
	}
	return token
}

func (e *testEnv) analyze(t *testing.T, token, niche string) *http.Response {
	t.Helper()
	form := url.Values{"niche": {niche}, "gorilla.csrf.Token": {token}}
	resp, err := e.client.PostForm(e.srv.URL+"/analyze", form)
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	return resp
}

// submit posts the form, waits for the analysis to finish and returns the
// page shown afterwards.
func (e *testEnv) submit(t *testing.T, niche string) *goquery.Document {
	t.Helper()
	resp := e.analyze(t, csrfToken(t, e.index(t)), niche)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected redirect to a 200 page, got %d", resp.StatusCode)
	}
	e.server.Wait()
	return e.index(t)
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

func gated(text string) *stubGenerator {
	return &stubGenerator{text: text, started: make(chan struct{}), release: make(chan struct{})}
}

func TestIndexInitialState(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{}, time.Minute)
	doc := env.index(t)

	if doc.Find("form#analyze-form").Length() != 1 {
		t.Fatalf("form missing")
	}
	if doc.Find("#results, #error, #loading").Length() != 0 {
		t.Fatalf("idle page should only show the form")
	}
	if !strings.Contains(doc.Find("script").Text(), "analyze-form") {
		t.Fatalf("submit handler script missing")
	}
	if !doc.Find("#loading-client").HasClass("hidden") {
		t.Fatalf("client loading block must start hidden")
	}
}

func TestAnalyzeShowsLoadingImmediately(t *testing.T) {
	gen := gated(payload(t, 2, true))
	env := newTestEnv(t, gen, time.Minute)

	resp := env.analyze(t, csrfToken(t, env.index(t)), "AI")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected redirect to a 200 page, got %d", resp.StatusCode)
	}
	doc := document(t, resp)

	if doc.Find("#loading").Length() != 1 {
		t.Fatalf("first page after submit must show the loading state")
	}
	if _, ok := doc.Find(`button[type="submit"]`).Attr("disabled"); !ok {
		t.Fatalf("submit must be disabled while requesting")
	}
	if _, ok := doc.Find(`meta[http-equiv="refresh"]`).Attr("content"); !ok {
		t.Fatalf("loading page must refresh itself")
	}
	if doc.Find("article.topic-card").Length() != 0 {
		t.Fatalf("no cards while requesting")
	}

	close(gen.release)
	env.server.Wait()

	done := env.index(t)
	if done.Find("#loading").Length() != 0 {
		t.Fatalf("loading state must clear once the analysis finishes")
	}
	if n := done.Find("article.topic-card").Length(); n != 2 {
		t.Fatalf("expected 2 cards, got %d", n)
	}
}

func TestAnalyzeGeneralTrends(t *testing.T) {
	gen := &stubGenerator{text: "```json\n" + payload(t, 3, true) + "\n```"}
	env := newTestEnv(t, gen, time.Minute)

	doc := env.submit(t, "   ")

	if n := doc.Find("article.topic-card").Length(); n != 3 {
		t.Fatalf("expected 3 cards, got %d", n)
	}
	if n := doc.Find("#summary").Length(); n != 1 {
		t.Fatalf("expected one summary panel, got %d", n)
	}
	if !strings.Contains(doc.Find("#results h2").First().Text(), "Найдено тем: 3") {
		t.Fatalf("missing topic count header")
	}
	if doc.Find("#export-txt").Length() != 1 || doc.Find("#export-pdf").Length() != 1 {
		t.Fatalf("export controls missing")
	}
	if !strings.Contains(gen.lastRequest().SystemInstruction, ai.GeneralTrendsScope) {
		t.Fatalf("blank niche must be sent as general trends")
	}

	if cls, _ := doc.Find("span.badge.competition").First().Attr("class"); !strings.Contains(cls, "bg-blue-100") {
		t.Fatalf("low competition should render blue, got %q", cls)
	}
	if cls, _ := doc.Find("span.badge.potential").First().Attr("class"); !strings.Contains(cls, "bg-green-100") {
		t.Fatalf("high potential should render green, got %q", cls)
	}
}

func TestAnalyzeWithoutSummary(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{text: payload(t, 1, false)}, time.Minute)
	doc := env.submit(t, "AI")

	if doc.Find("article.topic-card").Length() != 1 {
		t.Fatalf("expected one card")
	}
	if doc.Find("#summary").Length() != 0 {
		t.Fatalf("summary panel must be omitted")
	}
}

func TestAnalyzeInvalidPayload(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{text: "not json"}, time.Minute)
	doc := env.submit(t, "AI")

	if got := strings.TrimSpace(doc.Find("#error").Text()); got != ai.InvalidPayloadMessage {
		t.Fatalf("unexpected error text %q", got)
	}
	if doc.Find("article.topic-card").Length() != 0 || doc.Find("#results").Length() != 0 {
		t.Fatalf("no cards expected on failure")
	}
	if v, _ := doc.Find(`input[name="niche"]`).Attr("value"); v != "AI" {
		t.Fatalf("niche should be kept in the form, got %q", v)
	}
}

func TestAnalyzeServiceErrorShownVerbatim(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{err: errors.New("API key not valid")}, time.Minute)
	doc := env.submit(t, "AI")

	if got := strings.TrimSpace(doc.Find("#error").Text()); got != "API key not valid" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	env := newTestEnv(t, gated(""), 50*time.Millisecond)
	doc := env.submit(t, "AI")

	if got := strings.TrimSpace(doc.Find("#error").Text()); got != ai.TimeoutMessage {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestAnalyzeRejectsOverlap(t *testing.T) {
	gen := gated(payload(t, 2, true))
	env := newTestEnv(t, gen, time.Minute)
	token := csrfToken(t, env.index(t))

	first := env.analyze(t, token, "AI")
	first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first submit returned %d", first.StatusCode)
	}
	<-gen.started

	resp := env.analyze(t, token, "crypto")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping submit, got %d", resp.StatusCode)
	}
	conflict := document(t, resp)
	if got := strings.TrimSpace(conflict.Find("#error").Text()); got != inFlightErrorMessage {
		t.Fatalf("unexpected conflict message %q", got)
	}
	if conflict.Find("#loading").Length() != 1 {
		t.Fatalf("conflict page should keep showing the loading state")
	}

	close(gen.release)
	env.server.Wait()

	doc := env.index(t)
	if n := doc.Find("article.topic-card").Length(); n != 2 {
		t.Fatalf("first result should be shown, got %d cards", n)
	}
	if v, _ := doc.Find(`input[name="niche"]`).Attr("value"); v != "AI" {
		t.Fatalf("overlapping submit must not replace the niche, got %q", v)
	}
}

func TestAnalyzeRequiresCSRFToken(t *testing.T) {
	gen := &stubGenerator{text: payload(t, 1, true)}
	env := newTestEnv(t, gen, time.Minute)
	env.index(t)

	resp := env.analyze(t, "forged", "AI")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	env.server.Wait()
	if gen.lastRequest() != nil {
		t.Fatalf("analysis must not run without a valid token")
	}
}

func TestExportText(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{text: payload(t, 2, true)}, time.Minute)
	env.submit(t, "AI")

	resp, err := env.client.Get(env.srv.URL + "/export.txt")
	if err != nil {
		t.Fatalf("GET /export.txt: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, "trend-scan-AI-2026-10-17.txt") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	if !strings.HasPrefix(text, "ОТЧЕТ ПО ТРЕНДАМ И SEO: AI\n") {
		t.Fatalf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "1. Название статьи: Тема 1") || !strings.Contains(text, "2. Название статьи: Тема 2") {
		t.Fatalf("topics missing from export")
	}
	if !strings.Contains(text, "ИТОГОВЫЙ АНАЛИТИЧЕСКИЙ БЛОК") {
		t.Fatalf("summary missing from export")
	}
}

func TestExportWithoutResult(t *testing.T) {
	gen := gated("not json")
	env := newTestEnv(t, gen, time.Minute)

	status := func() int {
		t.Helper()
		resp, err := env.client.Get(env.srv.URL + "/export.txt")
		if err != nil {
			t.Fatalf("GET /export.txt: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := status(); got != http.StatusNotFound {
		t.Fatalf("expected 404 before any analysis, got %d", got)
	}

	env.analyze(t, csrfToken(t, env.index(t)), "AI").Body.Close()
	<-gen.started
	if got := status(); got != http.StatusNotFound {
		t.Fatalf("expected 404 while requesting, got %d", got)
	}

	close(gen.release)
	env.server.Wait()
	if got := status(); got != http.StatusNotFound {
		t.Fatalf("expected 404 after a failed analysis, got %d", got)
	}
}

func TestBadgeClass(t *testing.T) {
	tests := map[string]string{
		string(types.PotentialHigh):     "green",
		string(types.CompetitionMedium): "yellow",
		string(types.CompetitionLow):    "blue",
		"Неизвестно":                    "gray",
	}
	for label, colour := range tests {
		if got := badgeClass(label); !strings.Contains(got, colour) {
			t.Fatalf("badgeClass(%q) = %q, want %s", label, got, colour)
		}
	}
}
