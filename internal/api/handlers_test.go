// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/tomtom215/observa/internal/auth"
	"github.com/tomtom215/observa/internal/authz"
	"github.com/tomtom215/observa/internal/models"
	"github.com/tomtom215/observa/internal/monitoring"
)

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)

	var status SessionStatus
	_, env := c.do(http.MethodGet, "/api/v1/auth/session", nil)
	decodeData(t, env, &status)
	if status.Valid {
		t.Fatal("fresh client should have no session")
	}
	u, _ := url.Parse(srv.URL)
	if len(c.hc.Jar.Cookies(u)) != 1 {
		t.Fatalf("client cookie not issued: %v", c.hc.Jar.Cookies(u))
	}

	code, env := c.do(http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: testEmail, Password: "wrong"})
	if code != http.StatusUnauthorized || env.Error == nil || env.Error.Code != ErrCodeInvalidCredentials {
		t.Fatalf("wrong password = %d %+v", code, env.Error)
	}
	if env.Error.Details["title"] != "Erro de autenticação" || env.Error.Message != "Email ou senha incorretos." {
		t.Errorf("rejection notification = %+v", env.Error)
	}

	code, env = c.do(http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: testEmail, Password: testPassword, From: "/admin/content"})
	if code != http.StatusOK {
		t.Fatalf("login = %d %+v", code, env.Error)
	}
	var res auth.Result
	decodeData(t, env, &res)
	if !res.Authenticated || res.Redirect != "/admin/content" {
		t.Errorf("login result = %+v", res)
	}
	if res.Notification.Kind != auth.NotificationSuccess || res.Notification.Title != "Login realizado com sucesso" {
		t.Errorf("notification = %+v", res.Notification)
	}

	_, env = c.do(http.MethodGet, "/api/v1/auth/session", nil)
	decodeData(t, env, &status)
	if !status.Valid || status.Role != authz.RoleAdmin || status.ExpiresAt == nil {
		t.Errorf("session after login = %+v", status)
	}

	_, env = c.do(http.MethodPost, "/api/v1/auth/activity", nil)
	decodeData(t, env, &status)
	if !status.Valid {
		t.Error("activity on a valid session should keep it valid")
	}

	code, env = c.do(http.MethodPost, "/api/v1/auth/logout", nil)
	decodeData(t, env, &res)
	if code != http.StatusOK || res.Redirect != "/" {
		t.Errorf("logout = %d %+v", code, res)
	}
	_, env = c.do(http.MethodGet, "/api/v1/auth/session", nil)
	decodeData(t, env, &status)
	if status.Valid {
		t.Error("session still valid after logout")
	}
}

func TestLogin_DefaultRedirectAndValidation(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)

	_, env := c.do(http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: testEmail, Password: testPassword})
	var res auth.Result
	decodeData(t, env, &res)
	if res.Redirect != auth.DefaultRedirect {
		t.Errorf("redirect = %q, want %q", res.Redirect, auth.DefaultRedirect)
	}

	client := newClient(t, srv)
	_, env = client.do(http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: journalistEmail, Password: testPassword, From: "/client-login"})
	decodeData(t, env, &res)
	if !res.Authenticated || res.Redirect != "/dashboard/journalist" || res.Identity == nil || res.Identity.Role != "journalist" {
		t.Errorf("journalist login = %+v", res)
	}

	code, env := c.do(http.MethodPost, "/api/v1/auth/login", LoginRequest{})
	if code != http.StatusBadRequest || env.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("empty login = %d %+v", code, env.Error)
	}

	resp, _ := c.raw(http.MethodPost, "/api/v1/auth/login", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty body status = %d", resp.StatusCode)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		fail    bool
	}{
		{name: "single object", body: `{"email":"a@b.c"}`},
		{name: "trailing whitespace", body: "{\"email\":\"a@b.c\"}\n\t "},
		{name: "empty", body: "", wantErr: errEmptyBody},
		{name: "second object", body: `{"email":"a@b.c"}{"email":"x@y.z"}`, wantErr: errTrailingData},
		{name: "trailing garbage", body: `{"email":"a@b.c"} xyz`, wantErr: errTrailingData},
		{name: "malformed", body: `{"email":`, fail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			var req LoginRequest
			err := decodeJSON(r, &req)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.fail:
				if err == nil {
					t.Error("expected an error")
				}
			case err != nil || req.Email != "a@b.c":
				t.Errorf("decode = %+v, %v", req, err)
			}
		})
	}
}

func TestLogin_TrailingDataRejected(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)

	body := `{"email":"` + testEmail + `","password":"` + testPassword + `"}{"role":"admin"}`
	resp, err := c.hc.Post(srv.URL+"/api/v1/auth/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var status SessionStatus
	_, env := c.do(http.MethodGet, "/api/v1/auth/session", nil)
	decodeData(t, env, &status)
	if status.Valid {
		t.Error("request with trailing data must not start a session")
	}
}

func TestClientCookie_MalformedIsReplaced(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "../../etc"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var issued *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			issued = ck
		}
	}
	if issued == nil || issued.Value == "../../etc" || !issued.HttpOnly {
		t.Errorf("issued cookie = %+v", issued)
	}
}

func TestLoginRateLimit(t *testing.T) {
	srv := newTestServer(t, serverOptions{limits: true, loginReqs: 2})
	c := newClient(t, srv)

	for i := 0; i < 2; i++ {
		if code, _ := c.do(http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: testEmail, Password: "x"}); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d", i, code)
		}
	}
	code, env := c.do(http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: testEmail, Password: testPassword})
	if code != http.StatusTooManyRequests || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("third attempt = %d %+v", code, env.Error)
	}

	// Other endpoints use the global limit.
	if code, _ := c.do(http.MethodGet, "/api/v1/auth/session", nil); code != http.StatusOK {
		t.Errorf("session after login limit = %d", code)
	}
}

func TestResolveRoute(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	anon := newClient(t, srv)
	admin := newClient(t, srv)
	admin.login(t)
	journalist := newClient(t, srv)
	journalist.loginAs(t, journalistEmail)

	tests := []struct {
		name   string
		c      *client
		path   string
		want   authz.Decision
		status int
	}{
		{"public", anon, "/login", authz.Decision{Allowed: true, Route: "/login"}, http.StatusOK},
		{"unknown path", anon, "/nope", authz.Decision{Redirect: "/"}, http.StatusOK},
		{"protected anonymous", anon, "/admin", authz.Decision{Redirect: "/login", From: "/admin", Route: "/admin"}, http.StatusOK},
		{"admin", admin, "/admin/client/press", authz.Decision{Allowed: true, Route: "/admin/client/:clientType"}, http.StatusOK},
		{"wrong role", admin, "/dashboard/press", authz.Decision{Redirect: "/unauthorized", Route: "/dashboard/press"}, http.StatusOK},
		{"own dashboard", journalist, "/dashboard/journalist", authz.Decision{Allowed: true, Route: "/dashboard/journalist"}, http.StatusOK},
		{"client in back office", journalist, "/admin", authz.Decision{Redirect: "/unauthorized", Route: "/admin"}, http.StatusOK},
		{"other client dashboard", journalist, "/dashboard/press", authz.Decision{Redirect: "/unauthorized", Route: "/dashboard/press"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := tt.c.do(http.MethodGet, "/api/v1/routes/resolve?path="+url.QueryEscape(tt.path), nil)
			if code != tt.status {
				t.Fatalf("status = %d, want %d", code, tt.status)
			}
			var got authz.Decision
			decodeData(t, env, &got)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}

	if code, _ := anon.do(http.MethodGet, "/api/v1/routes/resolve", nil); code != http.StatusBadRequest {
		t.Errorf("missing path = %d, want 400", code)
	}
}

func reportBody(format string) map[string]interface{} {
	return map[string]interface{}{
		"dateRange": map[string]string{"from": "2026-03-01T00:00:00Z", "to": "2026-03-31T00:00:00Z"},
		"sources":   []string{"1", "3"},
		"metrics":   []string{"performance", "alerts"},
		"format":    format,
		"type":      "summary",
	}
}

func TestExportReport(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)
	c.login(t)

	for _, tt := range []struct {
		format      string
		contentType string
		ext         string
	}{
		{"json", "application/json", ".json"},
		{"html", "text/html; charset=utf-8", ".html"},
		{"pdf", "application/pdf", ".pdf"},
	} {
		resp, body := c.raw(http.MethodPost, "/api/v1/reports/export", reportBody(tt.format))
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d body %s", tt.format, resp.StatusCode, body)
			continue
		}
		if got := resp.Header.Get("Content-Type"); got != tt.contentType {
			t.Errorf("%s: Content-Type = %q", tt.format, got)
		}
		want := `attachment; filename="relatorio-summary-20260301-20260331` + tt.ext + `"`
		if got := resp.Header.Get("Content-Disposition"); got != want {
			t.Errorf("%s: Content-Disposition = %q, want %q", tt.format, got, want)
		}
		if len(body) == 0 {
			t.Errorf("%s: empty body", tt.format)
		}
	}
}

func TestExportReport_Errors(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)
	c.login(t)

	noDate := reportBody("pdf")
	delete(noDate, "dateRange")
	noDate["sources"] = []string{}
	noSources := reportBody("pdf")
	noSources["sources"] = []string{}
	noSources["metrics"] = []string{}
	noMetrics := reportBody("pdf")
	noMetrics["metrics"] = []string{}

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
		field  string
	}{
		{"date first", noDate, http.StatusUnprocessableEntity, ErrCodeReportIncomplete, "dateRange"},
		{"sources before metrics", noSources, http.StatusUnprocessableEntity, ErrCodeReportIncomplete, "sources"},
		{"metrics", noMetrics, http.StatusUnprocessableEntity, ErrCodeReportIncomplete, "metrics"},
		{"excel", reportBody("excel"), http.StatusNotImplemented, ErrCodeNotImplemented, ""},
		{"csv", reportBody("csv"), http.StatusNotImplemented, ErrCodeNotImplemented, ""},
		{"unknown format", reportBody("docx"), http.StatusBadRequest, "VALIDATION_FAILED", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := c.do(http.MethodPost, "/api/v1/reports/export", tt.body)
			if code != tt.status || env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("status = %d error = %+v, want %d %s", code, env.Error, tt.status, tt.code)
			}
			if tt.field != "" && env.Error.Details["field"] != tt.field {
				t.Errorf("field = %v, want %s", env.Error.Details["field"], tt.field)
			}
		})
	}
}

func TestExportReport_RenderFailure(t *testing.T) {
	srv := newTestServer(t, serverOptions{renderer: pdfStub{err: errors.New("chrome crashed")}})
	c := newClient(t, srv)
	c.login(t)

	code, env := c.do(http.MethodPost, "/api/v1/reports/export", reportBody("pdf"))
	if code != http.StatusBadGateway || env.Error.Code != ErrCodeRenderFailed {
		t.Errorf("render failure = %d %+v", code, env.Error)
	}
	if strings.Contains(env.Error.Message, "chrome") {
		t.Error("engine error leaked to the client")
	}
}

func TestSessionRequired(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/v1/monitorings", nil},
		{http.MethodGet, "/api/v1/contents", nil},
		{http.MethodGet, "/api/v1/categories/press", nil},
		{http.MethodGet, "/api/v1/reports/sources", nil},
		{http.MethodPost, "/api/v1/reports/export", reportBody("json")},
	}
	for _, tt := range tests {
		code, env := c.do(tt.method, tt.path, tt.body)
		if code != http.StatusUnauthorized || env.Error.Code != ErrCodeSessionRequired {
			t.Errorf("%s %s = %d %+v", tt.method, tt.path, code, env.Error)
			continue
		}
		if env.Error.Details["redirect"] != authz.RedirectLogin {
			t.Errorf("%s redirect = %v", tt.path, env.Error.Details["redirect"])
		}
	}
}

func TestReports_AdminOnly(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)
	c.loginAs(t, journalistEmail)

	code, env := c.do(http.MethodPost, "/api/v1/reports/export", reportBody("json"))
	if code != http.StatusForbidden || env.Error.Code != ErrCodeForbidden {
		t.Errorf("client-role export = %d %+v", code, env.Error)
	}
	if code, _ := c.do(http.MethodGet, "/api/v1/reports/sources", nil); code != http.StatusForbidden {
		t.Errorf("client-role sources = %d, want 403", code)
	}
}

func TestMonitoringEndpoints(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)
	c.login(t)

	code, env := c.do(http.MethodPost, "/api/v1/monitorings", models.MonitoringForm{
		Name:     "Câmara",
		URL:      "https://www.camara.leg.br",
		Category: "legislacao",
		Keywords: "reforma, orçamento",
	})
	if code != http.StatusCreated {
		t.Fatalf("create = %d %+v", code, env.Error)
	}
	var item models.MonitoringItem
	decodeData(t, env, &item)
	if item.ID == "" || item.Frequency != models.FrequencyDaily {
		t.Errorf("created = %+v", item)
	}

	code, env = c.do(http.MethodPost, "/api/v1/monitorings", models.MonitoringForm{Name: "x", URL: "not a url"})
	if code != http.StatusBadRequest || env.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("invalid create = %d %+v", code, env.Error)
	}

	_, env = c.do(http.MethodGet, "/api/v1/monitorings", nil)
	var items []models.MonitoringItem
	decodeData(t, env, &items)
	if len(items) != 1 || *env.Meta.Count != 1 {
		t.Errorf("list = %+v", items)
	}

	_, env = c.do(http.MethodGet, "/api/v1/monitorings/analysis", nil)
	var themes []monitoring.ThemeAnalysis
	decodeData(t, env, &themes)
	if len(themes) != 1 || themes[0].Theme != "legislacao" || len(themes[0].Keywords) != 2 {
		t.Errorf("analysis = %+v", themes)
	}

	if code, _ := c.do(http.MethodDelete, "/api/v1/monitorings/"+item.ID, nil); code != http.StatusOK {
		t.Errorf("delete = %d", code)
	}
	if code, env := c.do(http.MethodDelete, "/api/v1/monitorings/"+item.ID, nil); code != http.StatusNotFound {
		t.Errorf("second delete = %d %+v", code, env.Error)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)
	c.login(t)

	_, env := c.do(http.MethodGet, "/api/v1/categories/journalist", nil)
	var list []string
	decodeData(t, env, &list)
	base := len(models.DefaultCategories(models.ClientJournalist))
	if len(list) != base {
		t.Fatalf("categories = %v", list)
	}

	_, env = c.do(http.MethodPost, "/api/v1/categories/journalist", CategoryRequest{Name: "esportes"})
	decodeData(t, env, &list)
	if len(list) != base+1 || list[base] != "esportes" {
		t.Errorf("after add = %v", list)
	}

	if code, env := c.do(http.MethodPost, "/api/v1/categories/journalist", CategoryRequest{Name: " "}); code != http.StatusBadRequest || env.Error.Code != ErrCodeInvalidCategory {
		t.Errorf("blank category = %d %+v", code, env.Error)
	}
	if code, _ := c.do(http.MethodGet, "/api/v1/categories/martian", nil); code != http.StatusBadRequest {
		t.Errorf("unknown client type = %d", code)
	}
}

func TestContentEndpoints(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	c := newClient(t, srv)
	c.login(t)

	code, env := c.do(http.MethodPost, "/api/v1/contents", models.ContentForm{Title: "Nota à imprensa"})
	if code != http.StatusCreated {
		t.Fatalf("create = %d %+v", code, env.Error)
	}
	var draft models.Content
	decodeData(t, env, &draft)
	if draft.Status != models.StatusDraft {
		t.Errorf("status = %s, want draft", draft.Status)
	}

	code, env = c.do(http.MethodPost, "/api/v1/contents/submit", models.ContentForm{Title: "Pauta", Type: models.ContentReport})
	if code != http.StatusCreated {
		t.Fatalf("submit = %d %+v", code, env.Error)
	}

	_, env = c.do(http.MethodGet, "/api/v1/contents?status=pending", nil)
	var list []models.Content
	decodeData(t, env, &list)
	if len(list) != 1 || list[0].Title != "Pauta" {
		t.Errorf("pending = %+v", list)
	}

	if code, _ := c.do(http.MethodGet, "/api/v1/contents?status=archived", nil); code != http.StatusBadRequest {
		t.Errorf("bad filter = %d", code)
	}

	code, env = c.do(http.MethodPut, "/api/v1/contents/"+draft.ID+"/status", models.StatusUpdate{Status: models.StatusPublished})
	if code != http.StatusOK {
		t.Fatalf("set status = %d %+v", code, env.Error)
	}
	var published models.Content
	decodeData(t, env, &published)
	if published.Status != models.StatusPublished || published.PublishedAt == nil {
		t.Errorf("published = %+v", published)
	}

	// Back to draft is allowed.
	if code, _ := c.do(http.MethodPut, "/api/v1/contents/"+draft.ID+"/status", models.StatusUpdate{Status: models.StatusDraft}); code != http.StatusOK {
		t.Errorf("published -> draft = %d", code)
	}

	if code, env := c.do(http.MethodPut, "/api/v1/contents/"+draft.ID+"/status", models.StatusUpdate{Status: "archived"}); code != http.StatusBadRequest {
		t.Errorf("unknown status = %d %+v", code, env.Error)
	}
	if code, _ := c.do(http.MethodGet, "/api/v1/contents/missing", nil); code != http.StatusNotFound {
		t.Errorf("missing content = %d", code)
	}

	_, env = c.do(http.MethodGet, "/api/v1/contents/"+draft.ID, nil)
	var got models.Content
	decodeData(t, env, &got)
	if got.Status != models.StatusDraft {
		t.Errorf("stored status = %s", got.Status)
	}
}
