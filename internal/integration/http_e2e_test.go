//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "bizdir/internal/adapters/http_server"
	redisad "bizdir/internal/adapters/redis"
	"bizdir/internal/app"
	"bizdir/internal/domain"
	mysqlrepo "bizdir/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=bizdir",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/bizdir?parseTime=false&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)

	commands := app.NewDirectoryService(repo, cache)
	queries := app.NewQueryService(repo, cache, 10*time.Minute)

	srv := server.New(1000, 1000)
	srv.MountHandlers(server.NewHandlers(commands, queries))

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode POST %s: %v", url, err)
		}
	}
	return resp
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode GET %s: %v", url, err)
		}
	}
	return resp
}

func TestAPI_EndToEnd(t *testing.T) {
	ts := newTestServer(t)

	// user
	var user domain.User
	resp := postJSON(t, ts.URL+"/v1/users", map[string]any{
		"name": "Demo User", "email": "demo@example.com",
	}, &user)
	if resp.StatusCode != http.StatusCreated || user.ID == "" {
		t.Fatalf("create user: status=%d user=%+v", resp.StatusCode, user)
	}

	// invalid email is rejected at the boundary
	bad := postJSON(t, ts.URL+"/v1/users", map[string]any{"name": "x", "email": "not-an-email"}, nil)
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", bad.StatusCode)
	}

	// business
	var biz domain.Business
	resp = postJSON(t, ts.URL+"/v1/businesses", map[string]any{
		"name": "Tech Haven", "category": "Electronics",
		"description": "Your local electronics store", "address": "123 Main St",
		"phone": "555-0123", "website": "techhaven.com",
	}, &biz)
	if resp.StatusCode != http.StatusCreated || biz.ID == "" {
		t.Fatalf("create business: status=%d", resp.StatusCode)
	}

	// reading it caches it; the review below must still show up afterwards
	var fetched domain.Business
	getJSON(t, ts.URL+"/v1/businesses/"+biz.ID, &fetched)
	if fetched.ReviewCount != 0 {
		t.Fatalf("fresh business has review_count %d", fetched.ReviewCount)
	}

	// reviews: 3, 4, 5 -> avg 4.0
	for _, rating := range []int{3, 4, 5} {
		resp = postJSON(t, ts.URL+"/v1/reviews", map[string]any{
			"business_id": biz.ID, "user_id": user.ID,
			"rating": rating, "comment": fmt.Sprintf("%d stars", rating),
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create review %d: status=%d", rating, resp.StatusCode)
		}
	}
	getJSON(t, ts.URL+"/v1/businesses/"+biz.ID, &fetched)
	if fetched.ReviewCount != 3 || fetched.AverageRating != 4.0 {
		t.Fatalf("aggregate: count=%d avg=%v, want 3/4.0", fetched.ReviewCount, fetched.AverageRating)
	}

	// rating outside 1..5 is the boundary's job to reject
	resp = postJSON(t, ts.URL+"/v1/reviews", map[string]any{
		"business_id": biz.ID, "user_id": user.ID, "rating": 6, "comment": "",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating 6, got %d", resp.StatusCode)
	}

	var reviews []domain.Review
	getJSON(t, ts.URL+"/v1/businesses/"+biz.ID+"/reviews", &reviews)
	if len(reviews) != 3 {
		t.Fatalf("list reviews: n=%d", len(reviews))
	}

	// search
	var found []domain.Business
	getJSON(t, ts.URL+"/v1/businesses?q=Tech", &found)
	if len(found) != 1 || found[0].ID != biz.ID {
		t.Fatalf("search Tech: %+v", found)
	}
	var none []domain.Business
	getJSON(t, ts.URL+"/v1/businesses?q=zzz", &none)
	if len(none) != 0 {
		t.Fatalf("search zzz must be empty, got %+v", none)
	}

	// deals
	var deal domain.Deal
	start := time.Now().UTC()
	resp = postJSON(t, ts.URL+"/v1/deals", map[string]any{
		"business_id": biz.ID, "title": "Special", "description": "20% off",
		"discount_code": "DEAL0",
		"start_date":    start.Format(time.RFC3339),
		"end_date":      start.Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}, &deal)
	if resp.StatusCode != http.StatusCreated || !deal.IsActive {
		t.Fatalf("create deal: status=%d deal=%+v", resp.StatusCode, deal)
	}
	getJSON(t, ts.URL+"/v1/businesses/"+biz.ID, &fetched)
	if !fetched.HasDeals {
		t.Fatalf("has_deals must be true after deal creation")
	}

	resp = postJSON(t, ts.URL+"/v1/deals", map[string]any{
		"business_id": biz.ID, "title": "Broken", "description": "",
		"start_date": "tomorrow", "end_date": start.Format(time.RFC3339),
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed start date, got %d", resp.StatusCode)
	}

	var active []domain.Deal
	getJSON(t, ts.URL+"/v1/deals/active", &active)
	if len(active) != 1 {
		t.Fatalf("active deals: n=%d", len(active))
	}

	// favorites
	resp = postJSON(t, ts.URL+"/v1/users/"+user.ID+"/favorites/"+biz.ID, map[string]any{}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add favorite: status=%d", resp.StatusCode)
	}
	var flag map[string]bool
	getJSON(t, ts.URL+"/v1/users/"+user.ID+"/favorites/"+biz.ID, &flag)
	if !flag["favorite"] {
		t.Fatalf("expected favorite=true after add")
	}
	var favs []domain.Business
	getJSON(t, ts.URL+"/v1/users/"+user.ID+"/favorites", &favs)
	if len(favs) != 1 || favs[0].ID != biz.ID {
		t.Fatalf("favorites list: %+v", favs)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/users/"+user.ID+"/favorites/"+biz.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("remove favorite: %v", err)
	}
	_ = delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("remove favorite: status=%d", delResp.StatusCode)
	}
	getJSON(t, ts.URL+"/v1/users/"+user.ID+"/favorites/"+biz.ID, &flag)
	if flag["favorite"] {
		t.Fatalf("expected favorite=false after remove")
	}

	// absent user reads as null, not as an error
	nullResp := getJSON(t, ts.URL+"/v1/users/does-not-exist", nil)
	if nullResp.StatusCode != http.StatusOK {
		t.Fatalf("absent user: status=%d", nullResp.StatusCode)
	}

	// captcha
	var captcha map[string]string
	getJSON(t, ts.URL+"/v1/captcha", &captcha)
	if captcha["question"] == "" || captcha["answer"] == "" {
		t.Fatalf("captcha: %+v", captcha)
	}
}
