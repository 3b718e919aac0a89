package brand

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

const searchResponse = `[
	{"brandId": "id1", "claimed": true, "domain": "github.com", "icon": "https://cdn.example.com/github.png", "name": "GitHub"},
	{"brandId": "id2", "claimed": false, "domain": "github.io", "icon": "https://cdn.example.com/pages.png", "name": "GitHub Pages"}
]`

func TestSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Error("method was wrong:", r.Method)
		}
		if r.URL.EscapedPath() != "/search/Git%20Hub" {
			t.Error("path was wrong:", r.URL.EscapedPath())
		}
		if r.URL.Query().Get("c") != "client&id" {
			t.Error("client id was wrong:", r.URL.Query().Get("c"))
		}
		fmt.Fprint(w, searchResponse)
	}))
	defer srv.Close()

	c := New("client&id", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	brands, err := c.Search(context.Background(), "Git Hub")
	if err != nil {
		t.Fatal(err)
	}

	if len(brands) != 2 {
		t.Fatal("wrong number of brands:", len(brands))
	}
	want := Brand{BrandID: "id1", Claimed: true, Domain: "github.com", Icon: "https://cdn.example.com/github.png", Name: "GitHub"}
	if brands[0] != want {
		t.Errorf("want: %#v\ngot:  %#v", want, brands[0])
	}
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	status := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer status.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer garbage.Close()

	_, err := New("id", WithBaseURL(status.URL)).Search(context.Background(), "x")
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Code != http.StatusUnauthorized {
		t.Error("wrong error:", err)
	}

	if _, err = New("id", WithBaseURL(garbage.URL)).Search(context.Background(), "x"); err == nil {
		t.Error("expected a decode error")
	}

	if _, err = New("").Search(context.Background(), "x"); err != ErrNoClientID {
		t.Error("wrong error:", err)
	}
}

func TestSearchThrottled(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := New("id", WithBaseURL(srv.URL), WithLimit(rate.Every(time.Hour), 1))

	if _, err := c.Search(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Search(ctx, "b"); err == nil {
		t.Error("second search should have been throttled")
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Error("wrong number of requests:", n)
	}
}

func TestIcon(t *testing.T) {
	t.Parallel()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchResponse)
	}))
	defer ok.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	defer empty.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	ctx := context.Background()
	if icon := New("id", WithBaseURL(ok.URL)).Icon(ctx, "GitHub"); icon != "https://cdn.example.com/github.png" {
		t.Error("icon was wrong:", icon)
	}
	if icon := New("id", WithBaseURL(empty.URL)).Icon(ctx, "GitHub"); icon != "" {
		t.Error("icon should be empty:", icon)
	}
	if icon := New("id", WithBaseURL(broken.URL)).Icon(ctx, "GitHub"); icon != "" {
		t.Error("icon should be empty:", icon)
	}
	if icon := New("id", WithBaseURL(ok.URL)).Icon(ctx, "  "); icon != "" {
		t.Error("blank issuer should not be searched:", icon)
	}
}
