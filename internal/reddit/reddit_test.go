package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

func redditListing(now time.Time) string {
	fresh := now.Add(-3 * time.Hour).Unix()
	stale := now.Add(-40 * 24 * time.Hour).Unix()
	return fmt.Sprintf(`{"data":{"children":[
		{"data":{"title":"GPT-5 rumors megathread","permalink":"/r/artificial/comments/a1/","ups":540,"num_comments":230,"created_utc":%d,"thumbnail":"https://thumbs.example/a1.jpg","selftext":"What we know so far"}},
		{"data":{"title":"Low effort meme","permalink":"/r/artificial/comments/a2/","ups":3,"num_comments":1,"created_utc":%d,"thumbnail":"self"}},
		{"data":{"title":"Old discussion","permalink":"/r/artificial/comments/a3/","ups":900,"num_comments":50,"created_utc":%d,"thumbnail":"default"}},
		{"data":{"title":"Cool demo","permalink":"/r/artificial/comments/a4/","ups":120,"num_comments":14,"created_utc":%d,"thumbnail":"self","url":"https://i.example/demo.png"}}
	]}}`, fresh, fresh, stale, fresh)
}

func TestFetchFiltersAndConverts(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/artificial/hot.json", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(redditListing(now)))
	}))
	defer srv.Close()

	s := New(config.RedditConfig{
		Subreddits: []string{"artificial"},
		MinUpvotes: 50,
	}, fetch.New(5*time.Second, 0, "AI Newsletter Bot 1.0"))
	s.baseURL = srv.URL

	items, err := s.Fetch(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "GPT-5 rumors megathread", first.Title)
	assert.Equal(t, srv.URL+"/r/artificial/comments/a1/", first.URL)
	assert.Equal(t, "r/artificial", first.Source)
	assert.Equal(t, model.TypeRedditPost, first.Type)
	assert.Equal(t, 540, first.Upvotes.Value())
	assert.Equal(t, 230, first.Comments.Value())
	assert.Equal(t, "https://thumbs.example/a1.jpg", first.ImageURL)
	assert.Equal(t, "What we know so far", first.Description)

	second := items[1]
	assert.Equal(t, "Cool demo", second.Title)
	assert.Equal(t, "https://i.example/demo.png", second.ImageURL)
}

func TestFetchAllSubredditsFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := New(config.RedditConfig{Subreddits: []string{"a", "b"}},
		fetch.New(5*time.Second, 0, "test"))
	s.baseURL = srv.URL

	_, err := s.Fetch(context.Background(), time.Now())
	require.Error(t, err)
}

func TestFetchPartialFailureKeepsGoodSubreddits(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/bad/hot.json" {
			http.Error(w, "blocked", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(redditListing(now)))
	}))
	defer srv.Close()

	s := New(config.RedditConfig{Subreddits: []string{"bad", "artificial"}},
		fetch.New(5*time.Second, 0, "test"))
	s.baseURL = srv.URL

	items, err := s.Fetch(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, items, 3) // min_upvotes 0 keeps the meme too
}
