package blogs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

func testClient() *fetch.Client {
	return fetch.New(5*time.Second, 0, "test")
}

func blogFeed(now time.Time) string {
	fresh := now.Add(-24 * time.Hour).Format(time.RFC1123Z)
	stale := now.Add(-30 * 24 * time.Hour).Format(time.RFC1123Z)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Acme AI Blog</title>
<item>
  <title>Fine-tuning   guide &lt;em&gt;updated&lt;/em&gt;</title>
  <link>https://acme.example/blog/fine-tuning</link>
  <description>&lt;p&gt;Everything about &lt;b&gt;adapters&lt;/b&gt;.&lt;/p&gt;</description>
  <pubDate>%s</pubDate>
  <media:thumbnail url="https://acme.example/img/guide.png"/>
</item>
<item>
  <title>Old post</title>
  <link>https://acme.example/blog/old</link>
  <description>stale</description>
  <pubDate>%s</pubDate>
</item>
</channel>
</rss>`, fresh, stale)
}

const blogPage = `<html><body>
<div class="blog-post">
  <h2>Launching the  new API</h2>
  <a href="/posts/new-api">Read more</a>
  <p>Faster and cheaper inference.</p>
  <img src="https://acme.example/img/api.png">
</div>
<div class="sidebar">
  <h2>Not a post</h2>
  <a href="/nope">x</a>
</div>
<article class="post-card">
  <h3>Another update</h3>
  <a href="https://acme.example/posts/update">link</a>
</article>
</body></html>`

func TestFetchPrefersFeed(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed.xml", r.URL.Path)
		w.Write([]byte(blogFeed(now)))
	}))
	defer srv.Close()

	s := New(config.CompanyBlogsConfig{Blogs: []config.BlogConfig{
		{Name: "Acme AI", URL: srv.URL + "/blog", RSS: srv.URL + "/feed.xml"},
	}}, testClient())

	items, err := s.Fetch(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "Fine-tuning guide updated", got.Title)
	assert.Equal(t, "https://acme.example/blog/fine-tuning", got.URL)
	assert.Equal(t, "Everything about adapters.", got.Description)
	assert.Equal(t, "Acme AI", got.Source)
	assert.Equal(t, model.TypeBlogPost, got.Type)
	assert.Equal(t, "https://acme.example/img/guide.png", got.ImageURL)
	assert.WithinDuration(t, now.Add(-24*time.Hour), got.PublishedAt, time.Minute)
}

func TestFetchFallsBackToPage(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed.xml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := New(config.CompanyBlogsConfig{Blogs: []config.BlogConfig{
		{Name: "Acme AI", URL: srv.URL + "/blog", RSS: srv.URL + "/feed.xml"},
	}}, testClient())
	s.now = func() time.Time { return now }

	items, err := s.Fetch(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Launching the new API", first.Title)
	assert.Equal(t, srv.URL+"/blog/posts/new-api", first.URL)
	assert.Equal(t, "Faster and cheaper inference.", first.Description)
	assert.Equal(t, "https://acme.example/img/api.png", first.ImageURL)
	assert.Equal(t, now, first.PublishedAt)

	second := items[1]
	assert.Equal(t, "Another update", second.Title)
	assert.Equal(t, "https://acme.example/posts/update", second.URL)
}

func TestFetchFallsBackWhenFeedHasNothingRecent(t *testing.T) {
	now := time.Now()
	stale := now.Add(-30 * 24 * time.Hour).Format(time.RFC1123Z)
	feed := fmt.Sprintf(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>Old</title><link>https://acme.example/old</link><pubDate>%s</pubDate></item>
</channel></rss>`, stale)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed.xml" {
			w.Write([]byte(feed))
			return
		}
		w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := New(config.CompanyBlogsConfig{Blogs: []config.BlogConfig{
		{Name: "Acme AI", URL: srv.URL, RSS: srv.URL + "/feed.xml"},
	}}, testClient())

	items, err := s.Fetch(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetchAllBlogsFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(config.CompanyBlogsConfig{Blogs: []config.BlogConfig{
		{Name: "A", URL: srv.URL + "/a"},
		{Name: "B", URL: srv.URL + "/b"},
	}}, testClient())

	_, err := s.Fetch(context.Background(), time.Now())
	require.Error(t, err)
}

func TestFetchPartialFailureKeepsGoodBlogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := New(config.CompanyBlogsConfig{Blogs: []config.BlogConfig{
		{Name: "Bad", URL: srv.URL + "/bad"},
		{Name: "Good", URL: srv.URL + "/good"},
	}}, testClient())

	items, err := s.Fetch(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestEntryImage(t *testing.T) {
	parse := func(item string) *gofeed.Item {
		feed, err := gofeed.NewParser().ParseString(fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel><title>t</title><item><title>x</title>%s</item></channel></rss>`, item))
		require.NoError(t, err)
		require.Len(t, feed.Items, 1)
		return feed.Items[0]
	}

	assert.Equal(t, "https://x/media.jpg",
		entryImage(parse(`<media:content url="https://x/media.jpg" medium="image"/>`)))
	assert.Equal(t, "https://x/enc.png",
		entryImage(parse(`<enclosure url="https://x/enc.png" type="image/png" length="1"/>`)))
	assert.Equal(t, "https://x/inline.gif",
		entryImage(parse(`<content:encoded><![CDATA[<p>hi</p><img src="https://x/inline.gif">]]></content:encoded>`)))
	assert.Equal(t, "", entryImage(parse(`<description>no image</description>`)))
}
