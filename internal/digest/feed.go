package digest

import (
	"time"

	"github.com/gorilla/feeds"
)

// RSS renders the digest as an RSS 2.0 document.
func RSS(d Digest, link string, now time.Time) (string, error) {
	return feedFrom(d, link, now).ToRss()
}

// Atom renders the digest as an Atom document.
func Atom(d Digest, link string, now time.Time) (string, error) {
	return feedFrom(d, link, now).ToAtom()
}

func feedFrom(d Digest, link string, now time.Time) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       "This Week in AI",
		Link:        &feeds.Link{Href: link},
		Description: "Your curated AI digest · " + d.Date,
		Created:     now,
	}
	for _, sec := range d.Sections {
		for _, it := range sec.Items {
			fi := &feeds.Item{
				Id:          it.URL,
				Title:       it.Title,
				Link:        &feeds.Link{Href: it.URL},
				Description: it.Description,
				Created:     it.Published,
			}
			if it.Authors != "" {
				fi.Author = &feeds.Author{Name: it.Authors}
			}
			feed.Items = append(feed.Items, fi)
		}
	}
	return feed
}
