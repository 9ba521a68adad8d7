package comments

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/w-h-a/originality/internal/service/normalize"
	"github.com/w-h-a/originality/table"
)

var linkExpr = regexp.MustCompile(`https?://[^\s<>"]+`)

type tally struct {
	comments int64
	authors  map[string]bool
	videos   map[string]bool
}

func (t *tally) add(rec table.CommentRecord) {
	t.comments++
	if len(rec.AuthorChannelId) > 0 {
		t.authors[rec.AuthorChannelId] = true
	}
	t.videos[rec.VideoId] = true
}

func newTally() *tally {
	return &tally{authors: map[string]bool{}, videos: map[string]bool{}}
}

// Authors groups comments by author channel, most active first. Comments
// without an author channel are left out.
func Authors(records []table.CommentRecord, created map[string]time.Time) []table.CommentAuthorRecord {
	byAuthor := map[string]*table.CommentAuthorRecord{}
	videos := map[string]map[string]bool{}

	var order []string

	for _, rec := range records {
		id := rec.AuthorChannelId
		if len(id) == 0 {
			continue
		}

		a, ok := byAuthor[id]
		if !ok {
			a = &table.CommentAuthorRecord{
				AuthorChannelId: id,
				AuthorName:      rec.AuthorName,
				FirstCommentAt:  rec.PublishedAt,
				LastCommentAt:   rec.PublishedAt,
			}
			byAuthor[id] = a
			videos[id] = map[string]bool{}
			order = append(order, id)
		}

		a.Comments++
		a.Likes += rec.LikeCount
		videos[id][rec.VideoId] = true

		if rec.PublishedAt.Before(a.FirstCommentAt) {
			a.FirstCommentAt = rec.PublishedAt
		}
		if rec.PublishedAt.After(a.LastCommentAt) {
			a.LastCommentAt = rec.PublishedAt
		}
	}

	authors := make([]table.CommentAuthorRecord, 0, len(order))
	for _, id := range order {
		a := byAuthor[id]
		a.Videos = int64(len(videos[id]))

		if at, ok := created[id]; ok {
			createdAt := at
			age := ageDays(at, a.FirstCommentAt)
			a.AccountCreatedAt = &createdAt
			a.AccountAgeDays = &age
		}

		authors = append(authors, *a)
	}

	sort.SliceStable(authors, func(i, j int) bool {
		if authors[i].Comments != authors[j].Comments {
			return authors[i].Comments > authors[j].Comments
		}
		return authors[i].FirstCommentAt.Before(authors[j].FirstCommentAt)
	})

	return authors
}

// Links counts the cleaned links found in comments, most shared first. A
// link repeated within one comment counts once.
func Links(records []table.CommentRecord) []table.CommentLinkRecord {
	tallies := map[string]*tally{}
	domains := map[string]string{}

	for _, rec := range records {
		seen := map[string]bool{}
		for _, raw := range linkExpr.FindAllString(rec.Text, -1) {
			link, domain, ok := CleanLink(raw)
			if !ok || seen[link] {
				continue
			}
			seen[link] = true

			if _, ok := tallies[link]; !ok {
				tallies[link] = newTally()
				domains[link] = domain
			}
			tallies[link].add(rec)
		}
	}

	links := make([]table.CommentLinkRecord, 0, len(tallies))
	for link, t := range tallies {
		links = append(links, table.CommentLinkRecord{
			Link:     link,
			Domain:   domains[link],
			Comments: t.comments,
			Authors:  int64(len(t.authors)),
			Videos:   int64(len(t.videos)),
		})
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].Comments != links[j].Comments {
			return links[i].Comments > links[j].Comments
		}
		return links[i].Link < links[j].Link
	})

	return links
}

// Hashtags counts the hashtags used in comments, most used first.
func Hashtags(records []table.CommentRecord) []table.CommentHashtagRecord {
	tallies := map[string]*tally{}

	for _, rec := range records {
		seen := map[string]bool{}
		for _, tag := range normalize.Hashtags(rec.Text) {
			if seen[tag] {
				continue
			}
			seen[tag] = true

			if _, ok := tallies[tag]; !ok {
				tallies[tag] = newTally()
			}
			tallies[tag].add(rec)
		}
	}

	tags := make([]table.CommentHashtagRecord, 0, len(tallies))
	for tag, t := range tallies {
		tags = append(tags, table.CommentHashtagRecord{
			Hashtag:  tag,
			Comments: t.comments,
			Authors:  int64(len(t.authors)),
			Videos:   int64(len(t.videos)),
		})
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Comments != tags[j].Comments {
			return tags[i].Comments > tags[j].Comments
		}
		return tags[i].Hashtag < tags[j].Hashtag
	})

	return tags
}

// CleanLink reduces a link to host and path. Trailing punctuation, a leading
// www, a trailing slash and utm_ tracking parameters are dropped.
func CleanLink(raw string) (string, string, bool) {
	raw = strings.TrimRight(raw, ".,;:!?)]}'")

	u, err := url.Parse(raw)
	if err != nil || len(u.Hostname()) == 0 {
		return "", "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	link := host + strings.TrimRight(u.EscapedPath(), "/")

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	if len(q) > 0 {
		link += "?" + q.Encode()
	}

	return link, host, true
}
