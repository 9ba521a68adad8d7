package videoid

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalid = errors.New("not a video url or id")

var bare = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Parse extracts the video id from a watch, short, shorts or embed url. A
// bare id is returned as is.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)

	if bare.MatchString(s) {
		return s, nil
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", ErrInvalid
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string

	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"),
			strings.HasPrefix(u.Path, "/embed/"),
			strings.HasPrefix(u.Path, "/live/"),
			strings.HasPrefix(u.Path, "/v/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/"+firstSegment(u.Path)))
		}
	}

	if !bare.MatchString(id) {
		return "", ErrInvalid
	}

	return id, nil
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
