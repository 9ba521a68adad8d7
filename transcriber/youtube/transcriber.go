package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/w-h-a/originality/transcriber"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultLocation      = "https://www.youtube.com"
	playerResponseMarker = "ytInitialPlayerResponse = "
)

var errTooManyRequests = errors.New("too many requests, watch page served a captcha")

type youtubeTranscriber struct {
	options  transcriber.Options
	location string
	client   *http.Client
}

func (t *youtubeTranscriber) ListTracks(ctx context.Context, videoId string) ([]transcriber.Track, error) {
	body, err := t.get(ctx, fmt.Sprintf("%s/watch?v=%s", t.location, url.QueryEscape(videoId)))
	if err != nil {
		return nil, err
	}

	page := string(body)

	idx := strings.Index(page, playerResponseMarker)
	if idx < 0 {
		if strings.Contains(page, `class="g-recaptcha"`) {
			return nil, errTooManyRequests
		}
		return nil, fmt.Errorf("video %s: player response not found", videoId)
	}

	player := page[idx+len(playerResponseMarker):]

	captionTracks := gjson.Get(player, "captions.playerCaptionsTracklistRenderer.captionTracks").Array()
	if len(captionTracks) == 0 {
		if status := gjson.Get(player, "playabilityStatus.status").String(); len(status) > 0 && status != "OK" {
			return nil, fmt.Errorf("video %s is not playable: %s", videoId, status)
		}
		return nil, transcriber.ErrNoTranscript
	}

	tracks := make([]transcriber.Track, 0, len(captionTracks))
	for _, ct := range captionTracks {
		name := ct.Get("name.simpleText").String()
		if len(name) == 0 {
			name = ct.Get("name.runs.0.text").String()
		}

		tracks = append(tracks, transcriber.Track{
			VideoId:      videoId,
			LanguageCode: ct.Get("languageCode").String(),
			LanguageName: name,
			Generated:    ct.Get("kind").String() == "asr",
			Translatable: ct.Get("isTranslatable").Bool(),
			BaseURL:      strings.ReplaceAll(ct.Get("baseUrl").String(), "&fmt=srv3", ""),
		})
	}

	return tracks, nil
}

func (t *youtubeTranscriber) Fetch(ctx context.Context, track transcriber.Track) ([]transcriber.Snippet, error) {
	if len(track.BaseURL) == 0 {
		return nil, transcriber.ErrNoTranscript
	}

	body, err := t.get(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	return parseTimedText(body)
}

func (t *youtubeTranscriber) Translate(ctx context.Context, track transcriber.Track, languageCode string) ([]transcriber.Snippet, error) {
	if !track.Translatable || len(track.BaseURL) == 0 {
		return nil, transcriber.ErrTranslationUnavailable
	}

	body, err := t.get(ctx, track.BaseURL+"&tlang="+url.QueryEscape(languageCode))
	if err != nil {
		return nil, err
	}

	snippets, err := parseTimedText(body)
	if errors.Is(err, transcriber.ErrNoTranscript) {
		return nil, transcriber.ErrTranslationUnavailable
	}

	return snippets, err
}

func (t *youtubeTranscriber) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept-Language", t.options.Language)

	rsp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode == http.StatusTooManyRequests {
		return nil, errTooManyRequests
	}

	if rsp.StatusCode >= 400 {
		return nil, fmt.Errorf("status: %s", rsp.Status)
	}

	return io.ReadAll(rsp.Body)
}

type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(body []byte) ([]transcriber.Snippet, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, transcriber.ErrNoTranscript
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode timed text: %w", err)
	}

	snippets := make([]transcriber.Snippet, 0, len(doc.Texts))
	for _, text := range doc.Texts {
		start, _ := strconv.ParseFloat(text.Start, 64)
		dur, _ := strconv.ParseFloat(text.Dur, 64)
		snippets = append(snippets, transcriber.Snippet{
			Text:     html.UnescapeString(text.Body),
			Start:    start,
			Duration: dur,
		})
	}

	return snippets, nil
}

func NewTranscriber(opts ...transcriber.Option) transcriber.Transcriber {
	options := transcriber.NewOptions(opts...)

	location := strings.TrimSuffix(options.Location, "/")
	if len(location) == 0 {
		location = defaultLocation
	}

	t := &youtubeTranscriber{
		options:  options,
		location: location,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	return t
}
