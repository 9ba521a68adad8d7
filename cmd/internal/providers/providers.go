package providers

import (
	"fmt"
	"strings"

	"github.com/w-h-a/originality"
	"github.com/w-h-a/originality/embedder"
	googleembedder "github.com/w-h-a/originality/embedder/google"
	ollamaembedder "github.com/w-h-a/originality/embedder/ollama"
	openaiembedder "github.com/w-h-a/originality/embedder/openai"
	"github.com/w-h-a/originality/exporter"
	"github.com/w-h-a/originality/exporter/csv"
	"github.com/w-h-a/originality/exporter/postgres"
	"github.com/w-h-a/originality/generator"
	"github.com/w-h-a/originality/generator/anthropic"
	googlegenerator "github.com/w-h-a/originality/generator/google"
	openaigenerator "github.com/w-h-a/originality/generator/openai"
	"github.com/w-h-a/originality/reporter"
	reporterlog "github.com/w-h-a/originality/reporter/log"
	reporternats "github.com/w-h-a/originality/reporter/nats"
	"github.com/w-h-a/originality/transcriber"
	youtubetranscriber "github.com/w-h-a/originality/transcriber/youtube"
	videosource "github.com/w-h-a/originality/video_source"
	youtubesource "github.com/w-h-a/originality/video_source/youtube"
)

// Config selects and configures every provider. It is embedded into the kong
// config of each binary.
type Config struct {
	// Video source config
	YoutubeApiKey   string `help:"YouTube Data API key" env:"YOUTUBE_API_KEY"`
	YoutubeLocation string `help:"Base url of the YouTube Data API" default:"https://youtube.googleapis.com/" env:"YOUTUBE_LOCATION"`
	BatchSize       int    `help:"Videos per details request, at most 50" default:"50" env:"BATCH_SIZE"`

	// Comments config
	CommentPageLimit int `help:"Comment pages of 100 read per video, 0 reads all" default:"5" env:"COMMENT_PAGE_LIMIT"`

	// Transcriber config
	CaptionLocation string `help:"Base url of the watch page and caption tracks" default:"https://www.youtube.com/" env:"CAPTION_LOCATION"`
	CaptionLanguage string `help:"Accept-Language sent when scraping captions" default:"en-US" env:"CAPTION_LANGUAGE"`

	// Embedder config
	Embedder         string `help:"Embedding provider" enum:"openai,google,ollama" default:"openai" env:"EMBEDDER"`
	EmbedderApiKey   string `help:"API key of the embedding provider" env:"EMBEDDER_API_KEY"`
	EmbedderModel    string `help:"Embedding model, provider default when empty" env:"EMBEDDER_MODEL"`
	EmbedderLocation string `help:"Base url of the embedding provider" env:"EMBEDDER_LOCATION"`
	Cosine           bool   `help:"Score by cosine similarity instead of the raw inner product" env:"COSINE"`

	// Generator config
	Generator         string `help:"Keyword suggestion provider" enum:"none,openai,anthropic,google" default:"none" env:"GENERATOR"`
	GeneratorApiKey   string `help:"API key of the keyword suggestion provider" env:"GENERATOR_API_KEY"`
	GeneratorModel    string `help:"Keyword suggestion model, provider default when empty" env:"GENERATOR_MODEL"`
	GeneratorLocation string `help:"Base url of the keyword suggestion provider" env:"GENERATOR_LOCATION"`
	KeywordLimit      int    `help:"Maximum number of suggested keywords" default:"5" env:"KEYWORD_LIMIT"`

	// Reporter config
	Reporter        string `help:"Progress reporter" enum:"log,nats" default:"log" env:"REPORTER"`
	ReporterAddress string `help:"Address of the NATS server" default:"nats://localhost:4222" env:"NATS_URL"`
	ReporterSubject string `help:"Subject prefix for progress messages" default:"originality.progress" env:"NATS_SUBJECT"`

	// Exporter config
	CsvDir      string `help:"Directory to write one csv per table and run into" env:"CSV_DIR"`
	PostgresUrl string `help:"Postgres url to export runs into" env:"POSTGRES_URL"`
}

// Options builds the facade options described by the config.
func (c Config) Options() ([]originality.Option, error) {
	e, err := c.embedder()
	if err != nil {
		return nil, err
	}

	g, err := c.generator()
	if err != nil {
		return nil, err
	}

	r, err := c.reporter()
	if err != nil {
		return nil, err
	}

	opts := []originality.Option{
		originality.WithVideoSource(youtubesource.NewVideoSource(
			videosource.WithApiKey(c.YoutubeApiKey),
			videosource.WithLocation(c.YoutubeLocation),
		)),
		originality.WithTranscriber(youtubetranscriber.NewTranscriber(
			transcriber.WithLocation(c.CaptionLocation),
			transcriber.WithLanguage(c.CaptionLanguage),
		)),
		originality.WithEmbedder(e),
		originality.WithReporter(r),
		originality.WithExporters(c.exporters()...),
		originality.WithBatchSize(c.BatchSize),
		originality.WithKeywordLimit(c.KeywordLimit),
		originality.WithCommentPageLimit(c.CommentPageLimit),
	}

	if g != nil {
		opts = append(opts, originality.WithGenerator(g))
	}

	if c.Cosine {
		opts = append(opts, originality.WithCosine())
	}

	return opts, nil
}

func (c Config) embedder() (embedder.Embedder, error) {
	opts := []embedder.Option{
		embedder.WithApiKey(c.EmbedderApiKey),
	}
	if len(c.EmbedderModel) > 0 {
		opts = append(opts, embedder.WithModel(c.EmbedderModel))
	}
	if len(c.EmbedderLocation) > 0 {
		opts = append(opts, embedder.WithLocation(c.EmbedderLocation))
	}

	switch strings.ToLower(c.Embedder) {
	case "openai":
		return openaiembedder.NewEmbedder(opts...), nil
	case "google":
		return googleembedder.NewEmbedder(opts...), nil
	case "ollama":
		return ollamaembedder.NewEmbedder(opts...), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", c.Embedder)
	}
}

func (c Config) generator() (generator.Generator, error) {
	opts := []generator.Option{
		generator.WithApiKey(c.GeneratorApiKey),
		generator.WithPromptPrefix("You suggest concise search keywords for online videos."),
	}
	if len(c.GeneratorModel) > 0 {
		opts = append(opts, generator.WithModel(c.GeneratorModel))
	}
	if len(c.GeneratorLocation) > 0 {
		opts = append(opts, generator.WithLocation(c.GeneratorLocation))
	}

	switch strings.ToLower(c.Generator) {
	case "", "none":
		return nil, nil
	case "openai":
		return openaigenerator.NewGenerator(opts...), nil
	case "anthropic":
		return anthropic.NewGenerator(opts...), nil
	case "google":
		return googlegenerator.NewGenerator(opts...), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", c.Generator)
	}
}

func (c Config) reporter() (reporter.Reporter, error) {
	switch strings.ToLower(c.Reporter) {
	case "", "log":
		return reporterlog.NewReporter(), nil
	case "nats":
		return reporternats.NewReporter(
			reporter.WithLocation(c.ReporterAddress),
			reporter.WithSubject(c.ReporterSubject),
		), nil
	default:
		return nil, fmt.Errorf("unknown reporter %q", c.Reporter)
	}
}

func (c Config) exporters() []exporter.Exporter {
	var es []exporter.Exporter

	if len(c.CsvDir) > 0 {
		es = append(es, csv.NewExporter(exporter.WithLocation(c.CsvDir)))
	}

	if len(c.PostgresUrl) > 0 {
		es = append(es, postgres.NewExporter(exporter.WithLocation(c.PostgresUrl)))
	}

	return es
}
