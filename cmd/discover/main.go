package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/originality"
	"github.com/w-h-a/originality/cmd/internal/providers"
	videoid "github.com/w-h-a/originality/util/video_id"
)

var (
	cfg struct {
		providers.Config `embed:""`

		// Run config
		Seed           string        `arg:"" help:"Seed video url or id"`
		Keywords       []string      `help:"Search keywords, suggested from the seed when empty" sep:","`
		Order          string        `help:"Search order (relevance, date, rating, title, view count)" default:""`
		Captions       string        `help:"Caption filter (include, exclude, none)" default:"include"`
		PageLimit      int           `help:"Maximum number of search pages, 0 for all" default:"2"`
		IncludeRelated bool          `help:"Add the videos related to the seed to the candidates"`
		Comments       int           `help:"Load the comments of this many top ranked videos"`
		Timeout        time.Duration `help:"Abort the run after this long" default:"10m"`
		Json           bool          `help:"Print the whole result as json"`
		Verbose        bool          `help:"Log at debug level"`
	}
)

func main() {
	// Load .env before kong reads the environment
	_ = godotenv.Load()

	// Parse inputs
	_ = kong.Parse(&cfg)

	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	seedId, err := videoid.Parse(cfg.Seed)
	if err != nil {
		log.Fatalf("❌ %s: %v", cfg.Seed, err)
	}

	opts, err := cfg.Config.Options()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	o := originality.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()

	res, err := o.Discover(ctx, originality.Request{
		SeedId:         seedId,
		Keywords:       cfg.Keywords,
		Order:          cfg.Order,
		Captions:       cfg.Captions,
		PageLimit:      cfg.PageLimit,
		IncludeRelated: cfg.IncludeRelated,
		CommentsTop:    cfg.Comments,
	})

	if cfg.Json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatalf("❌ failed to encode result: %v", err)
		}
	} else {
		printRanking(res)
	}

	if err != nil {
		var se *originality.StageError
		if errors.As(err, &se) {
			log.Fatalf("❌ run %s failed at %s: %v", res.RunId, se.Stage, se.Err)
		}
		log.Fatalf("❌ run %s failed: %v", res.RunId, err)
	}

	fmt.Fprintf(os.Stderr, "✅ run %s finished in %.1fs\n", res.RunId, time.Since(start).Seconds())
}

func printRanking(res *originality.Result) {
	fmt.Printf("Run %s, keywords %v\n\n", res.RunId, res.Keywords)

	for i, row := range res.Tables.Similarity {
		score := "   -  "
		if p := row.Percent(); p != nil {
			score = fmt.Sprintf("%5.1f%%", *p)
		}

		marker := " "
		if row.IsSeed {
			marker = "*"
		}

		fmt.Printf("%3d %s %s %s\n    %s\n", i+1, marker, score, row.Title, row.URL)
	}

	if len(res.Tables.Comments) > 0 {
		fmt.Printf("\n%d comments from %d authors\n", len(res.Tables.Comments), len(res.Tables.CommentSummary))
		for _, tag := range res.Tables.CommentHashtags[:min(5, len(res.Tables.CommentHashtags))] {
			fmt.Printf("    #%s (%d)\n", tag.Hashtag, tag.Comments)
		}
		for _, link := range res.Tables.CommentLinks[:min(5, len(res.Tables.CommentLinks))] {
			fmt.Printf("    %s (%d)\n", link.Link, link.Comments)
		}
	}

	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "⚠️ %s (%s): %s\n", f.VideoId, f.Stage, f.Message)
	}
}
