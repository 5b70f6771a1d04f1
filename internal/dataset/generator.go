package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default generator settings.
const (
	DefaultRows = 5000
	DefaultSeed = 42
)

const (
	randomCategoryRate   = 0.30
	commentsDisabledRate = 0.05
	ratingsDisabledRate  = 0.03

	dateLayout    = "2006-01-02"
	publishLayout = "2006-01-02T15:04:05.000Z"
)

var (
	trendingStart = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	trendingEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Video is one row of the dataset.
type Video struct {
	VideoID          string
	TrendingDate     time.Time
	Title            string
	ChannelTitle     string
	CategoryID       int
	CategoryName     string
	PublishTime      time.Time
	Tags             []string
	Views            int64
	Likes            int64
	Dislikes         int64
	CommentCount     int64
	CommentsDisabled bool
	RatingsDisabled  bool
	Description      string
	Country          string
}

// Record renders the video in Columns order.
func (v Video) Record() []string {
	return []string{
		v.VideoID,
		v.TrendingDate.Format(dateLayout),
		v.Title,
		v.ChannelTitle,
		strconv.Itoa(v.CategoryID),
		v.CategoryName,
		v.PublishTime.Format(publishLayout),
		strings.Join(v.Tags, "|"),
		strconv.FormatInt(v.Views, 10),
		strconv.FormatInt(v.Likes, 10),
		strconv.FormatInt(v.Dislikes, 10),
		strconv.FormatInt(v.CommentCount, 10),
		pyBool(v.CommentsDisabled),
		pyBool(v.RatingsDisabled),
		v.Description,
		v.Country,
	}
}

// pyBool matches the "True"/"False" spelling of the public export.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Options configures a Generator.
type Options struct {
	// Rows is the number of videos to produce (default 5000).
	Rows int
	// Seed makes output reproducible (default 42).
	Seed uint64
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Generator synthesizes trending videos from a seeded PCG source.
// The same seed always yields the same rows.
type Generator struct {
	rows   int
	rng    *rand.Rand
	lower  cases.Caser
	logger *slog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(opts Options) *Generator {
	rows := opts.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		rows:   rows,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		lower:  cases.Lower(language.English),
		logger: logger,
	}
}

// Next produces one video.
func (g *Generator) Next() Video {
	ch := pick(g.rng, Channels)
	catID := ch.CategoryID
	if g.rng.Float64() < randomCategoryRate {
		catID = pick(g.rng, Categories).ID
	}

	span := int(trendingEnd.Sub(trendingStart).Hours() / 24)
	trend := trendingStart.AddDate(0, 0, g.rng.IntN(span+1))
	publish := trend.AddDate(0, 0, -(1 + g.rng.IntN(30))).
		Add(time.Duration(g.rng.IntN(24))*time.Hour + time.Duration(g.rng.IntN(60))*time.Minute)

	views, likes, dislikes, comments := g.engagement(catID)

	return Video{
		VideoID:          g.videoID(),
		TrendingDate:     trend,
		Title:            g.title(),
		ChannelTitle:     ch.Title,
		CategoryID:       catID,
		CategoryName:     CategoryName(catID),
		PublishTime:      publish,
		Tags:             g.tags(catID),
		Views:            views,
		Likes:            likes,
		Dislikes:         dislikes,
		CommentCount:     comments,
		CommentsDisabled: g.rng.Float64() < commentsDisabledRate,
		RatingsDisabled:  g.rng.Float64() < ratingsDisabledRate,
		Description:      fmt.Sprintf("Watch this video about %s. Subscribe for more!", g.lower.String(pick(g.rng, topics))),
		Country:          pick(g.rng, Countries),
	}
}

// Write streams the dataset as CSV with a header line and returns the
// number of videos written.
func (g *Generator) Write(ctx context.Context, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for i := range g.rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return i, err
			}
		}
		if err := cw.Write(g.Next().Record()); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return g.rows, fmt.Errorf("failed to flush dataset: %w", err)
	}
	return g.rows, nil
}

// WriteFile writes the dataset to path, creating parent directories.
func (g *Generator) WriteFile(ctx context.Context, path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create dataset directory: %w", err)
	}
	return writeAtomic(path, func(w io.Writer) (int, error) {
		n, err := g.Write(ctx, w)
		if err == nil {
			g.logger.Info("generated dataset", "rows", n, "path", path)
		}
		return n, err
	})
}

func (g *Generator) videoID() string {
	b := make([]byte, 11)
	for i := range b {
		b[i] = videoIDAlphabet[g.rng.IntN(len(videoIDAlphabet))]
	}
	return string(b)
}

func (g *Generator) title() string {
	r := strings.NewReplacer(
		"{n}", pick(g.rng, titleCounts),
		"{action}", pick(g.rng, actions),
		"{topic}", pick(g.rng, topics),
		"{superlative}", pick(g.rng, superlatives),
		"{celebrity}", pick(g.rng, celebrities),
	)
	return r.Replace(pick(g.rng, titleTemplates))
}

// tags keeps a random 4 to 10 of the fixed tags plus category words plus
// 3 to 8 sampled topics or actions.
func (g *Generator) tags(categoryID int) []string {
	all := []string{"youtube", "viral", "trending"}
	if name := CategoryName(categoryID); name != "Unknown" {
		all = append(all, strings.Fields(strings.ReplaceAll(g.lower.String(name), " & ", " "))...)
	}

	pool := append(append([]string{}, topics...), actions...)
	for _, extra := range sample(g.rng, pool, 3+g.rng.IntN(6)) {
		all = append(all, g.lower.String(extra))
	}

	all = dedupe(all)
	return sample(g.rng, all, min(len(all), 4+g.rng.IntN(7)))
}

// engagement draws a log-normal view count around the category baseline;
// the other counters are uniform rates of it.
func (g *Generator) engagement(categoryID int) (views, likes, dislikes, comments int64) {
	base, ok := baseViews[categoryID]
	if !ok {
		base = defaultBaseViews
	}
	views = max(1000, int64(math.Exp(g.rng.NormFloat64())*base))
	likes = int64(float64(views) * uniform(g.rng, 0.02, 0.12))
	dislikes = int64(float64(views) * uniform(g.rng, 0.001, 0.025))
	comments = int64(float64(views) * uniform(g.rng, 0.005, 0.04))
	return views, likes, dislikes, comments
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// sample returns k distinct elements of items in random order.
func sample(rng *rand.Rand, items []string, k int) []string {
	perm := rng.Perm(len(items))
	out := make([]string, k)
	for i := range k {
		out[i] = items[perm[i]]
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
