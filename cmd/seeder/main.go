package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/pageseek"
)

// sentences is the raw material for fixture pages.
var sentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"A gentle breeze rustled the leaves of the old oak tree.",
	"She found a hidden key in the dusty attic.",
	"The city skyline glowed under the starry night sky.",
	"Rain drummed on the rooftop, creating a soothing rhythm.",
	"A bright comet streaked across the horizon at midnight.",
	"The ancient library held stories that never faded.",
	"Beneath the waves, coral gardens shimmered in colors unseen.",
	"A mysterious map led them to a forgotten treasure.",
	"Sunlight filtered through curtains, turning dust motes into golden specks.",
	"The old clock chimed thirteen times in an abandoned town.",
	"A sudden thunderclap shattered the silence of the forest.",
	"The desert dunes shifted silently under a pale moon.",
	"The lighthouse beam cut through fog, guiding sailors safely.",
	"The river's current carried leaves downstream like paper boats.",
	"They explored caves filled with stalactites glittering like chandeliers.",
	"The abandoned lighthouse still broadcasts its warning every third Tuesday.",
	"Coffee tastes better when nobody's watching.",
	"The algorithm dreamed it was a butterfly sorting itself.",
	"Documentation exists in a superposition until observed.",
	"Packets take the scenic route through deprecated protocols.",
	"The edge case became the primary use case overnight.",
	"The random number generator achieved enlightenment at seed 42.",
	"Bugs are features that haven't read the specification.",
	"The compiler optimized away the entire business logic.",
	"Recursion stopped calling itself after therapy.",
	"The infinite loop found its exit condition in philosophy.",
	"The state machine achieved enlightenment and became stateless.",
	"Garbage collection found treasure instead.",
	"The scheduler scheduled its own retirement.",
}

var topics = []string{
	"Getting Started", "Installation", "Configuration", "Architecture",
	"Troubleshooting", "Performance", "Security", "Releases",
	"Integrations", "Frequently Asked Questions",
}

var (
	outDir    = flag.String("out", "seed-site", "directory to write fixture pages into")
	dbPath    = flag.String("db", "seed-db", "BadgerDB database directory to index into")
	pageCount = flag.Int("pages", 10, "number of fixture pages to generate")
	seed      = flag.Int64("seed", 42, "random seed")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	rng := rand.New(rand.NewSource(*seed))

	if err := writeSite(rng, *outDir, *pageCount); err != nil {
		slog.Error("error writing fixture site", "err", err)
		os.Exit(1)
	}
	slog.Info("fixture site written", "dir", *outDir, "pages", *pageCount)

	if err := indexSite(*dbPath, *outDir); err != nil {
		slog.Error("error indexing fixture site", "err", err)
		os.Exit(1)
	}
}

func writeSite(rng *rand.Rand, dir string, count int) error {
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte(renderPage(rng, "Home", 2)), 0o644); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		topic := topics[i%len(topics)]
		name := strings.ToLower(strings.ReplaceAll(topic, " ", "-"))
		file := filepath.Join(dir, "docs", fmt.Sprintf("%s.html", name))
		if err := os.WriteFile(file, []byte(renderPage(rng, topic, 3)), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func renderPage(rng *rand.Rand, title string, sections int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<html><head><title>%s</title></head><body>\n", title)
	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, "<section class=\"content-section\" id=\"%s-%d\">\n",
			strings.ToLower(strings.ReplaceAll(title, " ", "-")), i)
		fmt.Fprintf(&sb, "<h2>%s, part %d</h2>\n<p>", title, i+1)
		for j := 0; j < 4; j++ {
			sb.WriteString(sentences[rng.Intn(len(sentences))])
			sb.WriteString(" ")
		}
		sb.WriteString("</p>\n</section>\n")
	}
	sb.WriteString("</body></html>\n")
	return sb.String()
}

func indexSite(dbPath, root string) error {
	ix, err := pageseek.Open(dbPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	pipeline, err := ix.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.IndexDir(context.Background(), root, nil)
	if err != nil {
		return err
	}

	slog.Info("fixture site indexed", "db", dbPath,
		"indexed", report.Indexed, "failed", report.Failed)
	return nil
}
