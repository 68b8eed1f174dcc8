// Command quota prints the current monthly usage of the metered
// scraping source straight from the database.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/quota"
	"github.com/NiklavsD/Tikodea/internal/repository"
	"github.com/NiklavsD/Tikodea/internal/scrape"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	tracker := quota.NewTracker(repository.NewSQLiteQuotaStore(db))
	status, err := tracker.Status(scrape.MeteredService, cfg.Scrape.ScrapTikMonthlyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read quota: %v\n", err)
		os.Exit(1)
	}

	rule := strings.Repeat("=", 50)

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("ScrapTik API Quota Status")
	fmt.Println(rule)
	fmt.Printf("Used:      %d/%d requests\n", status.Used, status.Limit)
	fmt.Printf("Remaining: %d requests\n", status.Remaining)
	fmt.Printf("Progress:  %.1f%%\n", status.PercentUsed)

	// Visual progress bar
	const barLength = 40
	filled := int(barLength * status.PercentUsed / 100)
	if filled > barLength {
		filled = barLength
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barLength-filled)
	fmt.Printf("\n[%s] %.1f%%\n", bar, status.PercentUsed)

	switch {
	case status.PercentUsed >= 100:
		fmt.Println("\n[!] Quota exhausted - using fallback methods")
	case status.PercentUsed >= 80:
		fmt.Printf("\n[!] Warning: Only %d requests remaining\n", status.Remaining)
	case status.PercentUsed >= 50:
		fmt.Printf("\n[*] Half used: %d requests left\n", status.Remaining)
	default:
		fmt.Printf("\n[OK] Healthy: %d requests available\n", status.Remaining)
	}

	fmt.Println(rule)
	fmt.Println()
}
