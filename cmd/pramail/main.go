package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/recruitops/pramail/pkg/batch"
	"github.com/recruitops/pramail/pkg/charset"
	"github.com/recruitops/pramail/pkg/config"
	"github.com/recruitops/pramail/pkg/export"
	"github.com/recruitops/pramail/pkg/locale"
	"github.com/recruitops/pramail/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	// Version information
	Version   = "1.0.0"
	BuildDate = "unknown"

	// Global flags
	localeTag      string
	inputFolder    string
	outputFolder   string
	overridesFile  string
	logosFile      string
	filterRatings  bool
	defaultLogo    string
	watchMode      bool
	debounceString string
	assumeYes      bool

	// Color definitions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
)

func main() {
	settings := config.LoadSettings()

	rootCmd := &cobra.Command{
		Use:   "pramail",
		Short: "📧 Candidate export to recruitment email generator",
		Long: `
╔═══════════════════════════════════════════════════════════╗
║        🎯 Pramail - Premium Recruitment Assistant         ║
║   Turns candidate export files into polished HTML mails   ║
║        for German and Italian recruitment projects        ║
╚═══════════════════════════════════════════════════════════╝

Reads tab-delimited candidate export files and generates one
personalized HTML email per recruitment project. Supports charset
detection, company logo mapping and per-candidate overrides.
`,
		Version: Version,
	}

	// Global flags, defaults come from the environment (.env supported)
	rootCmd.PersistentFlags().StringVarP(&localeTag, "locale", "l", settings.Locale, "Export locale (DE or IT)")
	rootCmd.PersistentFlags().StringVarP(&inputFolder, "input", "i", settings.InputFolder, "Folder containing export .csv files")
	rootCmd.PersistentFlags().StringVarP(&outputFolder, "output", "o", settings.OutputFolder, "Output folder for generated emails")

	// Generate command
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "🔄 Generate one HTML email per export file",
		Args:  cobra.NoArgs,
		Run:   runGenerate,
	}
	generateCmd.Flags().BoolVarP(&filterRatings, "filter", "f", settings.Filter, "Keep only candidates with an accepted project rating")
	generateCmd.Flags().StringVar(&overridesFile, "overrides", "", "Path to candidate overrides JSON (photos, expertises)")
	generateCmd.Flags().StringVar(&logosFile, "logos", "", "Path to company logo mapping JSON")
	generateCmd.Flags().StringVar(&defaultLogo, "default-logo", settings.DefaultLogo, "Logo URL for projects missing from the mapping")
	generateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Watch the input folder and regenerate on changes")
	generateCmd.Flags().StringVarP(&debounceString, "debounce", "d", "1s", "Debounce duration for watch mode (e.g., 0s, 500ms, 1s, 5s)")

	// Inspect command
	inspectCmd := &cobra.Command{
		Use:   "inspect [export-file]",
		Short: "ℹ️  Show information about a candidate export file",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}

	// Clean command
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "🧹 Remove generated emails from the output folder",
		Args:  cobra.NoArgs,
		Run:   runClean,
	}
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")

	rootCmd.AddCommand(generateCmd, inspectCmd, cleanCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func buildRunner() (*batch.Runner, error) {
	loc, err := locale.Parse(localeTag)
	if err != nil {
		return nil, err
	}

	var overrides config.Overrides
	if overridesFile != "" {
		overrides, err = config.LoadOverrides(overridesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
		successColor.Printf("✅ Candidate overrides loaded for %d profiles\n", len(overrides))
	}

	var logos config.Logos
	if logosFile != "" {
		logos, err = config.LoadLogos(logosFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load logo mapping: %w", err)
		}
		successColor.Printf("✅ Logo mapping loaded for %d projects\n", len(logos))
	} else {
		infoColor.Println("ℹ️  No logo mapping provided, using placeholder logo")
	}

	return batch.NewRunner(batch.Options{
		Locale:       loc,
		InputFolder:  inputFolder,
		OutputFolder: outputFolder,
		Filter:       filterRatings,
		Overrides:    overrides,
		Logos:        logos,
		DefaultLogo:  defaultLogo,
	})
}

func runGenerate(cmd *cobra.Command, args []string) {
	runner, err := buildRunner()
	if err != nil {
		errorColor.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	results, err := runner.Run()
	if err != nil {
		errorColor.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	reportResults(results)

	if watchMode {
		debounceDuration := parseDebounceDuration(debounceString)

		infoColor.Printf("👀 Watching folder: %s\n", inputFolder)
		infoColor.Println("📝 Press Ctrl+C to stop watching")

		fw, err := watcher.NewFolderWatcher(inputFolder, batch.IsExportFile, func(path string) {
			infoColor.Printf("🔄 File changed: %s\n", filepath.Base(path))
			reportResults([]batch.FileResult{runner.RunFile(path)})
		}, debounceDuration)
		if err != nil {
			errorColor.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		defer fw.Close()

		fw.Start()

		// Wait forever
		select {}
	}

	if batch.Summarize(results).Failed > 0 {
		os.Exit(1)
	}
}

func reportResults(results []batch.FileResult) {
	for _, res := range results {
		name := filepath.Base(res.File)
		switch res.Status {
		case batch.StatusGenerated:
			successColor.Printf("✅ %s → %s (%d candidates)\n", name, filepath.Base(res.OutputPath), res.Candidates)
		case batch.StatusSkipped:
			warningColor.Printf("⏭️  %s skipped: %v\n", name, res.Err)
		case batch.StatusFailed:
			errorColor.Printf("❌ %s failed: %v\n", name, res.Err)
		}
		for _, w := range res.Warnings {
			warningColor.Printf("   ⚠️  %s\n", w)
		}
	}

	s := batch.Summarize(results)
	fmt.Println()
	infoColor.Printf("📊 %d generated, %d skipped, %d failed, %d warnings\n", s.Generated, s.Skipped, s.Failed, s.Warnings)
}

func runInspect(cmd *cobra.Command, args []string) {
	exportFile := args[0]

	loc, err := locale.Parse(localeTag)
	if err != nil {
		errorColor.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	infoColor.Printf("🔍 Reading export: %s\n", filepath.Base(exportFile))

	encoding, err := charset.DetectFile(exportFile)
	if err != nil {
		errorColor.Printf("❌ Failed to detect encoding: %v\n", err)
		os.Exit(1)
	}

	title, err := export.ProjectName(loc, exportFile)
	if err != nil {
		errorColor.Printf("❌ Failed to extract project name: %v\n", err)
		os.Exit(1)
	}

	// Unfiltered read so the rating breakdown covers every row
	candidates, err := export.Candidates(loc, exportFile, export.Options{})
	if err != nil {
		errorColor.Printf("❌ Failed to read candidates: %v\n", err)
		os.Exit(1)
	}

	byRating := make(map[string]int)
	accepted := 0
	for _, c := range candidates {
		byRating[c.Rating]++
		if _, ok := locale.RatingRank(loc, c.Rating); ok {
			accepted++
		}
	}

	fmt.Println()
	successColor.Println("📋 Export Information")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	infoColor.Printf("📁 File: %s\n", filepath.Base(exportFile))
	infoColor.Printf("🔤 Encoding: %s\n", encoding)
	infoColor.Printf("🌍 Locale: %s\n", loc)
	infoColor.Printf("📝 Project: %s\n", title)
	infoColor.Printf("👥 Candidates: %d (%d with accepted rating)\n", len(candidates), accepted)
	fmt.Println()

	successColor.Println("🗂️  Rating Breakdown")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for _, label := range locale.AcceptedRatings(loc) {
		if n, ok := byRating[label]; ok {
			fmt.Printf("   %-25s %d\n", label, n)
			delete(byRating, label)
		}
	}
	for label, n := range byRating {
		if label == "" {
			label = "(no rating)"
		}
		fmt.Printf("   %-25s %d\n", label, n)
	}
	fmt.Println()
}

func runClean(cmd *cobra.Command, args []string) {
	if !assumeYes {
		warningColor.Printf("⚠️  This removes all generated files from %s\n", outputFolder)
		fmt.Print("Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			infoColor.Println("ℹ️  Aborted")
			return
		}
	}

	removed, err := batch.ClearFolder(outputFolder)
	if err != nil {
		errorColor.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	for _, name := range removed {
		infoColor.Printf("🗑️  Removed %s\n", name)
	}
	successColor.Printf("✅ Cleaned %d files from %s\n", len(removed), outputFolder)
}

// parseDebounceDuration parses and validates a debounce duration string
func parseDebounceDuration(durationStr string) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		errorColor.Printf("❌ Invalid debounce duration '%s': %v\n", durationStr, err)
		errorColor.Println("💡 Valid examples: 0s, 500ms, 1s, 5s, 1m")
		os.Exit(1)
	}
	return duration
}

func init() {
	// Set up logging
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}
