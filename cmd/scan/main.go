package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"statwizard/adapters/excel"
	"statwizard/domain/tabular"
	"statwizard/internal/ingest"
	"statwizard/internal/privacy"
	"statwizard/internal/profile"
	"statwizard/internal/telemetry"
)

// scanReport is the combined output of running the full ingestion and
// privacy flow against one local file.
type scanReport struct {
	Validation tabular.ValidationResult         `json:"validation"`
	Privacy    privacy.FileCheckResult          `json:"privacy"`
	Process    tabular.ProcessedFileResult      `json:"process"`
	Profiles   map[string]profile.ColumnProfile `json:"column_profiles,omitempty"`
}

func main() {
	_ = godotenv.Load()

	filePath := flag.String("file", "", "path of the CSV/Excel file to scan")
	tierName := flag.String("tier", string(tabular.TierGeneral), "user tier (GENERAL or PROFESSIONAL)")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: scan -file data.xlsx [-tier PROFESSIONAL]")
		os.Exit(2)
	}

	content, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("[scan] cannot read %s: %v", *filePath, err)
	}
	file := tabular.NewBytesFile(*filePath, content)
	tier := tabular.Tier(*tierName)

	dispatcher := telemetry.NewDispatcher(telemetry.NewLogSink())
	parser := excel.NewParser()
	validator := ingest.NewValidator(dispatcher)
	pipeline := ingest.NewPipeline(parser, validator, dispatcher)
	detector := privacy.NewDetector(dispatcher)
	checker := privacy.NewChecker(pipeline, detector, dispatcher)
	classifier := profile.NewClassifier(profile.DefaultConfig())

	ctx := context.Background()
	report := scanReport{
		Validation: validator.ValidateFile(file, tier),
		Privacy:    checker.CheckFile(ctx, file),
		Process:    pipeline.ValidateAndProcess(ctx, file, tier),
	}
	if report.Process.Error == nil && len(report.Process.Data) > 0 {
		columns := make([]string, 0, len(report.Process.Data[0]))
		for key := range report.Process.Data[0] {
			columns = append(columns, key)
		}
		report.Profiles = classifier.ClassifyColumns(report.Process.Data, columns)
	}

	// Full row data is too noisy for a terminal report
	report.Process.Data = nil

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("[scan] cannot encode report: %v", err)
	}
}
