package main

//// Small CLI tool used to seed the database with the program catalog from a TOML file.
//// Safe to re-run: programs and level rules get upserted, equivalence rules are matched
//// on (source, source level, target, target level) and updated in place. A running
//// backend picks the changes up once its catalog cache TTL expires, no restart needed.

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ascend-app/backend/internal/db"
	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/pkg"
)

func init() {
	log.SetOutput(os.Stdout)
}

type failedEntry struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host := flag.String("host", "", "PostgreSQL host (e.g., localhost or IP address)")
	port := flag.String("port", "5432", "PostgreSQL port")
	dbName := flag.String("dbname", "", "PostgreSQL database name")
	catalogPath := flag.String("catalog", "", "path to the TOML catalog file")
	verbose := flag.Bool("verbose", false, "log every imported entry")
	dryRun := flag.Bool("dry-run", false, "load and validate the catalog file, skip the database writes")
	flag.Parse()

	if *host == "" || *dbName == "" {
		log.Fatalln("-host and -dbname are required")
	}
	if *catalogPath == "" {
		log.Fatalln("-catalog is required")
	}
	catalogFileExists, err := pkg.PathExists(*catalogPath, false)
	if err != nil {
		log.Fatalf("Failed to check catalog path: %v\n", err)
	}
	if !catalogFileExists {
		log.Fatalf("catalog file does not exist at path: %s\n", *catalogPath)
	}

	log.Printf("PostgreSQL Host: %s\n", *host)
	log.Printf("PostgreSQL Port: %s\n", *port)
	log.Printf("PostgreSQL DB Name: %s\n", *dbName)
	log.Printf("Catalog Path: %s\n", *catalogPath)

	catalog, err := loadCatalogFile(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v\n", err)
	}
	log.Printf(
		"Catalog loaded: %d programs, %d level rules, %d equivalence rules\n",
		len(catalog.Programs), len(catalog.Rules), len(catalog.Equivalences),
	)

	if *dryRun {
		log.Println("Dry run requested, not touching the database")
		return
	}

	repo, err := getRepo(ctx, *port, *host, *dbName)
	if err != nil {
		log.Fatalf("Failed to get repo: %v\n", err)
	}

	var failed []failedEntry
	failed = append(failed, importPrograms(ctx, repo, catalog.Programs, *verbose)...)
	failed = append(failed, importRules(ctx, repo, catalog.Rules, *verbose)...)

	failedEquivalences, err := importEquivalences(ctx, repo, catalog.Equivalences, *verbose)
	if err != nil {
		log.Fatalf("Failed to import equivalence rules: %v\n", err)
	}
	failed = append(failed, failedEquivalences...)

	// finally, print the failed entries as json so we can investigate them separately and fix them
	if len(failed) > 0 {
		failedJSON, err := json.MarshalIndent(failed, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal failed entries: %v\n", err)
		}
		log.Println("----------------------------------------------------")
		log.Printf("Failed entries below: \n")
		log.Println(string(failedJSON))
		log.Fatalf("Import finished with %d failed entries\n", len(failed))
	}

	log.Println("Import done")
}

func importPrograms(ctx context.Context, repo *programs.Repo, entries []programEntry, verbose bool) []failedEntry {
	var failed []failedEntry
	for _, entry := range entries {
		program := entry.toProgram()
		err := repo.CreateProgram(ctx, program)
		if errors.Is(err, programs.ErrProgramExists) {
			err = repo.UpdateProgram(ctx, program)
		}
		if err != nil {
			log.Printf("--- Failed to import program %s: %v\n", program.ID, err)
			failed = append(failed, failedEntry{Kind: "program", ID: program.ID, Error: err.Error()})
		} else if verbose {
			log.Printf("+++ Imported program: %s\n", program.ID)
		}
	}
	return failed
}

func importRules(ctx context.Context, repo *programs.Repo, entries []ruleEntry, verbose bool) []failedEntry {
	var failed []failedEntry
	for _, entry := range entries {
		rule := entry.toLevelRule()
		desc := fmt.Sprintf("%s L%d", rule.ProgramID, rule.Level)
		if err := repo.SetLevelRule(ctx, rule); err != nil {
			log.Printf("--- Failed to import level rule %s: %v\n", desc, err)
			failed = append(failed, failedEntry{Kind: "rule", ID: desc, Error: err.Error()})
		} else if verbose {
			log.Printf("+++ Imported level rule: %s\n", desc)
		}
	}
	return failed
}

func importEquivalences(
	ctx context.Context,
	repo *programs.Repo,
	entries []equivalenceEntry,
	verbose bool,
) ([]failedEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	existing, err := repo.ListEquivalences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing equivalence rules: %w", err)
	}
	existingIDs := make(map[equivalenceKey]int, len(existing))
	for _, rule := range existing {
		existingIDs[keyOf(rule)] = rule.ID
	}

	var failed []failedEntry
	for _, entry := range entries {
		rule := entry.toEquivalenceRule()
		desc := fmt.Sprintf(
			"%s L%d -> %s L%d",
			rule.SourceProgramID, rule.SourceLevel, rule.TargetProgramID, rule.TargetLevel,
		)
		if id, ok := existingIDs[keyOf(rule)]; ok {
			rule.ID = id
			err = repo.UpdateEquivalence(ctx, rule)
		} else {
			_, err = repo.CreateEquivalence(ctx, rule)
		}
		if err != nil {
			log.Printf("--- Failed to import equivalence rule %s: %v\n", desc, err)
			failed = append(failed, failedEntry{Kind: "equivalence", ID: desc, Error: err.Error()})
		} else if verbose {
			log.Printf("+++ Imported equivalence rule: %s\n", desc)
		}
	}
	return failed, nil
}

type equivalenceKey struct {
	sourceProgramID string
	sourceLevel     int
	targetProgramID string
	targetLevel     int
}

func keyOf(rule programs.EquivalenceRule) equivalenceKey {
	return equivalenceKey{
		sourceProgramID: rule.SourceProgramID,
		sourceLevel:     rule.SourceLevel,
		targetProgramID: rule.TargetProgramID,
		targetLevel:     rule.TargetLevel,
	}
}

func getRepo(ctx context.Context, port, host, dbName string) (*programs.Repo, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         port,
		DBName:         dbName,
		TracingEnabled: false,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return programs.NewRepo(dbPool), nil
}
