package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/limaJavier/timetabling-lp/pkg/config"
	applogger "github.com/limaJavier/timetabling-lp/pkg/logger"
	"github.com/limaJavier/timetabling-lp/pkg/model"
	"go.uber.org/zap"
)

var (
	validFormats = []string{"json", "xml"}
	readers      = map[string]func(string) (model.Instance, model.Diagnostics, error){
		"json": model.InputFromJson,
		"xml":  model.InputFromXml,
	}
)

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file")
	formatPtr := flag.String("format", "", `Input format. Allowed values are "json" and "xml"; if empty, it's inferred from the file extension`)
	outFilePathPtr := flag.String("out", "", "Path to the file where the LP model will be written; if empty, it'll be written into the Standard Output")
	legendFilePathPtr := flag.String("legend", "", "Path to the file where the variable and row legend will be written; if empty, no legend is written")
	configPathPtr := flag.String("config", "", "Path to the configuration file")
	roomsPtr := flag.Bool("rooms", false, "Model room assignment, overriding the configuration")
	namingPtr := flag.String("naming", "", `Naming strategy, overriding the configuration. Allowed values are "sequential" and "descriptive"`)
	flag.Parse()
	filePath := *filePathPtr
	format := strings.ToLower(*formatPtr)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	}

	// Validate arguments
	if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if !slices.Contains(validFormats, format) {
		log.Fatalf("%v is not a valid format", format)
	}

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Flags explicitly set win over the configuration
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rooms":
			cfg.Compiler.Rooms = *roomsPtr
		case "naming":
			cfg.Compiler.Naming = strings.ToLower(*namingPtr)
		}
	})

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	compiler, err := cfg.Compiler.NewCompiler(logger)
	if err != nil {
		log.Fatalf("invalid compiler configuration: %v", err)
	}

	// Extract input
	input, diagnostics, err := readers[format](filePath)
	for _, diagnostic := range diagnostics {
		logger.Warn("input diagnostic", zap.String("detail", diagnostic.String()))
	}
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Build model
	result, err := compiler.Compile(input)
	if err != nil {
		log.Fatalf("an error occurred during model construction: %v", err)
	}

	// Verify outfile is empty, if so then write the model to the Standard Output
	lp := result.Model.ToLP()
	if *outFilePathPtr == "" {
		fmt.Print(lp)
	} else if err := os.WriteFile(*outFilePathPtr, []byte(lp), 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	if *legendFilePathPtr != "" {
		if err := os.WriteFile(*legendFilePathPtr, []byte(result.Legend()), 0666); err != nil {
			log.Fatalf("an error occurred while writing to the legend file: %v", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Variables: %v\n", result.Model.Variables())
	fmt.Fprintf(os.Stderr, "Rows: %v\n", len(result.Model.Rows))
}
