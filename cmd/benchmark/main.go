package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/timetabling-lp/pkg/model"

	"github.com/samber/lo"
)

const (
	defaultExecutablePath            = "../../bin/ttlp"
	defaultInstanceDirectory         = "../../test/instances/"
	MB                       float32 = 1024 * 1024
)

type StrategyType int

const (
	timeOnly StrategyType = iota
	embeddedRoom
)

type ResultType int

const (
	compiled ResultType = iota
	failed
)

var (
	strategyTypes = map[StrategyType]string{
		timeOnly:     "time-only",
		embeddedRoom: "embedded-room",
	}
	resultTypes = map[ResultType]string{
		compiled: "compiled",
		failed:   "failed",
	}
	readers = map[string]func(string) (model.Instance, model.Diagnostics, error){
		".json": model.InputFromJson,
		".xml":  model.InputFromXml,
	}
)

type TestMetadata struct {
	Name      string
	Timeslots int
	Resources int
	Events    int
	Lessons   uint64
}

type StrategyMetadata struct {
	Type   StrategyType
	Naming model.Naming
}

type BenchmarkResult struct {
	Strategy      StrategyMetadata
	Test          TestMetadata
	Variables     int64
	Rows          int64
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	executablePathPtr := flag.String("executable", defaultExecutablePath, "Path to the compiler executable")
	directoryPtr := flag.String("dir", defaultInstanceDirectory, "Directory holding the instances to compile")
	outFilePathPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where results will be written")
	flag.Parse()

	tests := getTests(*directoryPtr)
	strategies := getStrategies()
	results := make([]BenchmarkResult, 0, len(tests)*len(strategies))

	for _, test := range tests {
		for _, strategy := range strategies {
			fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\" and naming \"%v\"\n", test.Name, strategyTypes[strategy.Type], strategy.Naming)

			result := measure(*executablePathPtr, strategy, test.Name)
			result.Strategy = strategy
			result.Test = test
			results = append(results, result)
		}
	}

	toCsv(*outFilePathPtr, results)
}

func getTests(directory string) []TestMetadata {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		read, ok := readers[strings.ToLower(filepath.Ext(file.Name()))]
		if file.IsDir() || !ok {
			continue
		}

		filename := filepath.Join(directory, file.Name())
		input, _, err := read(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Timeslots: len(input.Timeslots),
			Resources: len(input.Resources),
			Events:    len(input.Events),
			Lessons:   lo.SumBy(input.Events, func(event model.Event) uint64 { return event.Duration }),
		})
	}

	return tests
}

func getStrategies() []StrategyMetadata {
	return []StrategyMetadata{
		{Type: timeOnly, Naming: model.SequentialNaming},
		{Type: timeOnly, Naming: model.DescriptiveNaming},
		{Type: embeddedRoom, Naming: model.SequentialNaming},
		{Type: embeddedRoom, Naming: model.DescriptiveNaming},
	}
}

func measure(executablePath string, strategy StrategyMetadata, testFile string) (result BenchmarkResult) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath,
		"-file", testFile,
		"-out", os.DevNull,
		fmt.Sprintf("-rooms=%v", strategy.Type == embeddedRoom),
		"-naming", strategy.Naming.String(),
	)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState == nil {
		log.Fatalf("cannot execute \"%v\" at test \"%v\": %v\n", executablePath, testFile, stdErr.String())
	} else if cmd.ProcessState.ExitCode() != 0 {
		result.Result = failed
	} else {
		result.Result = compiled
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) (string, bool) {
		return lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
	}
	mustGetLine := func(substr string) string {
		line, ok := getLine(substr)
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	result.Duration = parseDurationLine(mustGetLine("wall clock"))
	result.Memory = parseMemoryLine(mustGetLine("maximum resident set size"))
	result.CpuPercentage = parseCpuPercentageLine(mustGetLine("percent of cpu"))

	// Failed compilations print no sizes
	if line, ok := getLine("variables:"); ok {
		result.Variables = parseCountLine(line)
	}
	if line, ok := getLine("rows:"); ok {
		result.Rows = parseCountLine(line)
	}

	return result
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Strategy", "Naming", "Test", "Timeslots", "Resources", "Events", "Lessons", "Variables", "Rows", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			strategyTypes[result.Strategy.Type],
			result.Strategy.Naming.String(),
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Timeslots),
			fmt.Sprintf("%d", result.Test.Resources),
			fmt.Sprintf("%d", result.Test.Events),
			fmt.Sprintf("%d", result.Test.Lessons),
			fmt.Sprintf("%d", result.Variables),
			fmt.Sprintf("%d", result.Rows),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// Resident set size is reported in KB
func parseMemoryLine(line string) float32 {
	memoryStr := strings.TrimSpace(strings.Split(line, ":")[1])
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) * 1024 / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.TrimSpace(strings.Split(line, ":")[1])
	percentageStr = strings.TrimSuffix(percentageStr, "%")
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}

func parseCountLine(line string) int64 {
	countStr := strings.TrimSpace(strings.Split(line, ":")[1])
	return lo.Must(strconv.ParseInt(countStr, 10, 64))
}
