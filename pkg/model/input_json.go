package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

func InputFromJson(file string) (Instance, Diagnostics, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Instance{}, nil, fmt.Errorf("cannot read input file: %w", err)
	}
	return DecodeJson(bytes)
}

// DecodeJson reads an instance from its JSON rendition and resolves it
func DecodeJson(bytes []byte) (Instance, Diagnostics, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Instance{}, nil, fmt.Errorf("malformed json instance: %w", err)
	}

	diagnostics := dropInvalidCounts(inputJson)

	var rawInput RawInstance
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return Instance{}, diagnostics, fmt.Errorf("malformed json instance: %w", err)
	}

	input, processDiagnostics, err := ProcessRawInput(rawInput)
	return input, append(diagnostics, processDiagnostics...), err
}

// Event counts must be non-negative integers. mapstructure would truncate fractional numbers, so they are reported and removed before decoding
func dropInvalidCounts(inputJson map[string]any) Diagnostics {
	diagnostics := Diagnostics{}

	events, _ := inputJson["events"].([]any)
	for _, item := range events {
		event, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := event["id"].(string)

		for _, field := range []string{"duration", "maxDaily", "doubleLessons"} {
			for key, value := range event {
				number, ok := value.(float64)
				if !strings.EqualFold(key, field) || !ok {
					continue
				}
				if number < 0 || number >= 1<<64 || number != math.Trunc(number) {
					diagnostics.warn("event", id, fmt.Sprintf("invalid %v %v", field, number))
					delete(event, key)
				}
			}
		}
	}

	return diagnostics
}
