package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseLines(t *testing.T) {
	assert.Equal(t, int64(1500), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:01.50"))
	assert.InDelta(t, float32(2), parseMemoryLine("\tMaximum resident set size (kbytes): 2048"), 1e-6)
	assert.Equal(t, int64(98), parseCpuPercentageLine("\tPercent of CPU this job got: 98%"))
	assert.Equal(t, int64(42), parseCountLine("Variables: 42"))
	assert.Equal(t, int64(7), parseCountLine("Rows: 7"))
}

func TestGetTests(t *testing.T) {
	tests := getTests(defaultInstanceDirectory)

	assert.Len(t, tests, 2)
	for _, test := range tests {
		assert.Positive(t, test.Events)
		assert.Positive(t, test.Lessons)
	}
}
