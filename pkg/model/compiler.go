package model

import (
	"fmt"
	"strings"

	"github.com/limaJavier/timetabling-lp/pkg/lp"
	"go.uber.org/zap"
)

type Compiler interface {
	Compile(input Instance) (Result, error)
}

type Options struct {
	IdleTracking      bool
	WorkingDays       bool
	DoubleLinking     DoubleLinking
	DoubleFloor       DoubleFloor
	Naming            Naming
	RoomPrecheck      bool
	RoomPrecheckLimit int // Maximum amount of candidate edges the room pre-check will explore
	Logger            *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		IdleTracking:      true,
		WorkingDays:       true,
		DoubleLinking:     PairedLinking,
		DoubleFloor:       ShortfallFloor,
		Naming:            SequentialNaming,
		RoomPrecheck:      false,
		RoomPrecheckLimit: 1_000_000,
		Logger:            zap.NewNop(),
	}
}

func ParseDoubleLinking(name string) (DoubleLinking, error) {
	switch strings.ToLower(name) {
	case "paired", "":
		return PairedLinking, nil
	case "relaxed":
		return RelaxedLinking, nil
	}
	return PairedLinking, fmt.Errorf("unknown double-lesson linking %q", name)
}

func ParseDoubleFloor(name string) (DoubleFloor, error) {
	switch strings.ToLower(name) {
	case "shortfall", "":
		return ShortfallFloor, nil
	case "hard":
		return HardFloor, nil
	}
	return ShortfallFloor, fmt.Errorf("unknown double-lesson floor %q", name)
}

type Result struct {
	Model          lp.Model
	VariableLegend []lp.LegendEntry
	RowLegend      []lp.LegendEntry
	Diagnostics    Diagnostics
}

// Legend renders the variable and row legends one after the other
func (result Result) Legend() string {
	return lp.FormatLegend("Variables", result.VariableLegend) + "\n" + lp.FormatLegend("Rows", result.RowLegend)
}
