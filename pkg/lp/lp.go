package lp

import (
	"fmt"
	"strconv"
	"strings"
)

// Maximum number of terms written on a single line; longer expressions continue on the next one
const termsPerLine = 8

type Operator int

const (
	Equal Operator = iota
	LessEqual
	GreaterEqual
)

func (operator Operator) String() string {
	switch operator {
	case Equal:
		return "="
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	}
	return fmt.Sprintf("Operator(%d)", int(operator))
}

type Term struct {
	Coefficient float64
	Variable    string
}

type Row struct {
	Name          string
	Terms         []Term
	Operator      Operator
	RightHandSide float64
}

type Model struct {
	Objective []Term
	Rows      []Row
	Binaries  []string // Variables restricted to {0, 1}
	Generals  []string // Non-negative integer variables
}

// Variables returns the amount of distinct variables declared by the model's domains
func (m Model) Variables() uint64 {
	return uint64(len(m.Binaries) + len(m.Generals))
}

// ToLP renders the model in the CPLEX LP text format
func (m Model) ToLP() string {
	var builder strings.Builder

	builder.WriteString("Minimize\n")
	builder.WriteString(" obj:")
	writeExpression(&builder, m.Objective)
	builder.WriteString("\n")

	builder.WriteString("Subject To\n")
	for _, row := range m.Rows {
		fmt.Fprintf(&builder, " %s:", row.Name)
		writeExpression(&builder, row.Terms)
		fmt.Fprintf(&builder, " %s %s\n", row.Operator, formatNumber(row.RightHandSide))
	}

	if len(m.Binaries) > 0 {
		builder.WriteString("Binary\n")
		for _, variable := range m.Binaries {
			fmt.Fprintf(&builder, " %s\n", variable)
		}
	}

	if len(m.Generals) > 0 {
		builder.WriteString("General\n")
		for _, variable := range m.Generals {
			fmt.Fprintf(&builder, " %s\n", variable)
		}
	}

	builder.WriteString("End\n")
	return builder.String()
}

func writeExpression(builder *strings.Builder, terms []Term) {
	for i, term := range terms {
		if i > 0 && i%termsPerLine == 0 {
			builder.WriteString("\n  ")
		}

		coefficient := term.Coefficient
		switch {
		case coefficient < 0:
			builder.WriteString(" - ")
			coefficient = -coefficient
		case i > 0:
			builder.WriteString(" + ")
		default:
			builder.WriteString(" ")
		}

		if coefficient != 1 {
			builder.WriteString(formatNumber(coefficient))
			builder.WriteString(" ")
		}
		builder.WriteString(term.Variable)
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
