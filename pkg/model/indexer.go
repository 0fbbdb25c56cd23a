package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/limaJavier/timetabling-lp/pkg/lp"
)

var ErrUnknownToken = errors.New("unknown token")

// CollisionError reports two distinct keys that were given the same token
type CollisionError struct {
	Token  string
	First  string
	Second string
}

func (err CollisionError) Error() string {
	return fmt.Sprintf("token %q names both %v and %v", err.Token, err.First, err.Second)
}

type Naming int

const (
	SequentialNaming Naming = iota
	DescriptiveNaming
)

func (naming Naming) String() string {
	if naming == DescriptiveNaming {
		return "descriptive"
	}
	return "sequential"
}

func ParseNaming(name string) (Naming, error) {
	switch strings.ToLower(name) {
	case "sequential", "":
		return SequentialNaming, nil
	case "descriptive":
		return DescriptiveNaming, nil
	}
	return SequentialNaming, fmt.Errorf("unknown naming strategy %q", name)
}

// indexer gives a unique token to every key and vice versa. Interning is safe for concurrent use
type indexer[K comparable] interface {
	// Returns the token of the key, minting a new one the first time the key is seen
	Intern(key K) (string, error)
	// Returns the key a token was minted for
	ReverseLookup(token string) (K, error)
	// Returns one entry per token, in minting order
	Legend() []lp.LegendEntry
	Len() int
}

func newVariableIndexer(naming Naming, namer keyNamer) indexer[VariableKey] {
	return newIndexer("v", naming, namer.VariableName, namer.VariableDescription)
}

func newRowIndexer(naming Naming, namer keyNamer) indexer[RowKey] {
	return newIndexer("c", naming, namer.RowName, namer.RowDescription)
}

func newIndexer[K comparable](prefix string, naming Naming, name, describe func(key K) string) indexer[K] {
	indexer := &indexerImplementation[K]{
		tokens:   make(map[K]string),
		keys:     make(map[string]K),
		describe: describe,
	}

	if naming == DescriptiveNaming {
		indexer.mint = func(key K, _ int) string { return name(key) }
	} else {
		indexer.mint = func(_ K, sequence int) string { return fmt.Sprintf("%v%d", prefix, sequence) }
	}

	return indexer
}
