package model

import (
	"fmt"
	"sync"

	"github.com/limaJavier/timetabling-lp/pkg/lp"
)

type indexerImplementation[K comparable] struct {
	mutex    sync.Mutex
	tokens   map[K]string
	keys     map[string]K
	order    []K
	mint     func(key K, sequence int) string
	describe func(key K) string
}

func (indexer *indexerImplementation[K]) Intern(key K) (string, error) {
	indexer.mutex.Lock()
	defer indexer.mutex.Unlock()

	if token, ok := indexer.tokens[key]; ok {
		return token, nil
	}

	token := indexer.mint(key, len(indexer.order))
	if existing, ok := indexer.keys[token]; ok {
		return "", CollisionError{
			Token:  token,
			First:  indexer.describe(existing),
			Second: indexer.describe(key),
		}
	}

	indexer.tokens[key] = token
	indexer.keys[token] = key
	indexer.order = append(indexer.order, key)
	return token, nil
}

func (indexer *indexerImplementation[K]) ReverseLookup(token string) (K, error) {
	indexer.mutex.Lock()
	defer indexer.mutex.Unlock()

	key, ok := indexer.keys[token]
	if !ok {
		return key, fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}
	return key, nil
}

func (indexer *indexerImplementation[K]) Legend() []lp.LegendEntry {
	indexer.mutex.Lock()
	defer indexer.mutex.Unlock()

	legend := make([]lp.LegendEntry, 0, len(indexer.order))
	for _, key := range indexer.order {
		legend = append(legend, lp.LegendEntry{Token: indexer.tokens[key], Description: indexer.describe(key)})
	}
	return legend
}

func (indexer *indexerImplementation[K]) Len() int {
	indexer.mutex.Lock()
	defer indexer.mutex.Unlock()
	return len(indexer.order)
}
