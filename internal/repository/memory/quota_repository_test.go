package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotaIncrement(t *testing.T) {
	repo := NewQuotaRepository()

	assert.Equal(t, 0, repo.Count("fp-1"))
	assert.Equal(t, 1, repo.Increment("fp-1"))
	assert.Equal(t, 2, repo.Increment("fp-1"))
	assert.Equal(t, 3, repo.Increment("fp-1"))
	assert.Equal(t, 3, repo.Count("fp-1"))

	// Fingerprints do not share counters.
	assert.Equal(t, 1, repo.Increment("fp-2"))
	assert.Equal(t, 3, repo.Count("fp-1"))
}

func TestQuotaConcurrentIncrements(t *testing.T) {
	repo := NewQuotaRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			repo.Increment(fmt.Sprintf("fp-%d", n%4))
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 4; i++ {
		total += repo.Count(fmt.Sprintf("fp-%d", i))
	}
	assert.Equal(t, 20, total)
}
