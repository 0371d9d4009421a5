package suggest

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stressQueries = []string{
	"how to export activities",
	"download the activity listing",
	"set up camper registration",
	"reports starting with ac",
	"xyz unrelated gibberish",
	"how do i",
}

func TestConcurrentQueriesFeedbackAndSwaps(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 200},
		{workers: 4, iterationsPerWorker: 50},
		{workers: 8, iterationsPerWorker: 25},
	}

	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			e := newTestEngine(t, sampleEntries)
			baselineGoroutines := runtime.NumGoroutine()

			var wg sync.WaitGroup
			for worker := 0; worker < config.workers; worker++ {
				wg.Add(1)
				go func(worker int) {
					defer wg.Done()
					for iter := 0; iter < config.iterationsPerWorker; iter++ {
						q := stressQueries[(worker+iter)%len(stressQueries)]
						result := e.Query(q)
						if result.BestMatch != nil {
							e.RecordFeedback(q, result.BestMatch.Answer, iter%2 == 0)
						}
						if iter%10 == 0 {
							e.SwapKnowledgeBase(sampleEntries)
						}
					}
				}(worker)
			}
			wg.Wait()

			snapshot := e.ExportLearnedState()
			require.NoError(t, snapshot.Validate(), "counts and totals must agree after concurrent updates")
			assert.Equal(t, len(snapshot.Log), e.Stats()["feedbackEvents"])
			assert.LessOrEqual(t, runtime.NumGoroutine()-baselineGoroutines, 2, "goroutine leak")
		})
	}
}
