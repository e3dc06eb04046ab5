// Package testsuite contains adapter integration tests shared by all database backends.
// Each Run function expects the state left by the functions called before it, in the
// order they are declared in the backend tests.
package testsuite

import (
	"fmt"
	"sync"

	"github.com/echowaves/chat/server/store/types"
)

func mismatchErrorString(key string, got, want any) string {
	return fmt.Sprintf("%s mismatch:\nGot  = %+v\nWant = %+v", key, got, want)
}

// race runs fn on n goroutines at once and collects the results.
func race[T any](n int, fn func() T) []T {
	results := make([]T, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return results
}

func convIds(convs []types.Conversation) []string {
	ids := make([]string, 0, len(convs))
	for i := range convs {
		ids = append(ids, convs[i].Id)
	}
	return ids
}
