// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"
)

// tick sends the current time to ch at the instant every period starts,
// based on the wall clock. An absent listener will not receive an outdated
// time; the tick is skipped and missedTicksCounter incremented. Cancelling
// the context causes this to return immediately.
func tick(ctx context.Context, ch chan<- time.Time, period time.Duration) error {
	for {
		next := time.Now().Add(period).Truncate(period)

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			return fmt.Errorf("waiting for next tick: %w", ctx.Err())
		}

		select {
		case <-time.After(period / 2):
			missedTicksCounter.Inc()
		case <-ctx.Done():
			return fmt.Errorf("waiting to send tick: %w", ctx.Err())
		case ch <- next:
		}
	}
}
