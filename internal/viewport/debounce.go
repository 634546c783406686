/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"sync"
	"time"

	"gowhiteboard/internal/domain"
)

// DefaultNotifyDelay is the quiet period before a view change is reported.
// Rapid pan/zoom coalesces into a single notification per quiet period.
const DefaultNotifyDelay = 300 * time.Millisecond

// viewNotifier debounces view-state change notifications. Each Notify resets
// the timer; the callback fires once per quiet period, on the timer
// goroutine. Flush fires immediately and stops the pending timer.
type viewNotifier struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(domain.View)
	timer   *time.Timer
	pending domain.View
	dirty   bool
}

func newViewNotifier(delay time.Duration, fn func(domain.View)) *viewNotifier {
	if delay <= 0 {
		delay = DefaultNotifyDelay
	}
	return &viewNotifier{delay: delay, fn: fn}
}

func (n *viewNotifier) Notify(v domain.View) {
	if n.fn == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = v
	n.dirty = true
	if n.timer == nil {
		n.timer = time.AfterFunc(n.delay, n.fire)
		return
	}
	n.timer.Reset(n.delay)
}

func (n *viewNotifier) fire() {
	n.mu.Lock()
	if !n.dirty {
		n.mu.Unlock()
		return
	}
	v := n.pending
	n.dirty = false
	n.mu.Unlock()
	n.fn(v)
}

// Flush delivers any pending notification now. Used on shutdown so the last
// view state is never lost to the debounce window.
func (n *viewNotifier) Flush() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	dirty := n.dirty
	v := n.pending
	n.dirty = false
	n.mu.Unlock()
	if dirty && n.fn != nil {
		n.fn(v)
	}
}
