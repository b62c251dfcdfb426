// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"time"

	"github.com/dujyo/creativegas/ids"
)

// ActivityCounter supplies how many transactions an actor performed
// recently. It is owned externally; in particular, whether the window is a
// calendar bucket or slides from now is the counter's decision, and the
// classifier treats the count as opaque.
type ActivityCounter interface {
	RecentCount(actor ids.ShortID, window time.Duration) (uint64, error)
}
