package models

import (
	"time"

	"github.com/uptrace/bun"
)

// NowNullTime wraps time.Now for bun's nullable timestamp columns.
func NowNullTime() bun.NullTime {
	return bun.NullTime{Time: time.Now()}
}
