package shard

import (
	"github.com/IvanBrykalov/shardstore/logging"
	"github.com/IvanBrykalov/shardstore/store"
)

const defaultQueueSize = 1024

// Options configures a Shard. Zero values are safe; defaults are applied in New():
//   - QueueSize <= 0 => 1024 pending jobs
//   - nil Logger     => logging.Nop()
//   - Name == ""     => "shard"
//
// Store.Scheduler is always replaced by one that fires on the shard loop.
// Store.Logger defaults to Logger.
type Options struct {
	Name      string
	QueueSize int
	Logger    logging.Logger
	Store     store.Options
}
