package archive

import (
	"time"

	"github.com/uptrace/bun"
)

// Record is one row of the archive: either an item reaching Done, or a
// queue being deleted. A Record for a queue deletion carries an empty
// ItemID.
type Record struct {
	bun.BaseModel `bun:"table:archive_events"`

	ID      int64  `bun:"id,pk,autoincrement"`
	QueueID string `bun:"queue_id,notnull"`
	ItemID  string `bun:"item_id,notnull,default:''"`
	Status  uint8  `bun:"status,notnull,default:0"`
	Payload []byte `bun:"payload,type:blob"`
	At      time.Time `bun:"at,notnull"`
}
