package domain

import "time"

// Attendance records that a character was present at an event.
// The pair (EventID, CharacterID) is unique. DkpAwarded snapshots the
// event reward at record time so that removal reverses exactly what was
// credited, even if the event reward is edited afterwards.
type Attendance struct {
	EventID     uint      `json:"event_id"`
	CharacterID uint      `json:"character_id"`
	DkpAwarded  int       `json:"dkp_awarded"`
	CreatedAt   time.Time `json:"created_at"`
}

type BulkCredit struct {
	CharacterID uint `json:"character_id"`
	Credited    int  `json:"credited"`
}

type BulkFailure struct {
	CharacterID uint   `json:"character_id"`
	Reason      string `json:"reason"`
}

// BulkResult partitions a bulk attendance call into per-character
// outcomes. Failures are data, not errors; one bad character never
// aborts the rest of the batch.
type BulkResult struct {
	Successes     []BulkCredit  `json:"successes"`
	Failures      []BulkFailure `json:"failures"`
	TotalCredited int           `json:"total_credited"`
}
