package course

import "time"

// Course is a taught course. Until multi-course support lands, a single
// course with a well-known configured identifier backs every attendance
// record.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}
