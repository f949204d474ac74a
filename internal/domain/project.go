package domain

import "time"

// Project is a leased warehouse site that owns tasks.
type Project struct {
	ID        string
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
