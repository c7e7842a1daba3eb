// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// MovieAddedEvent is published after an addMovie mutation commits.  It
// carries enough information for downstream consumers to log or trigger
// analytics without querying the primary database.
type MovieAddedEvent struct {
	MovieID     uint64 `json:"movie_id"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	Genre       string `json:"genre"`
	AddedBy     string `json:"added_by"`
	AddedAt     string `json:"added_at"`
}
