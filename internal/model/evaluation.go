// Package model defines the evaluation record shared by the harness, the
// run store and the CLI.
package model

import "time"

// Evaluation is the outcome of running one engine over a test set.
type Evaluation struct {
	ID         string    `json:"id,omitempty"`
	Engine     string    `json:"engine"`
	Candidate1 string    `json:"candidate1"`
	Candidate2 string    `json:"candidate2"`
	TrainSize  int       `json:"train_size"`
	Tested     int       `json:"tested"`
	Correct    int       `json:"correct"`
	Wrong      int       `json:"wrong"`
	Accuracy   float64   `json:"accuracy"`
	Failed     []string  `json:"failed,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
