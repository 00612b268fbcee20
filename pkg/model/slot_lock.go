package model

import "time"

// SlotLock is an advisory lock guarding the check-then-insert window for one
// (location, start time) slot. The unique _id makes a concurrent insert fail
// with a duplicate-key error, which the engine treats as a collision.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
