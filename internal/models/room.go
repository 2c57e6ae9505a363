package models

import "time"

// Room is a schedulable location. Lab rooms host lab courses only and
// vice versa.
type Room struct {
	ID          string    `db:"id" json:"id"`
	Number      string    `db:"number" json:"number"`
	Block       string    `db:"block" json:"block"`
	IsLab       bool      `db:"is_lab" json:"is_lab"`
	RoomType    string    `db:"room_type" json:"room_type"`
	MinCapacity int       `db:"min_capacity" json:"min_capacity"`
	MaxCapacity int       `db:"max_capacity" json:"max_capacity"`
	TechLevel   string    `db:"tech_level" json:"tech_level"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
