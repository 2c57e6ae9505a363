package dto

// RoomAvailabilityResponse answers a (room, day, slot) availability check.
type RoomAvailabilityResponse struct {
	RoomID    string `json:"roomId"`
	SlotID    string `json:"slotId"`
	DayOfWeek int    `json:"dayOfWeek"`
	DayName   string `json:"dayName"`
	Available bool   `json:"available"`
}

// SlotSeedResponse reports how the catalog seeding went.
type SlotSeedResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
