package response

import "github.com/guildops/guildops-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RecordAttendanceResponse struct {
	EventID     uint `json:"event_id"`
	CharacterID uint `json:"character_id"`
	Credited    int  `json:"credited"`
}

type RemoveAttendanceResponse struct {
	EventID     uint `json:"event_id"`
	CharacterID uint `json:"character_id"`
	Reversed    int  `json:"reversed"`
}

type WishRankingResponse struct {
	ItemID  uint              `json:"item_id"`
	Wishers []domain.WishRank `json:"wishers"`
}
