package models

// RewardSplit описывает результат одной операции майнинга:
// 10% суммы зачисляется пользователю, 90% остаётся оператору.
// Доля оператора нигде не персистится, только возвращается клиенту.
type RewardSplit struct {
	UserShare  float64 `json:"userShare"`
	OwnerShare float64 `json:"ownerShare"`
}

// Stats снимок статистики пользователя, производный от текущего баланса.
type Stats struct {
	Mined      float64 `json:"mined"`
	UserShare  float64 `json:"userShare"`
	OwnerShare float64 `json:"ownerShare"`
}
