// Package models содержит доменную модель пользователя системы:
// учётные данные, хэш пароля и накопленный баланс вознаграждений.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Email         string    // Электронная почта (уникальная)
	PasswordHash  string    // Хэш пароля пользователя
	Balance       float64   // Накопленное, но ещё не выплаченное вознаграждение
	WalletAddress *string   // Адрес кошелька последней успешной выплаты
	CreatedAt     time.Time // Дата регистрации
}
