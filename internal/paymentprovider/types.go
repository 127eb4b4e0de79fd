package paymentprovider

// CreateTransactionRequest запрос на перевод средств на внешний кошелёк.
type CreateTransactionRequest struct {
	Amount   float64 `json:"amount" validate:"required,gte=0"`
	Currency string  `json:"currency" validate:"required"`
	Wallet   string  `json:"wallet" validate:"required"`
}

// CreateTransactionResponse ответ процессора.
// Сервис использует только флаг Success, остальные поля информационные.
type CreateTransactionResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}
