package orders

import "errors"

var (
	// ErrValidation входные данные не прошли проверку; конкретное сообщение в ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrPlanNotFound тариф из запроса отсутствует в справочнике.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrOrderNotFound заказ с указанным идентификатором не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrTransitionNotAllowed переход статуса запрещён жизненным циклом заказа.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// Сообщения об ошибках валидации, возвращаемые клиенту как есть.
const (
	MsgMissingFields  = "Missing required fields"
	MsgUpdateFields   = "order_id and status required"
	MsgInvalidStatus  = "Invalid status"
	MsgUserIDRequired = "user_id required for non-admin requests"
	MsgInvalidUserID  = "user_id must be an integer"
)

// ValidationError — ошибка входных данных, текст безопасно показывать клиенту.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationError(msg string) error {
	return &ValidationError{Msg: msg}
}
