package models

import (
	"bytes"
	"encoding/json"
)

// Status описывает состояние заказа.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses перечисляет все допустимые статусы заказа.
var Statuses = []Status{StatusPending, StatusActive, StatusCompleted, StatusCancelled}

var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusCancelled},
	StatusActive:  {StatusCompleted, StatusCancelled},
}

// UnmarshalJSON принимает статус любым JSON-значением. Нестроковое значение
// сохраняется как есть и не проходит Valid.
func (s *Status) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if string(raw) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		*s = Status(raw)
		return nil
	}
	*s = Status(str)
	return nil
}

// Valid сообщает, входит ли статус в перечень допустимых.
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal сообщает, что из статуса нет переходов.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo проверяет переход по жизненному циклу заказа:
// pending -> active|cancelled, active -> completed|cancelled.
// Повторная установка того же статуса разрешена.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}
