// Package storage объявляет ошибки слоя хранения, общие для всех реализаций.
package storage

import "errors"

var (
	// ErrPlanNotFound тариф с указанным идентификатором отсутствует.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrOrderNotFound ни одна строка заказа не подошла под условие.
	ErrOrderNotFound = errors.New("order not found")
)
