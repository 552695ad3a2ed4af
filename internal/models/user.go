// Package models содержит доменные структуры сервиса заказов на вывоз мусора:
// клиента, тарифный план, заказ и их представления для ответов API.
package models

// User представляет клиента, оформившего заказ.
// Клиент идентифицируется по email; при каждом новом заказе
// имя, телефон и адрес перезаписываются последними присланными значениями.
type User struct {
	ID      int64   // Идентификатор клиента
	Name    string  // Имя клиента
	Email   string  // Электронная почта (уникальная)
	Phone   *string // Телефон, nil если не указан
	Address string  // Адрес из последнего заказа
}
