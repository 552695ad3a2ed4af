package models

// Plan описывает тариф из справочника subscription_plans.
// Справочник только читается сервисом.
type Plan struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Duration string `json:"duration"` // Текстовое описание срока, например "1 месяц"
}
