// Package planduration переводит текстовый срок тарифа в количество дней.
package planduration

import (
	"strings"
	"time"
)

// DefaultDays применяется, если срок тарифа не распознан.
const DefaultDays = 30

// Правила проверяются по порядку, срок ищется как подстрока.
var rules = []struct {
	marker string
	days   int
}{
	{marker: "1 день", days: 1},
	{marker: "1 месяц", days: 30},
	{marker: "6 месяцев", days: 180},
	{marker: "1 год", days: 365},
}

// Days возвращает длительность тарифа в днях.
func Days(duration string) int {
	for _, r := range rules {
		if strings.Contains(duration, r.marker) {
			return r.days
		}
	}
	return DefaultDays
}

// EndDate считает дату окончания заказа от даты начала.
func EndDate(start time.Time, duration string) time.Time {
	return start.AddDate(0, 0, Days(duration))
}
