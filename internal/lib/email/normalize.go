// Package email приводит адреса электронной почты к каноничному ключу сравнения.
package email

import "strings"

// Normalize возвращает каноничную форму адреса для проверки уникальности.
//
// Пробелы по краям отбрасываются, пустая строка остаётся пустой. Адрес,
// который не делится ровно на одну локальную часть и один домен по "@",
// возвращается без других изменений.
// Остальные адреса приводятся к нижнему регистру; для gmail.com и
// googlemail.com из локальной части удаляются точки.
func Normalize(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	lower := strings.ToLower(email)
	parts := strings.Split(lower, "@")
	if len(parts) != 2 {
		return email
	}

	local, domain := parts[0], parts[1]
	if domain == "gmail.com" || domain == "googlemail.com" {
		return strings.ReplaceAll(local, ".", "") + "@" + domain
	}
	return lower
}
