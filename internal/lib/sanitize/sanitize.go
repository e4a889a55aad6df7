// Package sanitize очищает свободный текст от HTML-разметки перед сохранением.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text удаляет все HTML-теги и возвращает обычный текст без пробелов по краям.
// Сущности раскодируются, чтобы "R&D" сохранялось как есть.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// TextPtr применяет Text к необязательному значению.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Text(*s)
	return &v
}
