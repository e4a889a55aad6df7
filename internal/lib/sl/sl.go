// Package sl содержит атрибуты slog, общие для всего сервиса.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки. nil даёт пустой атрибут,
// который slog не выводит.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}
