// Package patch разбирает частичные обновления сущностей по явному списку
// разрешённых полей. Ключи тела запроса вне списка игнорируются, поэтому клиент
// не может записать в хранилище произвольные колонки.
package patch

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Set — упорядоченный набор изменений "колонка -> значение".
type Set struct {
	columns []string
	values  []any
}

// Add добавляет колонку в набор. Повторное добавление заменяет значение.
func (s *Set) Add(column string, value any) {
	for i, c := range s.columns {
		if c == column {
			s.values[i] = value
			return
		}
	}
	s.columns = append(s.columns, column)
	s.values = append(s.values, value)
}

// Empty сообщает, что изменений нет.
func (s Set) Empty() bool { return len(s.columns) == 0 }

// Columns возвращает колонки в порядке добавления.
func (s Set) Columns() []string { return s.columns }

// Values возвращает значения в порядке Columns.
func (s Set) Values() []any { return s.values }

// Get возвращает значение колонки, если она есть в наборе.
func (s Set) Get(column string) (any, bool) {
	for i, c := range s.columns {
		if c == column {
			return s.values[i], true
		}
	}
	return nil, false
}

// Field описывает одно разрешённое поле: колонку хранилища и способ
// декодирования JSON-значения.
type Field struct {
	Column   string
	Nullable bool
	decode   func(raw json.RawMessage) (any, error)
	clean    func(string) string
}

// Clean возвращает копию поля, которое пропускает строковое значение через fn.
func (f Field) Clean(fn func(string) string) Field {
	f.clean = fn
	return f
}

// Fields — список разрешённых полей по JSON-ключу.
type Fields map[string]Field

// Parse декодирует тело запроса и собирает Set только из разрешённых полей.
// null допускается лишь для nullable-полей и записывается как NULL.
func Parse(body []byte, fields Fields) (Set, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Set{}, fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var set Set
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		f := fields[key]
		if string(value) == "null" {
			if !f.Nullable {
				return Set{}, fmt.Errorf("%w: field %s cannot be null", models.ErrValidation, key)
			}
			set.Add(f.Column, nil)
			continue
		}
		v, err := f.decode(value)
		if err != nil {
			return Set{}, fmt.Errorf("%w: field %s: %v", models.ErrValidation, key, err)
		}
		if s, ok := v.(string); ok && f.clean != nil {
			v = f.clean(s)
		}
		set.Add(f.Column, v)
	}
	return set, nil
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// String — обязательное строковое поле.
func String(column string) Field {
	return Field{Column: column, decode: decodeAs[string]}
}

// NullableString — строковое поле, которое можно очистить через null.
func NullableString(column string) Field {
	return Field{Column: column, Nullable: true, decode: decodeAs[string]}
}

// Bool — логическое поле.
func Bool(column string) Field {
	return Field{Column: column, decode: decodeAs[bool]}
}

// Int — целочисленное поле.
func Int(column string) Field {
	return Field{Column: column, decode: decodeAs[int]}
}

// NullableInt — целочисленное поле, допускающее null.
func NullableInt(column string) Field {
	return Field{Column: column, Nullable: true, decode: decodeAs[int]}
}

// NullableFloat — дробное поле, допускающее null.
func NullableFloat(column string) Field {
	return Field{Column: column, Nullable: true, decode: decodeAs[float64]}
}

// Time — дата в формате RFC 3339.
func Time(column string) Field {
	return Field{Column: column, decode: decodeAs[time.Time]}
}

// NullableTime — дата в формате RFC 3339, допускающая null.
func NullableTime(column string) Field {
	return Field{Column: column, Nullable: true, decode: decodeAs[time.Time]}
}

// JSON — произвольный JSON-документ, сохраняемый как jsonb.
func JSON(column string) Field {
	return Field{Column: column, Nullable: true, decode: func(raw json.RawMessage) (any, error) {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid json")
		}
		return []byte(raw), nil
	}}
}

// StringList — список строк, сохраняемый как jsonb-массив.
func StringList(column string) Field {
	return Field{Column: column, decode: func(raw json.RawMessage) (any, error) {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []string{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		return b, nil
	}}
}
