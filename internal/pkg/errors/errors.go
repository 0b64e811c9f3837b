package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется при конфликте версий агрегата (оптимистическая блокировка)
	// или при попытке создать уже существующую запись.
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда хранилище временно недоступно,
	// в том числе после исчерпания повторов при конфликте версий.
	// Вызывающая сторона может повторить запрос.
	ErrUnavailable = errors.New("storage temporarily unavailable")
)
