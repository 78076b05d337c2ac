// Пакет errors — конструкторы стандартных ошибок Movie Manager.
// Единый формат: {"status": ..., "message": "...", "timestamp": "..."},
// при ошибках валидации дополняется полем "errors" с сообщениями по полям.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// apiError — структура тела ответа ошибки.
type apiError struct {
	// Status — HTTP статус-код
	Status int `json:"status"`
	// Message — человекочитаемое описание
	Message string `json:"message"`
	// Timestamp — время возникновения (RFC 3339, UTC)
	Timestamp string `json:"timestamp"`
	// Errors — сообщения по полям (только для ошибок валидации)
	Errors map[string]string `json:"errors,omitempty"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	writeBody(w, apiError{
		Status:    statusCode,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные с сообщениями по полям.
// Ошибки валидации никогда не достигают сервисного слоя.
func ValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	writeBody(w, apiError{
		Status:    http.StatusBadRequest,
		Message:   "Некорректные входные данные",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Errors:    fieldErrors,
	})
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// BadGateway — 502 внешняя зависимость недоступна.
func BadGateway(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// writeBody сериализует тело ошибки с нужным статус-кодом.
func writeBody(w http.ResponseWriter, body apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(body)
}
