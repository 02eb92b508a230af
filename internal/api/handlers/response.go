package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Коды ошибок в теле ответа
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeOutOfHours        = "OUT_OF_HOURS"
	CodeSlotConflict      = "SLOT_CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUnavailable       = "UNAVAILABLE"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

// RetryAfterSeconds значение заголовка Retry-After для 503
const RetryAfterSeconds = 1

const msgInternalError = "internal server error"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody код и сообщение ошибки
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RespondJSON пишет payload как JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку в формате {"error":{"code","message"}}
func RespondError(w http.ResponseWriter, status int, code, message string) {
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}
	RespondJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// RespondBadRequest тело запроса не разобрано
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeBadRequest, message)
}

// RespondInvalidRequest запрос разобран, но не прошёл валидацию
func RespondInvalidRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, CodeInvalidRequest, message)
}

// RespondNotFound ресурс не найден
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, CodeNotFound, message)
}

// RespondInternalError внутренняя ошибка без подробностей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

// statusForKind внешний статус и код для вида доменной ошибки
var statusForKind = map[error]struct {
	status int
	code   string
}{
	domain.ErrNotFound:          {http.StatusNotFound, CodeNotFound},
	domain.ErrOutOfHours:        {http.StatusUnprocessableEntity, CodeOutOfHours},
	domain.ErrSlotConflict:      {http.StatusConflict, CodeSlotConflict},
	domain.ErrInvalidTransition: {http.StatusConflict, CodeInvalidTransition},
	domain.ErrInvalidRequest:    {http.StatusUnprocessableEntity, CodeInvalidRequest},
	domain.ErrUnavailable:       {http.StatusServiceUnavailable, CodeUnavailable},
}

// RespondDomainError отображает вид ошибки на HTTP статус.
// Клиенту уходит сообщение из messages для вида ошибки; текст внутренних ошибок не раскрывается.
func RespondDomainError(w http.ResponseWriter, log Logger, route string, err error, messages Messages) {
	kind := domain.KindOf(err)
	mapping, ok := statusForKind[kind]
	if !ok {
		log.Error("%s - unexpected error: %v", route, err)
		RespondInternalError(w)
		return
	}

	switch kind {
	case domain.ErrUnavailable:
		log.Error("%s - %v", route, err)
	default:
		log.Warn("%s - %v", route, err)
	}

	RespondError(w, mapping.status, mapping.code, MessageFor(err, messages))
}

// Message текст ответа для ошибки
type Message struct {
	Err  error
	Text string
}

// Messages упорядоченный список сообщений: выигрывает первое совпадение
type Messages []Message

// MessageFor выбирает первое сообщение для конкретной ошибки из messages, затем сообщение для вида ошибки
func MessageFor(err error, messages Messages) string {
	for _, m := range messages {
		if !isKind(m.Err) && errors.Is(err, m.Err) {
			return m.Text
		}
	}
	kind := domain.KindOf(err)
	for _, m := range messages {
		if m.Err == kind {
			return m.Text
		}
	}
	if message, ok := defaultMessages[kind]; ok {
		return message
	}
	return msgInternalError
}

var defaultMessages = map[error]string{
	domain.ErrNotFound:          "resource not found",
	domain.ErrOutOfHours:        "the requested time is outside working hours",
	domain.ErrSlotConflict:      "the requested time slot is already booked",
	domain.ErrInvalidTransition: "the booking cannot move to the requested status",
	domain.ErrInvalidRequest:    "invalid request",
	domain.ErrUnavailable:       "service temporarily unavailable, retry later",
}

func isKind(err error) bool {
	_, ok := statusForKind[err]
	return ok
}
