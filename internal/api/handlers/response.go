// Package handlers общие помощники HTTP обработчиков
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	maxBodyBytes = 1 << 20

	msgInternalError = "внутренняя ошибка сервера"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// DecodeJSON читает тело запроса в dst, неизвестные поля запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// PathInt64 извлекает положительный числовой параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New(name + " must be positive")
	}
	return v, nil
}

// RespondJSON пишет v в формате JSON с кодом status
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError пишет ошибку с кодом status
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusBadRequest, msg)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusNotFound, msg)
}

// RespondConflict 409
func RespondConflict(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusConflict, msg)
}

// RespondUnprocessable 422
func RespondUnprocessable(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusUnprocessableEntity, msg)
}

// RespondServiceUnavailable 503, клиент может повторить запрос
func RespondServiceUnavailable(w http.ResponseWriter, msg string, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	RespondError(w, http.StatusServiceUnavailable, msg)
}

// RespondInternalError 500 без деталей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}
