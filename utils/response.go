package utils

import (
	"encoding/json"
	"net/http"

	"chudobludo/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"message": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithAppError maps a taxonomy error onto the wire.
func RespondWithAppError(w http.ResponseWriter, err *apperr.Error) {
	RespondWithError(w, err.Status(), err.Message)
}

type M map[string]interface{}
