package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteResponse writes resp as a JSON body with the given status code. A nil
// resp writes the status with no body (used for 204 No Content responses).
func WriteResponse(code int, w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if resp == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
