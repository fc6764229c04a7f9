package locations

import (
	"encoding/json"
	"net/http"
)

func writeLocation(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
