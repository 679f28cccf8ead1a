package response

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/savings-backend/pkg/logger"
)

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSONHeader(w, status)
	if err := json.NewEncoder(w).Encode(SuccessEnvelope{Success: true, Data: data}); err != nil {
		// headers are already sent
		logger.FromContext(r.Context()).Error("failed to encode success response", "error", err)
	}
}
