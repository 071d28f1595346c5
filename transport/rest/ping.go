package rest

import "net/http"

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.With("method", "PingHandler").Error("failed to write response", "error", err)
	}
}
