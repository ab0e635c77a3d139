package handler

import (
	"net/http"

	"github.com/your-org/demand-forecast/internal/model"
)

// versionHeader carries the version of the model that served a response.
const versionHeader = "X-Model-Version"

// NewHealthHandler returns a handler that answers HTTP 200 OK while the
// process is up, with the served model version in a header once one exists.
// It can be used for health checks by Docker or other services.
func NewHealthHandler(store *model.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snap, err := store.Current(); err == nil {
			w.Header().Set(versionHeader, snap.Version)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
