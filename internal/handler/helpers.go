package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/dukerupert/menuboard/internal/auth"
	"github.com/dukerupert/menuboard/internal/upload"
	"github.com/dukerupert/menuboard/internal/websocket"
)

// PhotoStore removes images previously stored by the upload endpoint.
// *upload.Uploader implements it.
type PhotoStore interface {
	Delete(ctx context.Context, url string) error
}

// removePhoto deletes url best-effort. Failures are logged only.
func removePhoto(ctx context.Context, photos PhotoStore, url string, logger *slog.Logger) {
	if photos == nil || url == "" {
		return
	}
	if err := photos.Delete(ctx, url); err != nil && !errors.Is(err, upload.ErrDisabled) {
		logger.Warn("delete photo", "url", url, "error", err)
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return parseInt64Param(r, "id")
}

func parseInt64Param(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// actor names the caller in created_by / updated_by columns.
func actor(s auth.Session) string {
	return fmt.Sprintf("%s:%d", s.Role, s.SubjectID)
}

func broadcast(hub *websocket.Hub, msg websocket.Message) {
	if hub != nil {
		hub.Broadcast(msg)
	}
}

// queryInt reads an optional integer query parameter. def is returned when
// the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &f, nil
}
