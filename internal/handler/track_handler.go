// internal/handler/track_handler.go
package handler

import (
    "log"
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/phishsim/phishsim-backend/internal/model"
    "github.com/phishsim/phishsim-backend/internal/service"
)

// 1x1 transparent GIF
var pixelGIF = []byte{
    0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
    0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
    0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
    0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackHandler serves the two tracking entry points. Both respond
// success-looking no matter what the token decodes to, so a probing client
// cannot distinguish valid references from garbage.
type TrackHandler struct {
    Tracking *service.TrackingService
    // LandingURL is where tracked clicks land (the awareness page).
    LandingURL string
}

// HandleOpen handles GET /api/track/open/{token} and always serves the pixel.
func (h *TrackHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
    token := chi.URLParam(r, "token")

    if _, err := h.Tracking.RecordHit(token, model.EventOpen); err != nil {
        log.Println("⚠️ open hit not recorded:", err)
    }
    h.servePixel(w)
}

// HandleClick handles GET /api/track/click/{token} and always redirects.
func (h *TrackHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
    token := chi.URLParam(r, "token")

    if _, err := h.Tracking.RecordHit(token, model.EventClick); err != nil {
        log.Println("⚠️ click hit not recorded:", err)
    }
    http.Redirect(w, r, h.LandingURL, http.StatusFound)
}

func (h *TrackHandler) servePixel(w http.ResponseWriter) {
    w.Header().Set("Content-Type", "image/gif")
    w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
    w.Header().Set("Pragma", "no-cache")
    w.Header().Set("Expires", "0")
    w.Write(pixelGIF)
}
