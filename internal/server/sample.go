package server

import (
	"net/http"

	"github.com/skip2/go-qrcode"
)

func (s *Server) handleRandomCode(w http.ResponseWriter, r *http.Request) {
	sample, err := s.catalog.Random()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.samples.WithLabelValues(sample.Language).Inc()
	writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResp{Languages: s.catalog.Languages()})
}

// handleShareQR renders the LAN address of the game as a PNG QR code so
// players on the same network can join from a phone.
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(s.shareURL, qrcode.Medium, qrSize)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, msgQRUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
