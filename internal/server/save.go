package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"musaetermo/pkg/types"

	"github.com/sirupsen/logrus"
)

// handleSavePDF persists one uploaded term: the PDF lands in the
// storage directory and one entry lands in the metadata log.
func (s *Service) handleSavePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req types.SavePDFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "dados incompletos")
		return
	}

	if req.PDFBase64 == "" || req.FileName == "" {
		s.writeError(w, http.StatusBadRequest, "dados incompletos")
		return
	}

	pdf, err := base64.StdEncoding.DecodeString(req.PDFBase64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dados incompletos")
		return
	}

	safeName, err := s.archive.Save(pdf, req.FileName, req.Signature)
	if err != nil {
		s.logger.WithError(err).Error("failed to save pdf")
		s.writeError(w, http.StatusInternalServerError, "erro ao salvar PDF")
		return
	}

	// Best effort: a failed mirror upload never fails the submission.
	_ = s.mirror.Upload(r.Context(), safeName, pdf)

	s.logger.WithFields(logrus.Fields{
		"arquivo":   safeName,
		"assinante": req.Signature.UserName,
	}).Info("pdf saved")

	s.writeJSON(w, http.StatusOK, types.SavePDFResponse{
		Success: true,
		Message: "PDF salvo com sucesso",
	})
}
