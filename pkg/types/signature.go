package types

import "time"

// SignatureRecord is the unit of one signing submission. It is built
// client-side at submit time and travels inside the upload payload;
// nothing retains it after the upload completes.
type SignatureRecord struct {
	UserName       string `json:"userName"`
	SignatureDate  string `json:"signatureDate"` // YYYY-MM-DD
	SignatureImage string `json:"signatureImage"`
	AcceptTerms    bool   `json:"acceptTerms"`
}

// LogEntry is one row of the registro.json metadata log. Field names
// match the on-disk format the original deployment produced.
type LogEntry struct {
	Arquivo   string `json:"arquivo"`
	Assinante string `json:"assinante"`
	Data      string `json:"data"`
	Timestamp string `json:"timestamp"`
}

// FileInfo describes one stored PDF as seen by the admin listing.
type FileInfo struct {
	Nome    string    `json:"nome"`
	Tamanho int64     `json:"tamanho"`
	Data    time.Time `json:"data"`
}

// SavePDFRequest is the body of POST /api/save-pdf.
type SavePDFRequest struct {
	PDFBase64 string          `json:"pdfBase64"`
	FileName  string          `json:"fileName"`
	Signature SignatureRecord `json:"signature"`
}

type SavePDFResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ListResponse is the body of GET /api/pdfs. Files and Registros are
// returned uncorrelated; reconciling by filename is the caller's
// problem.
type ListResponse struct {
	Files     []FileInfo `json:"files"`
	Registros []LogEntry `json:"registros"`
}
