package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"musaetermo/internal/sigpad"
	"musaetermo/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func inkedPad(t *testing.T) *sigpad.Pad {
	t.Helper()
	pad := sigpad.New(sigpad.DefaultWidth, sigpad.DefaultHeight)
	pad.Begin(sigpad.Point{X: 40, Y: 60})
	pad.Move(sigpad.Point{X: 300, Y: 140})
	pad.End()
	return pad
}

func TestValidationRejectsBeforeAnyNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	valid := Submission{
		UserName:      "Ana Silva",
		SignatureDate: "2024-03-01",
		AcceptTerms:   true,
		Pad:           inkedPad(t),
	}

	cases := []struct {
		name    string
		mutate  func(*Submission)
		wantErr error
	}{
		{"blank name", func(s *Submission) { s.UserName = "   " }, ErrNameRequired},
		{"empty name", func(s *Submission) { s.UserName = "" }, ErrNameRequired},
		{"no consent", func(s *Submission) { s.AcceptTerms = false }, ErrConsentRequired},
		{"no ink", func(s *Submission) { s.Pad = sigpad.New(600, 200) }, ErrSignatureRequired},
		{"nil pad", func(s *Submission) { s.Pad = nil }, ErrSignatureRequired},
		{"name checked before consent", func(s *Submission) {
			s.UserName = ""
			s.AcceptTerms = false
			s.Pad = nil
		}, ErrNameRequired},
		{"consent checked before ink", func(s *Submission) {
			s.AcceptTerms = false
			s.Pad = nil
		}, ErrConsentRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := valid
			tc.mutate(&sub)
			_, err := c.Submit(context.Background(), sub)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Equal(t, int64(0), calls.Load(), "validation failures must not reach the network")
}

func TestSubmitSuccess(t *testing.T) {
	var received types.SavePDFRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/save-pdf", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.SavePDFResponse{Success: true})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	c.now = func() time.Time { return time.UnixMilli(1709300000000) }

	confirmation, err := c.Submit(context.Background(), Submission{
		UserName:      "Ana Silva",
		SignatureDate: "2024-03-01",
		AcceptTerms:   true,
		Pad:           inkedPad(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Silva", confirmation.Assinante)
	assert.Equal(t, "01/03/2024", confirmation.Data)
	assert.NotEmpty(t, confirmation.Status)

	assert.Equal(t, "termo-musae-bot-Ana-Silva-1709300000000.pdf", received.FileName)
	assert.Equal(t, "Ana Silva", received.Signature.UserName)
	assert.Equal(t, "2024-03-01", received.Signature.SignatureDate)
	assert.True(t, received.Signature.AcceptTerms)

	pdf, err := base64.StdEncoding.DecodeString(received.PDFBase64)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestSubmitServerFailureIsConsolidated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(types.SavePDFResponse{Error: "erro ao salvar PDF"})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.Submit(context.Background(), Submission{
		UserName:      "Ana Silva",
		SignatureDate: "2024-03-01",
		AcceptTerms:   true,
		Pad:           inkedPad(t),
	})
	assert.ErrorIs(t, err, ErrSaveFailed)
}

func TestSubmitNetworkFailureIsConsolidated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, testLogger())
	_, err := c.Submit(context.Background(), Submission{
		UserName:      "Ana Silva",
		SignatureDate: "2024-03-01",
		AcceptTerms:   true,
		Pad:           inkedPad(t),
	})
	assert.ErrorIs(t, err, ErrSaveFailed)
}

func TestSubmitSoftFailureFlag(t *testing.T) {
	// 200 with success:false still fails the submission as a unit.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.SavePDFResponse{Success: false, Error: "disco cheio"})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.Submit(context.Background(), Submission{
		UserName:      "Ana Silva",
		SignatureDate: "2024-03-01",
		AcceptTerms:   true,
		Pad:           inkedPad(t),
	})
	assert.ErrorIs(t, err, ErrSaveFailed)
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1709300000000)
	name := FileName("Ana  Maria\tSilva", now)
	assert.Equal(t, "termo-musae-bot-Ana-Maria-Silva-1709300000000.pdf", name)
	assert.Regexp(t, regexp.MustCompile(`^termo-musae-bot-.+-\d+\.pdf$`), name)
}
