// Package client drives one end-to-end submission: validate the form
// state, render the signed document, and upload it to the storage
// service.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync/atomic"
	"time"

	"musaetermo/internal/renderer"
	"musaetermo/internal/sigpad"
	"musaetermo/internal/terms"
	"musaetermo/pkg/types"

	"github.com/sirupsen/logrus"
)

// Validation failures, each with its own user-facing message.
// Checked in order: name, consent, ink.
var (
	ErrNameRequired      = errors.New("informe seu nome completo")
	ErrConsentRequired   = errors.New("você precisa aceitar os termos para continuar")
	ErrSignatureRequired = errors.New("desenhe sua assinatura no campo indicado")
)

// ErrSaveFailed is the consolidated failure for everything past
// validation. Render and transport failures both surface as this;
// the distinction only exists in the logs.
var ErrSaveFailed = errors.New("erro ao salvar o documento")

// ErrSubmissionInFlight guards against duplicate submissions while
// one is already running.
var ErrSubmissionInFlight = errors.New("envio já em andamento")

var whitespace = regexp.MustCompile(`\s+`)

// Submission is the form state handed to Submit.
type Submission struct {
	UserName      string
	SignatureDate string // YYYY-MM-DD
	AcceptTerms   bool
	Pad           *sigpad.Pad
}

// Confirmation summarizes a stored submission for the success panel.
type Confirmation struct {
	Assinante string
	Data      string // dd/mm/yyyy
	Status    string
}

// Client submits signed terms to the storage service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger

	submitting atomic.Bool
	now        func() time.Time
}

func New(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  logger,
		now:     time.Now,
	}
}

// Submit runs the whole pipeline for one submission. Validation
// failures return their distinct errors before any render or network
// work; everything after validation fails as a unit with
// ErrSaveFailed. There is no retry anywhere: a failed submission is
// re-entered by the user.
func (c *Client) Submit(ctx context.Context, sub Submission) (*Confirmation, error) {
	if whitespace.ReplaceAllString(sub.UserName, "") == "" {
		return nil, ErrNameRequired
	}
	if !sub.AcceptTerms {
		return nil, ErrConsentRequired
	}
	if sub.Pad == nil || !sub.Pad.HasInk() {
		return nil, ErrSignatureRequired
	}

	if !c.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.submitting.Store(false)

	image, err := sub.Pad.DataURL()
	if err != nil {
		return nil, c.failed("export signature", err)
	}

	record := types.SignatureRecord{
		UserName:       sub.UserName,
		SignatureDate:  sub.SignatureDate,
		SignatureImage: image,
		AcceptTerms:    true,
	}

	pdf, err := renderer.Render(record, terms.Paragraphs())
	if err != nil {
		return nil, c.failed("render document", err)
	}

	fileName := FileName(sub.UserName, c.now())
	if err := c.upload(ctx, pdf, fileName, record); err != nil {
		return nil, c.failed("upload document", err)
	}

	return &Confirmation{
		Assinante: sub.UserName,
		Data:      renderer.FormatDate(sub.SignatureDate),
		Status:    "documento salvo no servidor",
	}, nil
}

func (c *Client) upload(ctx context.Context, pdf []byte, fileName string, record types.SignatureRecord) error {
	payload := types.SavePDFRequest{
		PDFBase64: base64.StdEncoding.EncodeToString(pdf),
		FileName:  fileName,
		Signature: record,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/save-pdf", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post save-pdf: %w", err)
	}
	defer resp.Body.Close()

	var result types.SavePDFResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		if result.Error != "" {
			return fmt.Errorf("server rejected upload: %s", result.Error)
		}
		return fmt.Errorf("server rejected upload: status %d", resp.StatusCode)
	}
	return nil
}

// failed logs the real cause and hands the caller the consolidated
// failure.
func (c *Client) failed(stage string, err error) error {
	c.logger.WithError(err).WithField("stage", stage).Error("submission failed")
	return ErrSaveFailed
}

// FileName derives the storage filename from the signer's name:
// whitespace runs collapse to hyphens and a millisecond timestamp
// keeps repeat submissions distinct.
func FileName(userName string, now time.Time) string {
	slug := whitespace.ReplaceAllString(userName, "-")
	return "termo-musae-bot-" + slug + "-" + strconv.FormatInt(now.UnixMilli(), 10) + ".pdf"
}
