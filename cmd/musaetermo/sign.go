package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"musaetermo/internal/client"
	"musaetermo/internal/sigpad"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var signCommand = &cli.Command{
	Name:  "sign",
	Usage: "Submit a signed term from the command line",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Aliases:  []string{"n"},
			Usage:    "Full name of the signer",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "date",
			Usage: "Signature date (YYYY-MM-DD), defaults to today",
		},
		&cli.BoolFlag{
			Name:  "accept",
			Usage: "Accept the terms of use",
		},
		&cli.StringFlag{
			Name:     "strokes",
			Usage:    "JSON file with signature strokes: [[[x,y],...],...] in display coordinates",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "server",
			Usage: "Base URL of the storage server (defaults to BASE_URL)",
		},
	},
	Action: sign,
}

func sign(cCtx *cli.Context) error {
	logger := logrus.New()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	baseURL := cCtx.String("server")
	if baseURL == "" {
		baseURL = config.BaseURL
	}

	date := cCtx.String("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	pad, err := loadStrokes(cCtx.String("strokes"))
	if err != nil {
		return err
	}

	confirmation, err := client.New(baseURL, logger).Submit(cCtx.Context, client.Submission{
		UserName:      cCtx.String("name"),
		SignatureDate: date,
		AcceptTerms:   cCtx.Bool("accept"),
		Pad:           pad,
	})
	if err != nil {
		if errors.Is(err, client.ErrSaveFailed) {
			return fmt.Errorf("%w: verifique se o servidor está no ar em %s e tente novamente", err, baseURL)
		}
		return err
	}

	fmt.Printf("Assinante: %s\nData: %s\nStatus: %s\n",
		confirmation.Assinante, confirmation.Data, confirmation.Status)
	return nil
}

// loadStrokes replays recorded pointer strokes onto a fresh pad. Each
// stroke is a pointer-down, a run of moves, and a pointer-up.
func loadStrokes(path string) (*sigpad.Pad, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strokes file: %w", err)
	}

	var strokes [][][2]float64
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("parse strokes file: %w", err)
	}

	pad := sigpad.New(sigpad.DefaultWidth, sigpad.DefaultHeight)
	for _, stroke := range strokes {
		for i, pt := range stroke {
			p := sigpad.Point{X: pt[0], Y: pt[1]}
			if i == 0 {
				pad.Begin(p)
			} else {
				pad.Move(p)
			}
		}
		pad.End()
	}
	return pad, nil
}
