// Package terms holds the static Termo de Uso text and exposes it as
// plain-text paragraphs for the document renderer.
package terms

import (
	_ "embed"
	"strings"
)

//go:embed terms.txt
var raw string

// Title and Subtitle head the rendered document.
const (
	Title    = "TERMO DE USO E RESPONSABILIDADE – MUSAE BOT"
	Subtitle = "Documento de aceitação e assinatura digital"
)

// Declaration is the fixed legal-acceptance sentence the signer
// subscribes to.
const Declaration = "Declaro que li, compreendi e aceito integralmente o Termo de Uso e Responsabilidade do Musae Bot acima descrito."

// Paragraphs returns the terms as independent plain-text blocks,
// split on blank lines. The blocks carry no markup; the renderer
// interpolates them as text only, so editable terms content cannot
// inject structure into the document.
func Paragraphs() []string {
	var out []string
	for _, block := range strings.Split(raw, "\n\n") {
		p := strings.TrimSpace(strings.ReplaceAll(block, "\n", " "))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
