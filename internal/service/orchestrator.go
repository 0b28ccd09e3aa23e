package service

import (
	"fmt"
	"strings"

	"sumii-mobile-api/internal/entity"
)

// DetermineNextAgent picks the agent that should handle the next turn from the
// conversation's progress flags.
func DetermineNextAgent(conv *entity.Conversation) entity.AgentName {
	switch {
	case conv.SummaryGenerated:
		return entity.AgentRouter
	case conv.AnalysisDone:
		return entity.AgentSummary
	case conv.Facts.Complete():
		return entity.AgentReasoning
	default:
		return entity.AgentIntake
	}
}

// NextStep is a short German hint for the client about what happens next.
func NextStep(agent entity.AgentName) string {
	switch agent {
	case entity.AgentIntake:
		return "Sachverhalt erfassen (5W)"
	case entity.AgentReasoning:
		return "Fehlende Details ergänzen"
	case entity.AgentSummary:
		return "Zusammenfassung erstellen"
	default:
		return "Abgeschlossen, neue Fragen möglich"
	}
}

// BuildPrompt appends the OCR text of attached documents to the user's message.
func BuildPrompt(content string, docs []*entity.Document) string {
	var parts []string
	for _, d := range docs {
		if d.OcrText == nil || strings.TrimSpace(*d.OcrText) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Dokument: %s ---\n%s", d.Filename, strings.TrimSpace(*d.OcrText)))
	}
	if len(parts) == 0 {
		return content
	}
	return content + "\n\n[Hochgeladene Dokumente]\n" + strings.Join(parts, "\n\n")
}
