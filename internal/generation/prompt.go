package generation

import (
	"strings"

	"github.com/apricodi/builder/internal/schema"
)

const instructionHeader = `You are a professional UI/UX architect. Return ONLY a valid JSON object. No markdown backticks. No extra text.
Structure: { "appName": "string", "description": "string", "elements": [] }
Every element has "id" (unique string), "type" and "label".`

// variantHints describes the optional fields of each element type.
var variantHints = map[schema.ElementType]string{
	schema.TypeHeading:      "title text in label",
	schema.TypeCard:         `"content"`,
	schema.TypeInput:        `"inputType", "placeholder"`,
	schema.TypeSelect:       `"options": [string]`,
	schema.TypeButton:       "button text in label",
	schema.TypeTable:        `"columns": [string], "data": [[value]]`,
	schema.TypeChat:         `"messages": [{"role","content","timestamp"}], "companyInfo": {"name","description","products","services"}, "qaDatabase": [{"question","answer","keywords"}], "botPersonality"`,
	schema.TypeWorkflow:     `"nodes": [{"id","label","type":"trigger|action|condition|ai|end","description"}], "connections": [{"from","to"}]`,
	schema.TypeAgent:        `"capabilities": [string], "status": "active|idle|processing", "description"`,
	schema.TypeDataViz:      `"chartType": "bar|line|pie|metric|progress", "metrics": [{"label","value","color"}]`,
	schema.TypeCodeBlock:    `"code", "language"`,
	schema.TypeTimeline:     `"events": [{"id","title","description","status":"completed|in-progress|pending","timestamp"}]`,
	schema.TypeAPIConnector: `"endpoint", "method", "headers": {string: string}`,
	schema.TypeKanban:       `"kanbanColumns": [{"id","title","color","items": [{"id","title","description"}]}]`,
	schema.TypeContactForm:  `"description"`,
}

const workedExample = `Example for "Basit bir randevu formu oluştur":
{"appName":"Randevu","description":"Basit randevu formu","elements":[{"id":"1","type":"heading","label":"Randevu Al"},{"id":"2","type":"input","label":"Ad Soyad","inputType":"text"},{"id":"3","type":"button","label":"Gönder"}]}`

// Instruction is the fixed template sent ahead of every prompt.
var Instruction = buildInstruction()

func buildInstruction() string {
	var b strings.Builder
	b.WriteString(instructionHeader)
	b.WriteString("\nAllowed element types:\n")
	for _, t := range schema.ElementTypes {
		b.WriteString("- ")
		b.WriteString(string(t))
		if hint := variantHints[t]; hint != "" {
			b.WriteString(": ")
			b.WriteString(hint)
		}
		b.WriteByte('\n')
	}
	b.WriteString(workedExample)
	return b.String()
}

// ComposePrompt joins the instruction template and the user's request.
func ComposePrompt(prompt string) string {
	return Instruction + "\n\nUser Request: " + prompt
}

// StripFences removes a leading ``` or ```json fence and a trailing ```
// fence. Text without fences is returned trimmed.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
