package render

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/apricodi/builder/internal/schema"
)

func emptyNode() *Node {
	return textNode("p", "empty", schema.NoDataText)
}

func renderHeading(_ *Renderer, el schema.Element) *Node {
	return textNode("h2", "heading", el.Label)
}

func renderCard(_ *Renderer, el schema.Element) *Node {
	card := newNode("div", "card", textNode("h3", "card-title", el.Label))
	if strings.TrimSpace(el.Content) == "" {
		return card.add(emptyNode())
	}
	return card.add(textNode("p", "card-content", el.Content))
}

func renderInput(_ *Renderer, el schema.Element) *Node {
	inputType := el.InputType
	if inputType == "" {
		inputType = schema.DefaultInputType
	}
	input := newNode("input", "input").
		attr("type", inputType).
		attr("id", "field-"+el.ID).
		attr("name", el.ID)
	if el.Placeholder != "" {
		input.attr("placeholder", el.Placeholder)
	}
	return newNode("div", "field",
		textNode("label", "field-label", el.Label).attr("for", "field-"+el.ID),
		input,
	)
}

func renderSelect(_ *Renderer, el schema.Element) *Node {
	sel := newNode("select", "select").
		attr("id", "field-"+el.ID).
		attr("name", el.ID)
	if len(el.Options) == 0 {
		sel.add(textNode("option", "empty", schema.NoDataText).attr("value", "").attr("disabled", ""))
	}
	for _, opt := range el.Options {
		sel.add(textNode("option", "", opt).attr("value", opt))
	}
	return newNode("div", "field",
		textNode("label", "field-label", el.Label).attr("for", "field-"+el.ID),
		sel,
	)
}

func renderButton(_ *Renderer, el schema.Element) *Node {
	return textNode("button", "btn", el.Label).attr("type", "button")
}

func renderTable(_ *Renderer, el schema.Element) *Node {
	wrap := newNode("div", "table-wrap")
	if el.Label != "" {
		wrap.add(textNode("h3", "table-title", el.Label))
	}
	if len(el.Columns) == 0 {
		return wrap.add(emptyNode())
	}

	head := newNode("tr", "")
	for _, col := range el.Columns {
		head.add(textNode("th", "", col))
	}

	body := newNode("tbody", "")
	if len(el.Data) == 0 {
		cell := textNode("td", "empty", schema.NoDataText).
			attr("colspan", strconv.Itoa(len(el.Columns)))
		body.add(newNode("tr", "", cell))
	}
	for _, row := range el.Data {
		tr := newNode("tr", "")
		for _, cell := range row {
			tr.add(textNode("td", "", cell.String()))
		}
		// Short rows are padded so the grid stays aligned; long rows keep
		// their extra cells.
		for i := len(row); i < len(el.Columns); i++ {
			tr.add(newNode("td", "pad"))
		}
		body.add(tr)
	}

	return wrap.add(newNode("table", "table", newNode("thead", "", head), body))
}

func renderChat(r *Renderer, el schema.Element) *Node {
	messages := el.Messages
	if messages == nil {
		messages = schema.DefaultChatMessages()
	}

	config, _ := json.Marshal(el)
	chat := newNode("div", "chat").
		attr("data-endpoint", r.chatEndpoint).
		attr("data-element", string(config))

	list := newNode("div", "chat-messages")
	for _, msg := range messages {
		list.add(messageNode(msg))
	}

	form := newNode("form", "chat-form",
		newNode("input", "chat-input").
			attr("type", "text").
			attr("name", "message").
			attr("autocomplete", "off").
			attr("placeholder", "Type your message..."),
		textNode("button", "chat-send", "Send").attr("type", "submit"),
	)

	return chat.add(
		textNode("div", "chat-header", el.Label),
		list,
		textNode("div", "chat-typing", "...").attr("hidden", ""),
		form,
	)
}

func messageNode(msg schema.ChatMessage) *Node {
	role := msg.Role
	if role != schema.RoleUser {
		role = schema.RoleAssistant
	}
	n := newNode("div", "chat-message "+string(role), textNode("p", "chat-content", msg.Content))
	if msg.Timestamp != "" {
		n.add(textNode("span", "chat-time", msg.Timestamp))
	}
	return n
}

var nodeIcons = map[schema.NodeType]string{
	schema.NodeTrigger:   "⚡",
	schema.NodeAI:        "🤖",
	schema.NodeAction:    "⚙️",
	schema.NodeCondition: "🔀",
}

func renderWorkflow(_ *Renderer, el schema.Element) *Node {
	nodes := el.Nodes
	if nodes == nil {
		nodes = schema.DefaultWorkflowNodes()
	}
	connections := el.Connections
	if connections == nil {
		connections = schema.DefaultWorkflowConnections()
	}

	row := newNode("div", "workflow-nodes")
	for i, node := range nodes {
		icon, ok := nodeIcons[node.Type]
		if !ok {
			icon = "📦"
		}
		box := newNode("div", "workflow-node "+string(node.Type),
			textNode("span", "workflow-icon", icon),
			textNode("div", "workflow-label", node.Label),
		).attr("data-node-id", node.ID)
		if node.Description != "" {
			box.add(textNode("div", "workflow-description", node.Description))
		}
		box.add(textNode("div", "workflow-type", string(node.Type)))
		row.add(box)
		if i < len(nodes)-1 {
			row.add(textNode("span", "workflow-arrow", "→"))
		}
	}

	footer := textNode("p", "workflow-summary",
		strconv.Itoa(len(nodes))+" nodes • "+strconv.Itoa(len(connections))+" connections")

	return newNode("div", "workflow", textNode("h3", "workflow-title", el.Label), row, footer)
}

var agentStatusLabels = map[schema.AgentStatus]string{
	schema.AgentActive:     "Active",
	schema.AgentIdle:       "Idle",
	schema.AgentProcessing: "Processing",
}

func renderAgent(_ *Renderer, el schema.Element) *Node {
	capabilities := el.Capabilities
	if capabilities == nil {
		capabilities = schema.DefaultCapabilities()
	}
	status := el.Status
	if _, ok := agentStatusLabels[status]; !ok {
		status = schema.DefaultAgentStatus
	}
	description := el.Description
	if description == "" {
		description = schema.DefaultAgentDescription
	}

	caps := newNode("ul", "agent-capabilities")
	for _, c := range capabilities {
		caps.add(textNode("li", "agent-capability", c))
	}

	return newNode("div", "agent",
		newNode("div", "agent-header",
			textNode("div", "agent-avatar", "🤖"),
			textNode("h3", "agent-name", el.Label),
			textNode("p", "agent-description", description),
			textNode("span", "agent-status "+string(status), agentStatusLabels[status]),
		),
		textNode("h4", "agent-section", "Capabilities"),
		caps,
		newNode("div", "agent-actions",
			textNode("button", "btn", "Configure").attr("type", "button"),
			textNode("button", "btn secondary", "View Logs").attr("type", "button"),
		),
	)
}

func renderDataViz(_ *Renderer, el schema.Element) *Node {
	metrics := el.Metrics
	if metrics == nil {
		metrics = schema.DefaultMetrics()
	}
	chart := el.ChartType
	if chart == "" {
		chart = schema.DefaultChartType
	}

	viz := newNode("div", "data-viz "+string(chart), textNode("h3", "data-viz-title", el.Label))

	switch chart {
	case schema.ChartMetric:
		grid := newNode("div", "metric-grid")
		for _, m := range metrics {
			grid.add(newNode("div", "metric",
				textNode("div", "metric-value", m.Value.String()),
				textNode("div", "metric-label", m.Label),
			))
		}
		return viz.add(grid)

	case schema.ChartProgress:
		list := newNode("div", "progress-list")
		for _, m := range metrics {
			width := 0.0
			if m.Value.IsNumber {
				width = math.Max(0, math.Min(100, m.Value.Number))
			}
			list.add(newNode("div", "progress",
				textNode("span", "progress-label", m.Label),
				textNode("span", "progress-value", m.Value.String()+"%"),
				newNode("div", "progress-track",
					newNode("div", "progress-bar "+colorOr(m.Color)).attr("style", "width: "+percent(width)),
				),
			))
		}
		return viz.add(list)
	}

	// bar, line and unrecognised chart types share the bar layout.
	maxValue := 0.0
	for _, m := range metrics {
		if m.Value.IsNumber && m.Value.Number > maxValue {
			maxValue = m.Value.Number
		}
	}
	bars := newNode("div", "bar-chart")
	for _, m := range metrics {
		height := 0.0
		if m.Value.IsNumber && maxValue > 0 {
			height = math.Max(0, m.Value.Number/maxValue*100)
		}
		bars.add(newNode("div", "bar",
			newNode("div", "bar-fill "+colorOr(m.Color),
				textNode("span", "bar-value", m.Value.String()),
			).attr("style", "height: "+percent(height)),
			textNode("div", "bar-label", m.Label),
		))
	}
	return viz.add(bars)
}

func colorOr(color string) string {
	if color == "" {
		return "bg-orange-500"
	}
	return color
}

func percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "%"
}

func renderCodeBlock(_ *Renderer, el schema.Element) *Node {
	language := el.Language
	if language == "" {
		language = schema.DefaultLanguage
	}
	code := el.Code
	if code == "" {
		code = schema.DefaultCode
	}
	return newNode("div", "code-block",
		newNode("div", "code-header",
			textNode("span", "code-title", el.Label),
			textNode("span", "code-language", language),
		),
		newNode("pre", "", textNode("code", "language-"+language, code)),
	)
}

func renderTimeline(_ *Renderer, el schema.Element) *Node {
	events := el.Events
	if events == nil {
		events = schema.DefaultEvents()
	}
	list := newNode("ol", "timeline-events")
	for _, ev := range events {
		status := ev.Status
		if status == "" {
			status = schema.EventPending
		}
		list.add(newNode("li", "timeline-event "+string(status),
			newNode("span", "timeline-dot"),
			textNode("h4", "timeline-event-title", ev.Title),
			textNode("p", "timeline-event-description", ev.Description),
			textNode("span", "timeline-time", ev.Timestamp),
		))
	}
	return newNode("div", "timeline", textNode("h3", "timeline-title", el.Label), list)
}

func renderAPIConnector(_ *Renderer, el schema.Element) *Node {
	method := strings.ToUpper(el.Method)
	if method == "" {
		method = schema.DefaultMethod
	}
	endpoint := el.Endpoint
	if endpoint == "" {
		endpoint = schema.DefaultEndpoint
	}

	api := newNode("div", "api-connector",
		textNode("h3", "api-title", el.Label),
		newNode("div", "api-request",
			textNode("span", "api-method "+strings.ToLower(method), method),
			textNode("code", "api-endpoint", endpoint),
		),
	)

	if len(el.Headers) == 0 {
		return api.add(textNode("p", "empty", "No headers"))
	}
	keys := make([]string, 0, len(el.Headers))
	for k := range el.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	headers := newNode("dl", "api-headers")
	for _, k := range keys {
		headers.add(textNode("dt", "", k), textNode("dd", "", el.Headers[k]))
	}
	return api.add(headers)
}

func renderKanban(_ *Renderer, el schema.Element) *Node {
	columns := el.KanbanColumns
	if columns == nil {
		columns = schema.DefaultKanbanColumns()
	}
	board := newNode("div", "kanban-columns")
	for _, col := range columns {
		items := newNode("div", "kanban-items")
		if len(col.Items) == 0 {
			items.add(textNode("p", "empty", "No items"))
		}
		for _, item := range col.Items {
			card := newNode("div", "kanban-item", textNode("h5", "kanban-item-title", item.Title)).
				attr("data-item-id", item.ID)
			if item.Description != "" {
				card.add(textNode("p", "kanban-item-description", item.Description))
			}
			items.add(card)
		}
		board.add(newNode("div", "kanban-column",
			newNode("div", "kanban-column-header",
				textNode("h4", "kanban-column-title", col.Title),
				textNode("span", "kanban-count", strconv.Itoa(len(col.Items))),
			),
			items,
		).attr("data-column-id", col.ID))
	}
	return newNode("div", "kanban", textNode("h3", "kanban-title", el.Label), board)
}

// InterestAreas are the options of the contact-form interest select.
var InterestAreas = []struct{ Value, Label string }{
	{"", "Seçiniz"},
	{"demo", "Demo Talebi"},
	{"pricing", "Fiyatlandırma Bilgisi"},
	{"partnership", "İş Ortaklığı"},
	{"support", "Teknik Destek"},
	{"other", "Diğer"},
}

func renderContactForm(r *Renderer, el schema.Element) *Node {
	title := el.Label
	if title == "" {
		title = schema.DefaultContactTitle
	}

	wrap := newNode("div", "contact-form", textNode("h3", "contact-title", title))
	if el.Description != "" {
		wrap.add(textNode("p", "contact-description", el.Description))
	}

	interest := newNode("select", "select").attr("name", "interest_area")
	for _, opt := range InterestAreas {
		interest.add(textNode("option", "", opt.Label).attr("value", opt.Value))
	}

	form := newNode("form", "contact",
		contactField("name", "text", "Ad Soyad", "Adınız ve soyadınız"),
		contactField("email", "email", "E-posta", "ornek@email.com"),
		contactField("phone", "tel", "Telefon", "+90 5XX XXX XX XX"),
		contactField("company", "text", "Şirket", "Şirket adı"),
		newNode("div", "field", textNode("label", "field-label", "İlgi Alanı"), interest),
		newNode("div", "field",
			textNode("label", "field-label", "Mesajınız *"),
			newNode("textarea", "textarea").
				attr("name", "message").
				attr("rows", "4").
				attr("required", "").
				attr("placeholder", "Mesajınızı buraya yazın..."),
		),
		newNode("div", "form-error").attr("hidden", ""),
		textNode("button", "btn submit", "Gönder").attr("type", "submit"),
	).attr("method", "post").attr("action", r.leadAction)
	if r.projectID != "" {
		form.attr("data-project-id", r.projectID)
	}

	return wrap.add(form)
}

func contactField(name, inputType, label, placeholder string) *Node {
	return newNode("div", "field",
		textNode("label", "field-label", label+" *"),
		newNode("input", "input").
			attr("type", inputType).
			attr("name", name).
			attr("required", "").
			attr("placeholder", placeholder),
	)
}
