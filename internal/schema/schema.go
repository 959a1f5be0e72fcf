// Package schema defines the AppSchema document produced by generation and
// consumed by the renderer and the project store.
package schema

import (
	"encoding/json"
	"errors"
	"strconv"
)

// ElementType is the discriminator of an Element.
type ElementType string

// Known element variants.
const (
	TypeHeading      ElementType = "heading"
	TypeCard         ElementType = "card"
	TypeInput        ElementType = "input"
	TypeSelect       ElementType = "select"
	TypeButton       ElementType = "button"
	TypeTable        ElementType = "table"
	TypeChat         ElementType = "chat"
	TypeWorkflow     ElementType = "workflow"
	TypeAgent        ElementType = "agent"
	TypeDataViz      ElementType = "data-viz"
	TypeCodeBlock    ElementType = "code-block"
	TypeTimeline     ElementType = "timeline"
	TypeAPIConnector ElementType = "api-connector"
	TypeKanban       ElementType = "kanban"
	TypeContactForm  ElementType = "contact-form"
)

// ElementTypes lists every known variant in the order used by the generation
// instruction template.
var ElementTypes = []ElementType{
	TypeHeading,
	TypeCard,
	TypeInput,
	TypeSelect,
	TypeButton,
	TypeTable,
	TypeChat,
	TypeWorkflow,
	TypeAgent,
	TypeDataViz,
	TypeCodeBlock,
	TypeTimeline,
	TypeAPIConnector,
	TypeKanban,
	TypeContactForm,
}

var typeAliases = map[string]ElementType{
	"data-visualization": TypeDataViz,
}

// Known reports whether t is one of the closed set of variants.
func (t ElementType) Known() bool {
	for _, known := range ElementTypes {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts the canonical tags plus their aliases.
func (t *ElementType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if alias, ok := typeAliases[raw]; ok {
		*t = alias
		return nil
	}
	*t = ElementType(raw)
	return nil
}

// AppSchema is the root document describing a generated application.
type AppSchema struct {
	AppName     string    `json:"appName"`
	Description string    `json:"description"`
	Elements    []Element `json:"elements"`
}

// Element is one widget of an AppSchema. Fields other than ID, Type and
// Label are variant specific and optional. A nil slice means "absent" and is
// written as null, so an explicit empty list survives a store round trip.
type Element struct {
	ID    string      `json:"id"`
	Type  ElementType `json:"type"`
	Label string      `json:"label"`

	// input, select, card
	InputType   string   `json:"inputType,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options"`
	Content     string   `json:"content,omitempty"`

	// table
	Columns []string `json:"columns"`
	Data    []Row    `json:"data"`

	// chat
	Messages       []ChatMessage `json:"messages"`
	CompanyInfo    *CompanyInfo  `json:"companyInfo,omitempty"`
	QADatabase     []QAEntry     `json:"qaDatabase"`
	BotPersonality string        `json:"botPersonality,omitempty"`

	// workflow
	Nodes       []WorkflowNode `json:"nodes"`
	Connections []Connection   `json:"connections"`

	// agent, contact-form
	Capabilities []string    `json:"capabilities"`
	Status       AgentStatus `json:"status,omitempty"`
	Description  string      `json:"description,omitempty"`

	// data-viz
	ChartType ChartType `json:"chartType,omitempty"`
	Metrics   []Metric  `json:"metrics"`

	// api-connector
	Endpoint string            `json:"endpoint,omitempty"`
	Method   string            `json:"method,omitempty"`
	Headers  map[string]string `json:"headers"`

	// code-block
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`

	// timeline
	Events []TimelineEvent `json:"events"`

	// kanban
	KanbanColumns []KanbanColumn `json:"kanbanColumns"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a chat conversation.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// CompanyInfo feeds the templated replies of the chat matcher.
type CompanyInfo struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Products    []string `json:"products,omitempty"`
	Services    []string `json:"services,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Website     string   `json:"website,omitempty"`
	Address     string   `json:"address,omitempty"`
}

// QAEntry is a canned question/answer pair for the chat matcher.
type QAEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

// NodeType is the kind of a workflow node.
type NodeType string

const (
	NodeTrigger   NodeType = "trigger"
	NodeAction    NodeType = "action"
	NodeCondition NodeType = "condition"
	NodeAI        NodeType = "ai"
)

// WorkflowNode is a vertex of a workflow graph.
type WorkflowNode struct {
	ID          string   `json:"id"`
	Type        NodeType `json:"type"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
}

// Connection is a directed edge between two workflow node ids. Referential
// integrity with Nodes is not checked.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AgentStatus is the display status of an agent element.
type AgentStatus string

const (
	AgentActive     AgentStatus = "active"
	AgentIdle       AgentStatus = "idle"
	AgentProcessing AgentStatus = "processing"
)

// ChartType selects the data visualization layout.
type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartLine     ChartType = "line"
	ChartMetric   ChartType = "metric"
	ChartProgress ChartType = "progress"
)

// Metric is one data point of a data visualization.
type Metric struct {
	Label string      `json:"label"`
	Value MetricValue `json:"value"`
	Color string      `json:"color,omitempty"`
}

// EventStatus is the progress state of a timeline event.
type EventStatus string

const (
	EventCompleted  EventStatus = "completed"
	EventInProgress EventStatus = "in-progress"
	EventPending    EventStatus = "pending"
)

// TimelineEvent is one entry of a timeline element.
type TimelineEvent struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Timestamp   string      `json:"timestamp"`
	Status      EventStatus `json:"status,omitempty"`
}

// KanbanColumn is one lane of a kanban board.
type KanbanColumn struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []KanbanItem `json:"items"`
}

// KanbanItem is a card inside a kanban column.
type KanbanItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MetricValue holds either a number or a free-form string.
type MetricValue struct {
	Number   float64
	Text     string
	IsNumber bool
}

// Num returns a numeric MetricValue.
func Num(v float64) MetricValue {
	return MetricValue{Number: v, IsNumber: true}
}

// Str returns a textual MetricValue.
func Str(s string) MetricValue {
	return MetricValue{Text: s}
}

// String formats the value for display.
func (v MetricValue) String() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// UnmarshalJSON accepts a JSON number, string, bool or null.
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case float64:
		*v = Num(val)
	case string:
		*v = Str(val)
	case bool:
		*v = Str(strconv.FormatBool(val))
	case nil:
		*v = MetricValue{}
	default:
		return errors.New("metric value must be a number or a string")
	}
	return nil
}

// MarshalJSON writes the value back as a number or a string.
func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.IsNumber {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// Cell is one table cell. It keeps the original JSON so that numbers and
// booleans survive a store round trip.
type Cell struct {
	raw json.RawMessage
}

// TextCell builds a cell holding a string.
func TextCell(s string) Cell {
	b, _ := json.Marshal(s)
	return Cell{raw: b}
}

// String formats the cell for display.
func (c Cell) String() string {
	if len(c.raw) == 0 || string(c.raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.raw, &s); err == nil {
		return s
	}
	return string(c.raw)
}

// UnmarshalJSON stores the raw cell value.
func (c *Cell) UnmarshalJSON(data []byte) error {
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw cell value.
func (c Cell) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// Row is one table row. Row length is expected, but not guaranteed, to match
// the column count.
type Row []Cell

// UnmarshalJSON decodes an array of cells. A scalar row is kept as a single
// cell rather than rejected.
func (r *Row) UnmarshalJSON(data []byte) error {
	var cells []Cell
	if err := json.Unmarshal(data, &cells); err == nil {
		*r = cells
		return nil
	}
	var single Cell
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Row{single}
	return nil
}
