package render

import (
	"github.com/apricodi/builder/internal/schema"
)

// elementFunc renders one element variant. It never returns nil.
type elementFunc func(r *Renderer, el schema.Element) *Node

// registry holds one render rule per known variant. renderer_test checks it
// against schema.ElementTypes.
var registry = map[schema.ElementType]elementFunc{
	schema.TypeHeading:      renderHeading,
	schema.TypeCard:         renderCard,
	schema.TypeInput:        renderInput,
	schema.TypeSelect:       renderSelect,
	schema.TypeButton:       renderButton,
	schema.TypeTable:        renderTable,
	schema.TypeChat:         renderChat,
	schema.TypeWorkflow:     renderWorkflow,
	schema.TypeAgent:        renderAgent,
	schema.TypeDataViz:      renderDataViz,
	schema.TypeCodeBlock:    renderCodeBlock,
	schema.TypeTimeline:     renderTimeline,
	schema.TypeAPIConnector: renderAPIConnector,
	schema.TypeKanban:       renderKanban,
	schema.TypeContactForm:  renderContactForm,
}

// Supported reports whether t has a render rule.
func Supported(t schema.ElementType) bool {
	_, ok := registry[t]
	return ok
}

// Renderer maps AppSchema values to node trees. It holds only presentation
// settings and is safe for concurrent use.
type Renderer struct {
	projectID    string
	leadAction   string
	chatEndpoint string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProjectID sets the project id submitted with contact-form leads.
func WithProjectID(id string) Option {
	return func(r *Renderer) { r.projectID = id }
}

// WithLeadAction sets the URL contact forms post to.
func WithLeadAction(url string) Option {
	return func(r *Renderer) { r.leadAction = url }
}

// WithChatEndpoint sets the websocket URL chat elements connect to.
func WithChatEndpoint(url string) Option {
	return func(r *Renderer) { r.chatEndpoint = url }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		leadAction:   "/api/leads",
		chatEndpoint: "/api/chat/ws",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the page tree: a header built from appName and
// description followed by one node per recognised element, in order.
// Elements with an unknown type are skipped. s is not modified.
func (r *Renderer) Render(s schema.AppSchema) *Node {
	name := s.AppName
	if name == "" {
		name = schema.PlaceholderAppName
	}

	header := newNode("header", "app-header",
		textNode("h1", "app-title", name),
		textNode("p", "app-description", s.Description),
	)
	header.Kind = "header"

	body := newNode("div", "app-elements")
	for _, el := range s.Elements {
		if n := r.Element(el); n != nil {
			body.add(n)
		}
	}

	page := newNode("div", "app-preview", header, body)
	page.Kind = "page"
	return page
}

// Element renders a single element, or returns nil when its type is not
// recognised.
func (r *Renderer) Element(el schema.Element) *Node {
	fn, ok := registry[el.Type]
	if !ok {
		return nil
	}
	n := fn(r, el)
	n.Kind = string(el.Type)
	n.Key = el.ID
	return n
}

// Render renders s with default settings.
func Render(s schema.AppSchema) *Node {
	return New().Render(s)
}
