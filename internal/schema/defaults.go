package schema

// The functions below return the sample content a recognised element shows
// when its list-valued field is absent. Each call returns a fresh slice.

// DefaultChatMessages is the one-message greeting of a chat element.
func DefaultChatMessages() []ChatMessage {
	return []ChatMessage{
		{Role: RoleAssistant, Content: "Hello! How can I help you today?", Timestamp: "10:00 AM"},
	}
}

// DefaultWorkflowNodes is the three-step sample workflow.
func DefaultWorkflowNodes() []WorkflowNode {
	return []WorkflowNode{
		{ID: "1", Type: NodeTrigger, Label: "Start", Description: "Workflow trigger"},
		{ID: "2", Type: NodeAI, Label: "AI Process", Description: "AI processing step"},
		{ID: "3", Type: NodeAction, Label: "Action", Description: "Execute action"},
	}
}

// DefaultWorkflowConnections links the sample workflow nodes in order.
func DefaultWorkflowConnections() []Connection {
	return []Connection{
		{From: "1", To: "2"},
		{From: "2", To: "3"},
	}
}

// DefaultCapabilities is the capability list of an agent element.
func DefaultCapabilities() []string {
	return []string{"Natural Language Processing", "Data Analysis", "Task Automation"}
}

// DefaultMetrics is the sample data of a data visualization.
func DefaultMetrics() []Metric {
	return []Metric{
		{Label: "Sales", Value: Num(75), Color: "bg-green-500"},
		{Label: "Users", Value: Num(60), Color: "bg-blue-500"},
		{Label: "Revenue", Value: Num(90), Color: "bg-purple-500"},
	}
}

// DefaultEvents is the sample timeline.
func DefaultEvents() []TimelineEvent {
	return []TimelineEvent{
		{Title: "Project Kickoff", Description: "Requirements gathered", Timestamp: "Week 1", Status: EventCompleted},
		{Title: "Development", Description: "Building core features", Timestamp: "Week 2-4", Status: EventInProgress},
		{Title: "Launch", Description: "Go live", Timestamp: "Week 5", Status: EventPending},
	}
}

// DefaultKanbanColumns is the sample board.
func DefaultKanbanColumns() []KanbanColumn {
	return []KanbanColumn{
		{ID: "todo", Title: "To Do", Items: []KanbanItem{
			{ID: "t1", Title: "Define requirements", Description: "Collect user stories"},
		}},
		{ID: "in-progress", Title: "In Progress", Items: []KanbanItem{
			{ID: "t2", Title: "Design UI"},
		}},
		{ID: "done", Title: "Done", Items: []KanbanItem{
			{ID: "t3", Title: "Project setup"},
		}},
	}
}

// Scalar defaults.
const (
	DefaultAgentDescription = "AI Agent ready to assist"
	DefaultAgentStatus      = AgentActive
	DefaultChartType        = ChartBar
	DefaultInputType        = "text"
	DefaultMethod           = "GET"
	DefaultEndpoint         = "https://api.example.com/v1/resource"
	DefaultLanguage         = "javascript"
	DefaultCode             = "// No code provided"
	DefaultContactTitle     = "Bizimle İletişime Geçin"
	NoDataText              = "No data available"
)
