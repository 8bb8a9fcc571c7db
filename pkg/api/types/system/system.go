package system

type Info struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type Health struct {
	Status string `json:"status"`

	// name of model provider. "none" when model refinement is disabled.
	ModelProvider string `json:"model_provider"`
	ModelLoaded   bool   `json:"model_loaded"`
}

// Message is a response carrying only a message.
type Message struct {
	Message string `json:"message"`
}
