// pkg/registry/schema.go
package registry

// TemplateRegistry is the JSON file describing every email template
// kind the dispatcher may render.
type TemplateRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Templates   []Template `json:"templates"`
}

// Template describes one email kind: its subject line and whether
// sending it is currently enabled.
type Template struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Enabled     bool   `json:"enabled"`
}

// registrySchema is the JSON Schema the registry file is validated
// against at startup.
const registrySchema = `{
	"type": "object",
	"required": ["version", "templates"],
	"properties": {
		"version": {"type": "string"},
		"lastUpdated": {"type": "string"},
		"templates": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["kind", "subject", "enabled"],
				"properties": {
					"kind": {"type": "string", "minLength": 1},
					"displayName": {"type": "string"},
					"description": {"type": "string"},
					"subject": {"type": "string", "minLength": 1},
					"enabled": {"type": "boolean"}
				}
			}
		}
	}
}`
