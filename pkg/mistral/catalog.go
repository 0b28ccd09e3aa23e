package mistral

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed agents.yaml
var catalogYAML []byte

type AgentSpec struct {
	Key          string   `yaml:"key"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Instructions string   `yaml:"instructions"`
	Tools        []string `yaml:"tools"`
	Handoffs     []string `yaml:"handoffs"`
}

type Catalog struct {
	Shared map[string]string                 `yaml:"shared"`
	Tools  map[string]map[string]interface{} `yaml:"tools"`
	Agents []AgentSpec                       `yaml:"agents"`
}

func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse agent catalog: %w", err)
	}
	for i := range c.Agents {
		c.Agents[i].Instructions = c.expand(c.Agents[i].Instructions)
	}
	return &c, nil
}

func (c *Catalog) expand(text string) string {
	for key, value := range c.Shared {
		text = strings.ReplaceAll(text, "{{"+key+"}}", strings.TrimSpace(value))
	}
	return strings.TrimSpace(text)
}

func (c *Catalog) Get(key string) (AgentSpec, bool) {
	for _, a := range c.Agents {
		if a.Key == key {
			return a, true
		}
	}
	return AgentSpec{}, false
}

// Keys returns agent keys in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.Agents))
	for i, a := range c.Agents {
		keys[i] = a.Key
	}
	return keys
}

// KeyForName maps a vendor display name back to a catalog key.
func (c *Catalog) KeyForName(name string) (string, bool) {
	for _, a := range c.Agents {
		if strings.EqualFold(a.Name, name) {
			return a.Key, true
		}
	}
	return "", false
}

// Request builds the create payload. document_library is only attached when libraryID is set.
func (c *Catalog) Request(spec AgentSpec, model, libraryID string) AgentRequest {
	req := AgentRequest{
		Model:        model,
		Name:         spec.Name,
		Description:  strings.TrimSpace(spec.Description),
		Instructions: spec.Instructions,
	}
	for _, name := range spec.Tools {
		if name == "document_library" {
			if libraryID != "" {
				req.Tools = append(req.Tools, Tool{"type": "document_library", "library_ids": []string{libraryID}})
			}
			continue
		}
		if def, ok := c.Tools[name]; ok {
			req.Tools = append(req.Tools, Tool(def))
		}
	}
	return req
}
