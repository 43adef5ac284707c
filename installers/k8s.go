package installers

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"text/template"
)

//go:embed k8s.yaml.tmpl
var defaultK8STemplate string

type Manifest struct {
	Name      string
	Namespace string
	Image     string
	Port      int
	Replicas  int
}

func (m Manifest) withDefaults() Manifest {
	if m.Namespace == "" {
		m.Namespace = "default"
	}
	if m.Replicas == 0 {
		m.Replicas = 1
	}
	return m
}

func (m Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("invalid manifest: name is required")
	}
	if m.Image == "" {
		return fmt.Errorf("invalid manifest: image is required")
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("invalid manifest: port %d is out of range", m.Port)
	}
	return nil
}

// K8S renders a Deployment and a Service for the greeter. An empty
// yamlTemplateFile uses the built-in template, "-" reads it from stdin.
func K8S(ctx context.Context, output io.Writer, yamlTemplateFile string, m Manifest) error {
	m = m.withDefaults()
	if err := m.validate(); err != nil {
		return err
	}

	txt := defaultK8STemplate
	if yamlTemplateFile != "" {
		in, err := openTemplate(yamlTemplateFile)
		if err != nil {
			return err
		}
		defer in.Close()
		b, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read template file %q: %w", yamlTemplateFile, err)
		}
		txt = string(b)
	}

	tmpl, err := template.New("k8s").Option("missingkey=error").Parse(txt)
	if err != nil {
		return fmt.Errorf("failed to parse template %q: %w", yamlTemplateFile, err)
	}
	return tmpl.Execute(output, m)
}

func openTemplate(yamlTemplateFile string) (io.ReadCloser, error) {
	if yamlTemplateFile == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fd, err := os.Open(yamlTemplateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file %q: %w", yamlTemplateFile, err)
	}
	return fd, nil
}
