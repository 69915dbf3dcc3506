package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/catapult-run/catapult/internal/adapters/contracts"
	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
)

// configSearchOrder mirrors the config file search order: js/ts variants
// are recognized but always fail to load, since there is no embedded JS
// runtime to execute them (see SPEC_FULL.md §6.2).
var configSearchOrder = []string{
	"catapult.config.js",
	"catapult.config.ts",
	"catapult.config.json",
	"catapult.config.yml",
	"catapult.config.yaml",
}

// Loader loads a project directory into a models.Project.
type Loader struct {
	log     *slog.Logger
	emitter *events.Emitter
	parsers []ArtifactParser
}

// NewLoader builds a Loader. emitter may be nil in contexts (tests, tools)
// that don't need duplicate_artifact_warning published; Load itself never
// requires one.
func NewLoader(log *slog.Logger, emitter *events.Emitter) *Loader {
	return &Loader{log: log, emitter: emitter, parsers: DefaultParsers()}
}

// Load reads root/catapult.config.*, root/networks.yaml, root/jobs/*.yaml,
// root/templates/*.yaml, and every *.json artifact under root/out/.
func (l *Loader) Load(root string) (*models.Project, *contracts.Repository, error) {
	cfg, err := l.loadConfig(root)
	if err != nil {
		return nil, nil, domain.NewError(domain.ErrKindConfiguration, err)
	}

	networks, err := l.loadNetworks(root)
	if err != nil {
		return nil, nil, domain.NewError(domain.ErrKindConfiguration, err)
	}

	templates, err := l.loadTemplates(root)
	if err != nil {
		return nil, nil, domain.NewError(domain.ErrKindConfiguration, err)
	}

	jobs, err := l.loadJobs(root)
	if err != nil {
		return nil, nil, domain.NewError(domain.ErrKindConfiguration, err)
	}

	repo := contracts.NewRepository(l.log, l.emitDuplicateArtifact)
	if err := l.loadArtifacts(root, repo); err != nil {
		return nil, nil, domain.NewError(domain.ErrKindConfiguration, err)
	}

	return &models.Project{
		Root:      root,
		Config:    cfg,
		Templates: templates,
		Jobs:      jobs,
		Networks:  networks,
	}, repo, nil
}

func (l *Loader) loadConfig(root string) (*models.ProjectConfig, error) {
	for _, name := range configSearchOrder {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		switch filepath.Ext(name) {
		case ".js", ".ts":
			return nil, fmt.Errorf("%s: JavaScript/TypeScript config files are not supported; use catapult.config.json or .yaml", name)
		case ".json":
			var cfg models.ProjectConfig
			if err := yamlOrJSONUnmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			return &cfg, nil
		default: // .yml, .yaml
			var cfg models.ProjectConfig
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			return &cfg, nil
		}
	}
	return &models.ProjectConfig{}, nil
}

func (l *Loader) loadNetworks(root string) (map[string]*models.Network, error) {
	path := filepath.Join(root, "networks.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]*models.Network{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read networks.yaml: %w", err)
	}

	var raw map[string]*models.Network
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse networks.yaml: %w", err)
	}
	for name, n := range raw {
		if n.Name == "" {
			n.Name = name
		}
	}
	return raw, nil
}

func (l *Loader) loadTemplates(root string) (map[string]*models.Template, error) {
	dir := filepath.Join(root, "templates")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]*models.Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}

	out := make(map[string]*models.Template)
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", e.Name(), err)
		}
		var t models.Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", e.Name(), err)
		}
		if t.Name == "" {
			t.Name = trimExt(e.Name())
		}
		if _, dup := out[t.Name]; dup {
			return nil, fmt.Errorf("duplicate template name %q", t.Name)
		}
		out[t.Name] = &t
	}
	return out, nil
}

func (l *Loader) loadJobs(root string) ([]*models.Job, error) {
	dir := filepath.Join(root, "jobs")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read jobs dir: %w", err)
	}

	var jobs []*models.Job
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read job %s: %w", e.Name(), err)
		}
		var j models.Job
		if err := yaml.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("parse job %s: %w", e.Name(), err)
		}
		if j.Name == "" {
			j.Name = trimExt(e.Name())
		}
		jobs = append(jobs, &j)
	}
	return jobs, nil
}

func (l *Loader) loadArtifacts(root string, repo *contracts.Repository) error {
	outDir := filepath.Join(root, "out")
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read artifact %s: %w", path, err)
		}

		rel, _ := filepath.Rel(root, path)
		for _, p := range l.parsers {
			artifact, ok := p.Parse(data, rel)
			if !ok {
				continue
			}
			if err := repo.Add(artifact); err != nil {
				return fmt.Errorf("add artifact %s: %w", rel, err)
			}
			return nil
		}
		return nil
	})
}

// emitDuplicateArtifact publishes duplicate_artifact_warning (§4.2,
// Testable Property 5) for an artifact that collided with an
// already-registered ContractName. Wired into contracts.NewRepository as
// its onDuplicate callback.
func (l *Loader) emitDuplicateArtifact(artifact *models.Artifact) {
	if l.emitter == nil {
		return
	}
	l.emitter.Emit(domain.Event{
		Type:      domain.EventDuplicateArtifact,
		Level:     domain.LevelWarn,
		Timestamp: time.Now(),
		Data:      map[string]any{"contractName": artifact.ContractName, "path": artifact.Path},
	})
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

// yamlOrJSONUnmarshal parses JSON using the YAML decoder, which accepts
// JSON as a strict subset.
func yamlOrJSONUnmarshal(data []byte, out any) error {
	return yaml.Unmarshal(data, out)
}
