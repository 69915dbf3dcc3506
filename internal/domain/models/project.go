package models

// Network is the descriptor addressed from value expressions via Network().
type Network struct {
	Name       string   `yaml:"name"`
	ChainID    uint64   `yaml:"chainId"`
	RPCURL     string   `yaml:"rpcUrl"`
	Supports   []string `yaml:"supports,omitempty"`
	GasLimit   uint64   `yaml:"gasLimit,omitempty"`
	EVMVersion string   `yaml:"evmVersion,omitempty"`
	Testnet    bool     `yaml:"testnet,omitempty"`
}

// Field looks up one of Network's addressable fields by name, for the
// resolver's Network().field references.
func (n *Network) Field(name string) (any, bool) {
	switch name {
	case "name":
		return n.Name, true
	case "chainId":
		return n.ChainID, true
	case "rpcUrl":
		return n.RPCURL, true
	case "supports":
		return n.Supports, true
	case "gasLimit":
		return n.GasLimit, true
	case "evmVersion":
		return n.EVMVersion, true
	case "testnet":
		return n.Testnet, true
	default:
		return nil, false
	}
}

// Action is one declarative unit of work inside a job or template body.
// Arguments, Output and SkipCondition hold unresolved value expressions
// (plain YAML-decoded `any`): literals, "{{ref}}" strings, nested
// maps/slices, or tagged resolver objects.
type Action struct {
	Type          string         `yaml:"type"`
	Name          string         `yaml:"name,omitempty"`
	Arguments     map[string]any `yaml:"arguments,omitempty"`
	Output        map[string]any `yaml:"output,omitempty"`
	SkipCondition []any          `yaml:"skip_condition,omitempty"`
}

// TemplateSetup runs once per template invocation, before the
// skip_condition and body are evaluated. Its actions see the template
// arguments and write their outputs to the shared output store.
type TemplateSetup struct {
	Actions       []Action `yaml:"actions,omitempty"`
	SkipCondition []any    `yaml:"skip_condition,omitempty"`
}

// Template is a reusable, parameterized action sequence.
type Template struct {
	Name          string         `yaml:"name"`
	Arguments     []string       `yaml:"arguments,omitempty"`
	Returns       []string       `yaml:"returns,omitempty"`
	Actions       []Action       `yaml:"actions,omitempty"`
	Outputs       map[string]any `yaml:"outputs,omitempty"`
	SkipCondition []any          `yaml:"skip_condition,omitempty"`
	Setup         *TemplateSetup `yaml:"setup,omitempty"`
}

// Job is a named, orderable sequence of actions.
type Job struct {
	Name          string   `yaml:"name"`
	DependsOn     []string `yaml:"depends_on,omitempty"`
	Networks      []string `yaml:"networks,omitempty"`
	Actions       []Action `yaml:"actions,omitempty"`
	SkipCondition []any    `yaml:"skip_condition,omitempty"`
}

// ProjectConfig is the contents of catapult.config.{yaml,yml,json}.
type ProjectConfig struct {
	Plugins []string `yaml:"plugins,omitempty" json:"plugins,omitempty"`
}

// Project is the aggregate produced by loading a working directory: its
// root, templates, jobs, networks and configuration. Artifacts are not part
// of it; the loader returns them in a contract repository alongside it.
type Project struct {
	Root      string
	Config    *ProjectConfig
	Templates map[string]*Template
	Jobs      []*Job
	Networks  map[string]*Network
}
