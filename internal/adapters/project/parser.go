// Package project loads a working directory into a models.Project:
// artifacts (via the pluggable parser chain), jobs, templates, networks,
// and catapult.config.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/catapult-run/catapult/internal/domain/models"
)

// ArtifactParser tries to interpret raw file content as a compiled
// contract artifact. It returns (nil, false) when the content does not
// match its expected shape, letting the next parser in the chain try.
type ArtifactParser interface {
	Parse(content []byte, filePath string) (*models.Artifact, bool)
}

// DefaultParsers returns the built-in parser chain: a naive parser
// expecting {contractName, abi, bytecode}, then a Foundry-artifact parser
// that can synthesize contractName from the file or compilation target.
func DefaultParsers() []ArtifactParser {
	return []ArtifactParser{&naiveParser{}, &foundryParser{}}
}

// naiveArtifact mirrors the "naive" JSON schema named in the artifact
// parser interface: contractName, abi, bytecode (string or {object}),
// optional deployedBytecode/sourceName/compiler/source.
type naiveArtifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         json.RawMessage `json:"bytecode"`
	DeployedBytecode json.RawMessage `json:"deployedBytecode"`
	Compiler         *struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Source string `json:"source"`
}

type naiveParser struct{}

func (p *naiveParser) Parse(content []byte, filePath string) (*models.Artifact, bool) {
	var raw naiveArtifact
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, false
	}
	if raw.ContractName == "" || len(raw.ABI) == 0 {
		return nil, false
	}

	bytecode := decodeBytecodeField(raw.Bytecode)
	if bytecode == "" || !strings.HasPrefix(bytecode, "0x") {
		return nil, false
	}

	a := &models.Artifact{
		ContractName:     raw.ContractName,
		SourceName:       raw.SourceName,
		ABI:              raw.ABI,
		Bytecode:         bytecode,
		DeployedBytecode: decodeBytecodeField(raw.DeployedBytecode),
		Source:           raw.Source,
		Path:             filePath,
	}
	if raw.Compiler != nil {
		a.Compiler = &models.CompilerInfo{Version: raw.Compiler.Version}
	}
	a.Hash = hashBytecode(bytecode)
	return a, true
}

// foundryArtifact mirrors Foundry 1.2's `forge build` JSON output, where
// contractName is absent and must be synthesized from the filename or the
// metadata compilation target.
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
	DeployedBytecode struct {
		Object string `json:"object"`
	} `json:"deployedBytecode"`
	Metadata struct {
		Compiler struct {
			Version string `json:"version"`
		} `json:"compiler"`
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

type foundryParser struct{}

func (p *foundryParser) Parse(content []byte, filePath string) (*models.Artifact, bool) {
	var raw foundryArtifact
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, false
	}
	if len(raw.ABI) == 0 || raw.Bytecode.Object == "" {
		return nil, false
	}

	var sourceName, targetName string
	for src, name := range raw.Metadata.Settings.CompilationTarget {
		sourceName, targetName = src, name
		break
	}
	contractName := targetName
	if filePath != "" {
		contractName = strings.TrimSuffix(filepath.Base(filePath), ".json")
	}

	bytecode := raw.Bytecode.Object
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}

	a := &models.Artifact{
		ContractName:     contractName,
		SourceName:       sourceName,
		ABI:              raw.ABI,
		Bytecode:         bytecode,
		DeployedBytecode: raw.DeployedBytecode.Object,
		Path:             filePath,
	}
	if raw.Metadata.Compiler.Version != "" {
		a.Compiler = &models.CompilerInfo{Version: raw.Metadata.Compiler.Version}
	}
	a.Hash = hashBytecode(bytecode)
	return a, true
}

func decodeBytecodeField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Object
	}
	return ""
}

func hashBytecode(bytecode string) string {
	sum := sha256.Sum256([]byte(bytecode))
	return hex.EncodeToString(sum[:])
}
