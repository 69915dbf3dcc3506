// Package executor implements the Action Executor: primitive actions,
// plugin dispatch, and templated-action expansion with scoping, skip
// conditions, and output binding.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/plugin"
)

// primitiveFunc implements a built-in action type. resolvedArgs holds the
// action's Arguments, already resolved.
type primitiveFunc func(ctx context.Context, ec domain.ExecutionContext, resolvedArgs map[string]any) (map[string]any, error)

// Executor runs actions within a scope, dispatching by
// plugin > primitive > template precedence.
type Executor struct {
	resolver   domain.Resolver
	templates  map[string]*models.Template
	plugins    *plugin.Registry
	primitives map[string]primitiveFunc
	verifier   domain.ContractVerifier
}

func New(resolver domain.Resolver, templates map[string]*models.Template, plugins *plugin.Registry, verifier domain.ContractVerifier) *Executor {
	e := &Executor{
		resolver:  resolver,
		templates: templates,
		plugins:   plugins,
		verifier:  verifier,
	}
	e.primitives = map[string]primitiveFunc{
		"constant":                     primitiveConstant,
		"send-transaction":             e.primitiveSendTransaction,
		"send-presigned-transaction":   e.primitiveSendPresignedTransaction,
		"abi-encode":                   e.primitiveAsResolver("abi-encode"),
		"abi-pack":                     e.primitiveAsResolver("abi-pack"),
		"constructor-encode":           e.primitiveAsResolver("constructor-encode"),
		"compute-create":               e.primitiveAsResolver("compute-create"),
		"compute-create2":              e.primitiveAsResolver("compute-create2"),
		"verify-contract":              e.primitiveVerifyContract,
	}
	return e
}

// Run executes actions in order within scope, which is mutated by no one
// (template invocations fork their own child scope).
func (e *Executor) Run(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, actions []models.Action) error {
	for i := range actions {
		if err := e.runOne(ctx, ec, scope, &actions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runOne(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, action *models.Action) error {
	skip, err := e.evalSkip(ctx, ec, scope, action.SkipCondition)
	if err != nil {
		return fmt.Errorf("action %q: skip_condition: %w", action.Name, err)
	}
	if skip {
		ec.Emit(domain.Event{Type: domain.EventActionSkipped, Level: domain.LevelInfo, Timestamp: time.Now(), Data: action.Name})
		return nil
	}

	resolvedArgs, err := e.resolveArguments(ctx, ec, scope, action.Arguments)
	if err != nil {
		return fmt.Errorf("action %q: arguments: %w", action.Name, err)
	}

	ec.Emit(domain.Event{Type: domain.EventActionStarted, Level: domain.LevelInfo, Timestamp: time.Now(), Data: action.Name})

	intrinsic, err := e.dispatch(ctx, ec, scope, action, resolvedArgs)
	if err != nil {
		ec.Emit(domain.Event{Type: domain.EventActionFailed, Level: domain.LevelError, Timestamp: time.Now(), Data: map[string]any{"action": action.Name, "error": err.Error()}})
		return fmt.Errorf("action %q: %w", action.Name, err)
	}

	if err := e.storeOutputs(ctx, ec, scope, action, intrinsic); err != nil {
		return fmt.Errorf("action %q: %w", action.Name, err)
	}

	ec.Emit(domain.Event{Type: domain.EventActionCompleted, Level: domain.LevelInfo, Timestamp: time.Now(), Data: action.Name})
	return nil
}

// dispatch resolves by plugin > primitive > template precedence (4.4).
func (e *Executor) dispatch(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, action *models.Action, resolvedArgs map[string]any) (map[string]any, error) {
	if handler, ok := e.plugins.GetHandler(action.Type); ok {
		out, err := handler(ctx, ec, *action, resolvedArgs)
		if err != nil {
			ec.Emit(domain.Event{Type: domain.EventPluginActionFailed, Level: domain.LevelError, Timestamp: time.Now(), Data: map[string]any{"action": action.Name, "type": action.Type}})
			return nil, fmt.Errorf("plugin action %q (type: %s) failed: %w", action.Name, action.Type, err)
		}
		return out, nil
	}

	if prim, ok := e.primitives[action.Type]; ok {
		return prim(ctx, ec, resolvedArgs)
	}

	if tmpl, ok := e.templates[action.Type]; ok {
		return e.expandTemplate(ctx, ec, tmpl, action, resolvedArgs)
	}

	return nil, fmt.Errorf("template %q not found", action.Type)
}

func (e *Executor) resolveArguments(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		resolved, err := e.resolver.Resolve(ctx, ec, scope, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

// storeOutputs stores intrinsic outputs under "<name>.<key>", then any
// action.Output-mapped expressions (resolved with intrinsic outputs
// visible via scope) under "<name>.<customKey>".
func (e *Executor) storeOutputs(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, action *models.Action, intrinsic map[string]any) error {
	if action.Name == "" {
		return nil
	}

	for k, v := range intrinsic {
		if err := ec.SetOutput(action.Name+"."+k, v); err != nil {
			return err
		}
	}

	if len(action.Output) == 0 {
		return nil
	}

	childScope := make(map[string]any, len(scope)+len(intrinsic))
	for k, v := range scope {
		childScope[k] = v
	}
	for k, v := range intrinsic {
		childScope[k] = v
	}

	for k, expr := range action.Output {
		resolved, err := e.resolver.Resolve(ctx, ec, childScope, expr)
		if err != nil {
			return fmt.Errorf("output %q: %w", k, err)
		}
		if err := ec.SetOutput(action.Name+"."+k, resolved); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) evalSkip(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, conditions []any) (bool, error) {
	for _, cond := range conditions {
		resolved, err := e.resolver.Resolve(ctx, ec, scope, cond)
		if err != nil {
			return false, err
		}
		if truthy(resolved) {
			return true, nil
		}
	}
	return false, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	case string:
		return t != "" && t != "false" && t != "0"
	default:
		return true
	}
}

// primitiveAsResolver exposes a resolver tag as an action, for uses where
// the result should be written as an output rather than only inlined into
// another expression (e.g. {type: compute-create2, name: factory, ...}).
func (e *Executor) primitiveAsResolver(tag string) primitiveFunc {
	return func(ctx context.Context, ec domain.ExecutionContext, resolvedArgs map[string]any) (map[string]any, error) {
		expr := make(map[string]any, len(resolvedArgs)+1)
		for k, v := range resolvedArgs {
			expr[k] = v
		}
		expr["type"] = tag
		result, err := e.resolver.Resolve(ctx, ec, nil, expr)
		if err != nil {
			return nil, err
		}
		return map[string]any{"result": result}, nil
	}
}

func primitiveConstant(ctx context.Context, ec domain.ExecutionContext, resolvedArgs map[string]any) (map[string]any, error) {
	return map[string]any{"result": resolvedArgs["value"]}, nil
}

// ResolveForSkip exposes the Value Resolver for job-level skip_condition
// evaluation, which runs outside any single action's scope.
func (e *Executor) ResolveForSkip(ctx context.Context, ec domain.ExecutionContext, expr any) (any, error) {
	return e.resolver.Resolve(ctx, ec, nil, expr)
}
