package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

// expandTemplate implements the templated-action expansion algorithm
// (4.4): bind arguments into a local scope, run an optional setup block
// (which sees the template arguments and writes to the shared output
// store), evaluate skip_condition, run the body, then bind outputs.
func (e *Executor) expandTemplate(ctx context.Context, ec domain.ExecutionContext, tmpl *models.Template, action *models.Action, resolvedArgs map[string]any) (map[string]any, error) {
	local := make(map[string]any, len(tmpl.Arguments))
	for _, argName := range tmpl.Arguments {
		local[argName] = resolvedArgs[argName]
	}

	if tmpl.Setup != nil {
		skip, err := e.evalSkip(ctx, ec, local, tmpl.Setup.SkipCondition)
		if err != nil {
			return nil, fmt.Errorf("template %q: setup skip_condition: %w", tmpl.Name, err)
		}
		if skip {
			ec.Emit(domain.Event{Type: domain.EventTemplateSetupSkipped, Level: domain.LevelInfo, Timestamp: time.Now(), Data: tmpl.Name})
		} else {
			setupScope := prefixScope(action.Name, local)
			if err := e.Run(ctx, ec, setupScope, tmpl.Setup.Actions); err != nil {
				return nil, fmt.Errorf("template %q: setup: %w", tmpl.Name, err)
			}
		}
	}

	skip, err := e.evalSkip(ctx, ec, local, tmpl.SkipCondition)
	if err != nil {
		return nil, fmt.Errorf("template %q: skip_condition: %w", tmpl.Name, err)
	}
	if skip {
		ec.Emit(domain.Event{Type: domain.EventTemplateSkipped, Level: domain.LevelInfo, Timestamp: time.Now(), Data: tmpl.Name})
		return e.resolveTemplateOutputs(ctx, ec, tmpl, local)
	}

	ec.Emit(domain.Event{Type: domain.EventTemplateEntered, Level: domain.LevelDebug, Timestamp: time.Now(), Data: tmpl.Name})
	if err := e.Run(ctx, ec, local, tmpl.Actions); err != nil {
		return nil, fmt.Errorf("template %q: %w", tmpl.Name, err)
	}

	outputs, err := e.resolveTemplateOutputs(ctx, ec, tmpl, local)
	if err != nil {
		return nil, err
	}
	ec.Emit(domain.Event{Type: domain.EventTemplateExited, Level: domain.LevelDebug, Timestamp: time.Now(), Data: tmpl.Name})
	return outputs, nil
}

func (e *Executor) resolveTemplateOutputs(ctx context.Context, ec domain.ExecutionContext, tmpl *models.Template, scope map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(tmpl.Outputs))
	for k, expr := range tmpl.Outputs {
		resolved, err := e.resolver.Resolve(ctx, ec, scope, expr)
		if err != nil {
			return nil, fmt.Errorf("template %q: output %q: %w", tmpl.Name, k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

// prefixScope returns scope unchanged: setup actions run with the template's
// argument scope, and their outputs are stored as <setup-action>.<key> in
// the shared output store. invocationName is not used; no invocation-name
// prefix is added to setup output keys.
func prefixScope(invocationName string, scope map[string]any) map[string]any {
	return scope
}
