package compose

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator indicates an activation expression was present but no
// evaluator could be constructed for it.
var ErrNoEvaluator = errors.New("compose: evaluator not configured")

// WithEvaluator configures the evaluator used for activation rules.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *composerConfig) {
		cfg.evaluator = e
	}
}

// evaluateActivation runs the entry's ActivateWhen expression against the
// composer's host and reports whether the feature should instantiate. The
// attempt is always logged through the configured evaluator logger.
func (c *Composer) evaluateActivation(entry ResolvedFeature) (bool, error) {
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return false, err
	}
	ctx := RuleContext{
		Host:    c.host,
		Config:  entry.Config,
		Feature: entry.Name,
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, entry.ActivateWhen)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, entry.ActivateWhen, ctx.featureLabel(), evalErr)
	c.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     entry.ActivateWhen,
		Feature:  ctx.featureLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return false, evalErr
	}
	return truthy(value), nil
}

func (c *Composer) resolveEvaluator() (Evaluator, error) {
	if c.cfg.evaluator != nil {
		return c.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := c.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := c.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	c.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func (c *Composer) evaluatorLogger() EvaluatorLogger {
	if c.cfg.evalLogger != nil {
		return c.cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*compose.exprEvaluator":
		return "expr"
	case "*compose.celEvaluator":
		return "cel"
	case "*compose.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

// truthy folds an expression result into an activation decision: nil and
// explicit false deactivate, zero numbers and empty strings deactivate,
// everything else activates.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case int:
		return typed != 0
	case int32:
		return typed != 0
	case int64:
		return typed != 0
	case uint64:
		return typed != 0
	case float32:
		return typed != 0
	case float64:
		return typed != 0
	default:
		return true
	}
}
