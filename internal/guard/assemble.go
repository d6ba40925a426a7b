package guard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phobologic/guardgen/internal/syntax"
)

// BuildConfig is one test case to generate: call the callable with Value at
// ParamIndex and expect FailureKind.
type BuildConfig struct {
	ParamIndex  int
	Param       string
	FailureKind string
	Value       Value
}

// Assembler turns detected guards into build configs.
type Assembler struct {
	detector *Detector
	opts     Options
}

// NewAssembler returns an Assembler using opts for detection.
func NewAssembler(opts Options) *Assembler {
	opts = opts.withDefaults()
	return &Assembler{detector: NewDetector(opts), opts: opts}
}

// Assemble returns the build configs for c ordered by parameter position
// and, within a parameter, by discovery order. Identical configs are
// reported once. An empty result means c has no supported guards.
func (a *Assembler) Assemble(c *syntax.Callable) []BuildConfig {
	matches := a.detector.Detect(c)
	if len(matches) == 0 {
		return nil
	}

	type key struct {
		index int
		kind  string
		value Value
	}
	seen := make(map[key]struct{})

	var configs []BuildConfig
	for i, p := range c.Params {
		for _, m := range matches {
			if m.Param != p.Name {
				continue
			}
			for _, cfg := range a.configs(c, i, m) {
				k := key{cfg.ParamIndex, cfg.FailureKind, cfg.Value}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				configs = append(configs, cfg)
			}
		}
	}
	return configs
}

func (a *Assembler) configs(c *syntax.Callable, index int, m Match) []BuildConfig {
	name := c.Params[index].Name
	switch m.Kind {
	case NullAssertionCall:
		return []BuildConfig{{ParamIndex: index, Param: name, FailureKind: a.opts.NullFailure, Value: Null}}
	case NullEqualityGuard:
		return []BuildConfig{{ParamIndex: index, Param: name, FailureKind: m.Exception, Value: Null}}
	case RangeGuard:
		values := Synthesize(m)
		if len(values) == 0 {
			a.opts.Logger.Debug("no value satisfies range guard",
				zap.String("callable", c.QualifiedName()),
				zap.String("param", name),
				zap.String("bounds", fmt.Sprint(m.Bounds)))
			return nil
		}
		out := make([]BuildConfig, 0, len(values))
		for _, v := range values {
			out = append(out, BuildConfig{ParamIndex: index, Param: name, FailureKind: m.Exception, Value: v})
		}
		return out
	}
	return nil
}
