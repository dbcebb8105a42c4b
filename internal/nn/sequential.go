package nn

import (
	"fmt"
	"strconv"
	"strings"
)

// Sequential is a container module that chains modules together.
//
// Each module's output becomes the next module's input:
//
//	model := nn.NewSequential(
//	    linear1,
//	    nn.NewReLU(),
//	    linear2,
//	)
//	logits, err := model.Forward(x)
type Sequential struct {
	modules []Module
}

// NewSequential creates a container holding modules in order.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input *Tensor) (*Tensor, error) {
	output := input
	for i, module := range s.modules {
		var err error
		if output, err = module.Forward(output); err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
	}
	return output, nil
}

// Parameters returns the parameters of every module in order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// Modules returns the modules in order.
func (s *Sequential) Modules() []Module {
	return s.modules
}

// StateDict returns every parameter keyed as "<module index>.<name>".
func (s *Sequential) StateDict() StateDict {
	state := make(StateDict)
	for i, module := range s.modules {
		for name, arr := range module.StateDict() {
			state[fmt.Sprintf("%d.%s", i, name)] = arr
		}
	}
	return state
}

// LoadStateDict loads parameters keyed as "<module index>.<name>".
func (s *Sequential) LoadStateDict(state StateDict) error {
	sub := make([]StateDict, len(s.modules))
	for key, arr := range state {
		prefix, name, ok := strings.Cut(key, ".")
		if !ok {
			return fmt.Errorf("state key %q has no module index", key)
		}
		i, err := strconv.Atoi(prefix)
		if err != nil || i < 0 || i >= len(s.modules) {
			return fmt.Errorf("state key %q does not match a module", key)
		}
		if sub[i] == nil {
			sub[i] = make(StateDict)
		}
		sub[i][name] = arr
	}

	for i, module := range s.modules {
		if len(module.Parameters()) == 0 {
			continue
		}
		if err := module.LoadStateDict(sub[i]); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}

// ZeroGrad clears the gradients of every parameter.
func (s *Sequential) ZeroGrad() {
	for _, p := range s.Parameters() {
		p.ZeroGrad()
	}
}
