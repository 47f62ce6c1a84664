package scope

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// GlobalsProvider contributes definitions from a known module.
type GlobalsProvider interface {
	Name() string
	Source() DefinitionsSource
}

// CoreGraphics exposes geometry globals that survive translation unchanged.
type CoreGraphics struct{}

func (CoreGraphics) Name() string { return "CoreGraphics" }

func (CoreGraphics) Source() DefinitionsSource {
	point, size, rect := ir.Named("CGPoint"), ir.Named("CGSize"), ir.Named("CGRect")
	f := func(name string, ret ir.TypeRef, params ...ir.ParameterSignature) *ir.CodeDefinition {
		return ir.NewFunction(ir.FunctionSignature{Name: name, Parameters: params, ReturnType: ret})
	}
	cg := func(name string) ir.ParameterSignature { return ir.Unlabeled(name, ir.CGFloat) }
	r := func(name string) ir.ParameterSignature { return ir.Unlabeled(name, rect) }
	v := func(name string, t ir.TypeRef) *ir.CodeDefinition {
		return ir.NewVariable(name, ir.ValueStorage{Type: t, Constant: true})
	}
	return NewArraySource([]*ir.CodeDefinition{
		f("CGPointMake", point, cg("x"), cg("y")),
		f("CGSizeMake", size, cg("width"), cg("height")),
		f("CGRectMake", rect, cg("x"), cg("y"), cg("width"), cg("height")),
		f("CGRectGetMinX", ir.CGFloat, r("rect")),
		f("CGRectGetMinY", ir.CGFloat, r("rect")),
		f("CGRectGetMaxX", ir.CGFloat, r("rect")),
		f("CGRectGetMaxY", ir.CGFloat, r("rect")),
		f("CGRectGetWidth", ir.CGFloat, r("rect")),
		f("CGRectGetHeight", ir.CGFloat, r("rect")),
		f("CGRectIsEmpty", ir.Bool, r("rect")),
		f("CGRectIntersectsRect", ir.Bool, r("rect1"), r("rect2")),
		f("CGRectContainsPoint", ir.Bool, r("rect"), ir.Unlabeled("point", point)),
		f("CGRectInset", rect, r("rect"), cg("dx"), cg("dy")),
		v("CGRectZero", rect),
		v("CGPointZero", point),
		v("CGSizeZero", size),
		v("CGRectNull", rect),
	})
}

// DefaultProviders returns the built-in providers in registration order.
func DefaultProviders() []GlobalsProvider {
	return []GlobalsProvider{CoreGraphics{}}
}

// Provider returns the built-in provider registered under name.
func Provider(name string) (GlobalsProvider, bool) {
	for _, p := range DefaultProviders() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
