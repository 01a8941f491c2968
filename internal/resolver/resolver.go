package resolver

import "context"

// Resolver wires each module's imports to the exports that satisfy them.
type Resolver interface {
	Resolve(ctx context.Context, in Input) (Plan, error)
}
