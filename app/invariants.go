package app

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type invariantRoute struct {
	module string
	route  string
	invar  sdk.Invariant
}

// invariantRegistry collects module invariants the way x/crisis does.
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, invar: invar})
}

// Routes lists registered routes as module/route.
func (r *invariantRegistry) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for _, ir := range r.routes {
		out = append(out, fmt.Sprintf("%s/%s", ir.module, ir.route))
	}
	return out
}

// assert runs every route and reports the first broken one.
func (r *invariantRegistry) assert(ctx sdk.Context) (string, bool) {
	for _, ir := range r.routes {
		if msg, broken := ir.invar(ctx); broken {
			return fmt.Sprintf("%s/%s: %s", ir.module, ir.route, msg), true
		}
	}
	return "", false
}
