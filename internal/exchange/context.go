package exchange

import (
	"encoding/json"
	"strings"

	"routineshell/pkg/routinetypes"
)

// productContext renders the resolved selection as a system message for the
// direct providers, which have no products field of their own.
func productContext(products []routinetypes.ResolvedProduct) string {
	if len(products) == 0 {
		return "The user has not selected any products."
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		var names []string
		for _, p := range products {
			names = append(names, p.Name)
		}
		return "The user has selected these products: " + strings.Join(names, ", ")
	}
	return "The user has selected these products (JSON):\n" + string(data)
}

// splitSystem separates system entries from the rest of the conversation,
// appending the product context to the system text.
func splitSystem(messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, []routinetypes.Message) {
	var system []string
	rest := make([]routinetypes.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == routinetypes.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	system = append(system, productContext(products))
	return strings.Join(system, "\n\n"), rest
}
