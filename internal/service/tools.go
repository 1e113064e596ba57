package service

const (
	ToolCurrentInventory   = "get_current_inventory"
	ToolOptimalInventory   = "get_optimal_inventory"
	ToolInventoryStatus    = "get_inventory_status"
	ToolReorderSuggestions = "get_reorder_suggestions"
)

// ArgProductID is the only tool argument.
const ArgProductID = "productId"

// Tool describes one invocable operation for catalog listings.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON Schema object of a tool's arguments.
type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
}

type SchemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func productIDSchema(description string) InputSchema {
	return InputSchema{
		Type: "object",
		Properties: map[string]SchemaProperty{
			ArgProductID: {Type: "string", Description: description},
		},
	}
}

var catalog = []Tool{
	{
		Name:        ToolCurrentInventory,
		Description: "Returns current stock levels. Pass a product ID to get a single product's stock record.",
		InputSchema: productIDSchema("Product ID (optional). When omitted, stock for every product is returned."),
	},
	{
		Name:        ToolOptimalInventory,
		Description: "Returns optimal inventory policies. Pass a product ID to get a single product's policy.",
		InputSchema: productIDSchema("Product ID (optional). When omitted, policies for every product are returned."),
	},
	{
		Name:        ToolInventoryStatus,
		Description: "Compares current stock with the optimal policy and returns the stock health status, alerts and utilization.",
		InputSchema: productIDSchema("Product ID (optional). When omitted, the status of every product is returned."),
	},
	{
		Name:        ToolReorderSuggestions,
		Description: "Lists products that need to be reordered with recommended quantities and expected delivery dates.",
		InputSchema: InputSchema{Type: "object", Properties: map[string]SchemaProperty{}},
	},
}

// Tools returns the tool catalog in a stable order.
func Tools() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}
