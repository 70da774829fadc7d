package api

// RegisteredTypes queries every registered type descriptor.
func (c *Client) RegisteredTypes(apiKey string) ([]RegisteredType, error) {
	var types []RegisteredType
	err := c.Get("/registered-types", apiKey, &types)
	return types, err
}

// FilteredRegisteredTypes queries a filtered subset of the registered types.
// Same path as [Client.RegisteredTypes]; POST with a filter body.
func (c *Client) FilteredRegisteredTypes(apiKey string, body QueryRegisteredTypes) ([]RegisteredType, error) {
	var types []RegisteredType
	err := c.Post("/registered-types", apiKey, body, &types)
	return types, err
}
