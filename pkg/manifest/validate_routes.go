package manifest

import "fmt"

func (c *Config) validateRoutes() error {
	seen := map[string]int{}
	for i := range c.Routes {
		rt := &c.Routes[i]
		if err := rt.normalize(); err != nil {
			return fmt.Errorf("route[%d]: %w", i, err)
		}
		if err := rt.validate(); err != nil {
			return fmt.Errorf("route[%d] %s: %w", i, rt.Path, err)
		}
		for _, m := range rt.Methods {
			key := m + " " + rt.Path
			if j, dup := seen[key]; dup && j != i {
				return fmt.Errorf("route[%d] %s: method %s already declared by route[%d]", i, rt.Path, m, j)
			}
			seen[key] = i
		}
	}
	return nil
}
